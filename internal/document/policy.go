package document

import (
	"fmt"
	"strings"
)

// RuntimeContext 表示当前运行环境。
type RuntimeContext uint8

const (
	ContextBuild RuntimeContext = 1 << iota
	ContextDevelopmentBuild
	ContextEditor
)

var contextNames = map[string]RuntimeContext{
	"build":             ContextBuild,
	"release":           ContextBuild,
	"development":       ContextDevelopmentBuild,
	"development-build": ContextDevelopmentBuild,
	"debug":             ContextDevelopmentBuild,
	"editor":            ContextEditor,
}

// ParseContext 解析配置中的运行环境名称。
func ParseContext(raw string) (RuntimeContext, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if ctx, ok := contextNames[key]; ok {
		return ctx, nil
	}
	return 0, fmt.Errorf("unknown runtime context: %s", raw)
}

func (c RuntimeContext) String() string {
	switch c {
	case ContextBuild:
		return "build"
	case ContextDevelopmentBuild:
		return "development"
	case ContextEditor:
		return "editor"
	default:
		return fmt.Sprintf("context(%d)", uint8(c))
	}
}

// Policy 是 RuntimeContext 的位掩码，决定物化时是否读取文件。
type Policy uint8

const (
	PolicyNever  Policy = 0
	PolicyAlways        = Policy(ContextBuild | ContextDevelopmentBuild | ContextEditor)
)

// PolicyOf 由若干运行环境组成策略。
func PolicyOf(contexts ...RuntimeContext) Policy {
	var p Policy
	for _, ctx := range contexts {
		p |= Policy(ctx)
	}
	return p
}

// Allows 报告策略是否允许在 ctx 中读取文件。
func (p Policy) Allows(ctx RuntimeContext) bool {
	return p&Policy(ctx) != 0
}

// ParsePolicy 解析 ["editor", "build"] 形式的列表，另外接受 "always" 与 "never"。
func ParsePolicy(names []string) (Policy, error) {
	var p Policy
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		switch key {
		case "":
			continue
		case "always", "all":
			p |= PolicyAlways
		case "never", "none":
		default:
			ctx, err := ParseContext(key)
			if err != nil {
				return 0, err
			}
			p |= Policy(ctx)
		}
	}
	return p, nil
}

// Severity 是文件缺失时诊断输出的级别。
type Severity int

const (
	SeveritySilent Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

// ParseSeverity 解析 silent|info|warning|error，空字符串视为 warning。
func ParseSeverity(raw string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "silent", "none", "off":
		return SeveritySilent, nil
	case "info", "normal":
		return SeverityInfo, nil
	case "", "warning", "warn":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	default:
		return SeveritySilent, fmt.Errorf("unknown severity: %s", raw)
	}
}

func (s Severity) String() string {
	switch s {
	case SeveritySilent:
		return "silent"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}
