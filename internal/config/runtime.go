package config

import (
	"fmt"
	"strings"

	"github.com/any-hub/pathdoc/internal/backend"
	"github.com/any-hub/pathdoc/internal/document"
	"github.com/any-hub/pathdoc/internal/pathspec"
)

// Context 返回配置的运行环境（假定 Validate 已经通过）。
func (g GlobalConfig) Context() document.RuntimeContext {
	ctx, err := document.ParseContext(g.RuntimeContext)
	if err != nil {
		return document.ContextEditor
	}
	return ctx
}

// CurrentPlatform 返回配置的平台，未配置时使用宿主平台。
func (g GlobalConfig) CurrentPlatform() backend.Platform {
	if g.Platform == "" {
		return backend.CurrentPlatform()
	}
	return backend.Platform(g.Platform)
}

// Overrides 返回非空的根目录覆盖项。
func (r RootsConfig) Overrides() map[backend.Kind]string {
	all := map[backend.Kind]string{
		backend.GameRoot:           r.GameRoot,
		backend.BundledReadOnly:    r.BundledReadOnly,
		backend.PersistentWritable: r.PersistentWritable,
		backend.TemporaryCache:     r.TemporaryCache,
		backend.ConsoleLog:         r.ConsoleLog,
		backend.AbsoluteURL:        r.AbsoluteURL,
	}
	result := make(map[backend.Kind]string, len(all))
	for kind, root := range all {
		if strings.TrimSpace(root) != "" {
			result[kind] = root
		}
	}
	return result
}

// Environment 返回按配置覆盖根目录的宿主环境，根目录在每次查询时重新计算。
func (c *Config) Environment() backend.XDGEnvironment {
	return backend.XDGEnvironment{
		AppName:   c.Global.AppName,
		Overrides: c.Roots.Overrides(),
		Current:   c.Global.CurrentPlatform(),
	}
}

// Spec 把路径声明转换为本地字段（不含父级）。
func (p PathConfig) Spec() (pathspec.PathSpec, error) {
	kind, err := backend.ParseKind(p.Backend)
	if err != nil {
		return pathspec.PathSpec{}, fmt.Errorf("%s: %w", pathField(p.Name, "Backend"), err)
	}
	return pathspec.PathSpec{
		Backend:    kind,
		CustomRoot: p.CustomRoot,
		SubPath:    p.SubPath,
		FileName:   p.FileName,
		Extension:  p.Extension,
	}, nil
}

// PlatformList 返回条目适用的平台列表。
func (e TableEntryConfig) PlatformList() []backend.Platform {
	result := make([]backend.Platform, 0, len(e.Platforms))
	for _, p := range e.Platforms {
		if trimmed := strings.ToLower(strings.TrimSpace(p)); trimmed != "" {
			result = append(result, backend.Platform(trimmed))
		}
	}
	return result
}

// Policy 解析 UseFile；未配置时任何运行环境都读取文件。
func (d DocumentConfig) Policy() (document.Policy, error) {
	if len(d.UseFile) == 0 {
		return document.PolicyAlways, nil
	}
	return document.ParsePolicy(d.UseFile)
}

// Severity 解析 NotFound 级别。
func (d DocumentConfig) Severity() (document.Severity, error) {
	return document.ParseSeverity(d.NotFound)
}
