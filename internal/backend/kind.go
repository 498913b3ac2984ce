package backend

import (
	"fmt"
	"strings"
)

// Kind 表示一个命名的存储后端。
type Kind int

const (
	None Kind = iota
	GameRoot
	BundledReadOnly
	PersistentWritable
	TemporaryCache
	EmbeddedNamedResource
	ConsoleLog
	AbsoluteURL
	Custom
)

// InferOrder 是从完整路径反推后端时的固定优先级，先匹配者胜出。
var InferOrder = []Kind{
	BundledReadOnly,
	GameRoot,
	PersistentWritable,
	TemporaryCache,
	ConsoleLog,
	AbsoluteURL,
	Custom,
}

var kindNames = map[Kind]string{
	None:                  "none",
	GameRoot:              "game-root",
	BundledReadOnly:       "bundled",
	PersistentWritable:    "persistent",
	TemporaryCache:        "temporary-cache",
	EmbeddedNamedResource: "resource",
	ConsoleLog:            "console-log",
	AbsoluteURL:           "absolute-url",
	Custom:                "custom",
}

// Kinds 返回全部内置后端，按声明顺序排列。
func Kinds() []Kind {
	return []Kind{
		None, GameRoot, BundledReadOnly, PersistentWritable, TemporaryCache,
		EmbeddedNamedResource, ConsoleLog, AbsoluteURL, Custom,
	}
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Valid 判断 Kind 是否属于封闭集合。
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// IsSet 在 Kind 不为 None 时返回 true，路径继承以此判断字段是否被显式设置。
func (k Kind) IsSet() bool {
	return k != None
}

// ParseKind 解析配置中的后端名称，同时接受描述注册表中的别名，大小写不敏感。
func ParseKind(raw string) (Kind, error) {
	normalized := normalizeName(raw)
	if normalized == "" {
		return None, nil
	}
	if desc, ok := lookupName(normalized); ok {
		return desc.Kind, nil
	}
	return None, fmt.Errorf("unknown backend: %s", raw)
}

// MarshalText 让 Kind 在 JSON/TOML 中以名称形式出现。
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid backend kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText 与 ParseKind 保持一致。
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func normalizeName(raw string) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	return strings.ReplaceAll(name, "_", "-")
}
