// Package serializer 提供文档使用的 JSON 编解码：读取时容忍注释与尾逗号（JSONC），
// 并合并到已有实例上，保持实例身份不变。
package serializer

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tailscale/hujson"
)

// Serializer 是文档依赖的外部编解码能力。
type Serializer interface {
	// Overwrite 把 text 合并进 target 指向的已有实例，不替换其身份。
	Overwrite(text string, target any) error
	// ToText 把实例编码成文本。
	ToText(v any, pretty bool) (string, error)
}

// JSON 是默认实现。
type JSON struct {
	// Indent 为美化输出时的缩进，默认两个空格。
	Indent string
}

// Overwrite 先将 JSONC 标准化，再 json.Unmarshal 到 target。target 必须是非 nil 指针；
// 对于指针或 map 类型的值，Unmarshal 会沿用已有对象逐字段覆盖。
func (s JSON) Overwrite(text string, target any) error {
	if target == nil {
		return errors.New("overwrite target is nil")
	}
	standardized, err := hujson.Standardize([]byte(text))
	if err != nil {
		return fmt.Errorf("invalid JSONC: %w", err)
	}
	if err := json.Unmarshal(standardized, target); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// ToText 编码 v，pretty 为 true 时使用缩进，并总是以换行结尾。
func (s JSON) ToText(v any, pretty bool) (string, error) {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(v, "", s.indent())
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return "", fmt.Errorf("encode JSON: %w", err)
	}
	return string(data) + "\n", nil
}

func (s JSON) indent() string {
	if s.Indent != "" {
		return s.Indent
	}
	return "  "
}
