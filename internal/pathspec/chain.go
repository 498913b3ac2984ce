package pathspec

import (
	"strings"

	"github.com/any-hub/pathdoc/internal/backend"
)

// ResolveLayers 按"最具体的在前"的顺序合并若干部分声明：每个字段取第一个已设置的值。
// 字符串去掉空白后非空即视为已设置，Backend 不为 None 即视为已设置。
func ResolveLayers(layers ...PathSpec) PathSpec {
	var out PathSpec
	for i := len(layers) - 1; i >= 0; i-- {
		layer := layers[i]
		if layer.Backend.IsSet() {
			out.Backend = layer.Backend
		}
		overrideString(&out.CustomRoot, layer.CustomRoot)
		overrideString(&out.SubPath, layer.SubPath)
		overrideString(&out.FileName, layer.FileName)
		overrideString(&out.Extension, layer.Extension)
	}
	return out
}

func overrideString(dst *string, value string) {
	if isSet(value) {
		*dst = value
	}
}

func isSet(value string) bool {
	return strings.TrimSpace(value) != ""
}

// Chain 在本地 PathSpec 之上叠加父级：本地未设置的字段回退为父级解析后的值。
// Parent 只是引用，Chain 不拥有它。父子关系不得成环，这一点由调用方保证。
type Chain struct {
	Local  PathSpec
	Parent Provider
}

// NewChain 构造带父级的链节点，parent 可以为 nil。
func NewChain(local PathSpec, parent Provider) *Chain {
	return &Chain{Local: local, Parent: parent}
}

// HasParent 报告是否存在父级。
func (c *Chain) HasParent() bool {
	return c != nil && c.Parent != nil
}

// Spec 递归解析父级后逐字段合并。父级解析失败（例如平台表无匹配）时原样返回错误。
func (c *Chain) Spec() (PathSpec, error) {
	if c == nil {
		return PathSpec{}, nil
	}
	if !c.HasParent() {
		return c.Local, nil
	}
	parent, err := c.Parent.Spec()
	if err != nil {
		return PathSpec{}, err
	}
	return ResolveLayers(c.Local, parent), nil
}

// Backend 返回解析后的后端。
func (c *Chain) Backend() (backend.Kind, error) {
	spec, err := c.Spec()
	return spec.Backend, err
}

// FileName 返回解析后的文件名。
func (c *Chain) FileName() (string, error) {
	spec, err := c.Spec()
	return spec.FileName, err
}

// FullPath 返回解析后的完整路径。
func (c *Chain) FullPath(env backend.Environment) (string, error) {
	spec, err := c.Spec()
	if err != nil {
		return "", err
	}
	return spec.FullPath(env), nil
}

// Flatten 把解析结果复制成不依赖父级的 PathSpec。
func (c *Chain) Flatten() (PathSpec, error) {
	var out PathSpec
	spec, err := c.Spec()
	if err != nil {
		return out, err
	}
	out.CopyFrom(spec)
	return out, nil
}
