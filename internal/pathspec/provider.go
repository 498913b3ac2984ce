package pathspec

import (
	"errors"

	"github.com/any-hub/pathdoc/internal/backend"
)

// ErrUnresolvedPlatform 表示平台表中没有条目匹配当前平台。调用方必须先检查该错误，
// 再使用任何派生路径。
var ErrUnresolvedPlatform = errors.New("no path entry for current platform")

// Provider 是任何能给出平铺 PathSpec 的路径来源。
type Provider interface {
	Spec() (PathSpec, error)
}

// Resolved 是一次解析的快照，便于日志与诊断接口输出。
type Resolved struct {
	Spec          PathSpec `json:"spec"`
	FullPath      string   `json:"full_path"`
	DirectoryPath string   `json:"directory_path"`
	PartialPath   string   `json:"partial_path"`
	ReadOnly      bool     `json:"read_only"`
}

// Describe 解析 Provider 并计算全部派生路径。
func Describe(p Provider, env backend.Environment) (Resolved, error) {
	if p == nil {
		return Resolved{}, errors.New("path provider is nil")
	}
	spec, err := p.Spec()
	if err != nil {
		return Resolved{}, err
	}
	return Resolved{
		Spec:          spec,
		FullPath:      spec.FullPath(env),
		DirectoryPath: spec.DirectoryPath(env),
		PartialPath:   spec.PartialPath(),
		ReadOnly:      spec.ReadOnly(),
	}, nil
}
