package pathspec

import (
	"slices"

	"github.com/any-hub/pathdoc/internal/backend"
)

// PlatformEntry 把一条路径声明绑定到若干平台。
type PlatformEntry struct {
	Path      *Chain
	Platforms []backend.Platform
}

// Matches 判断条目是否适用于给定平台。
func (e PlatformEntry) Matches(p backend.Platform) bool {
	return slices.Contains(e.Platforms, p)
}

// PlatformTable 是有序的平台条目表，按声明顺序第一个匹配者胜出，重叠不算冲突。
// 每次调用都重新求值，不缓存结果。
type PlatformTable struct {
	Entries []PlatformEntry
	// Platform 提供当前平台，为 nil 时使用 backend.CurrentPlatform。
	Platform func() backend.Platform
}

// Add 追加一个条目并返回表本身，便于链式声明。
func (t *PlatformTable) Add(path *Chain, platforms ...backend.Platform) *PlatformTable {
	t.Entries = append(t.Entries, PlatformEntry{Path: path, Platforms: platforms})
	return t
}

// Resolve 返回第一个包含 p 的条目的路径。
func (t *PlatformTable) Resolve(p backend.Platform) (*Chain, bool) {
	if t == nil {
		return nil, false
	}
	for _, entry := range t.Entries {
		if entry.Path != nil && entry.Matches(p) {
			return entry.Path, true
		}
	}
	return nil, false
}

// Current 按当前平台解析。
func (t *PlatformTable) Current() (*Chain, bool) {
	return t.Resolve(t.currentPlatform())
}

// Spec 使平台表满足 Provider；无匹配时返回 ErrUnresolvedPlatform。
func (t *PlatformTable) Spec() (PathSpec, error) {
	chain, ok := t.Current()
	if !ok {
		return PathSpec{}, ErrUnresolvedPlatform
	}
	return chain.Spec()
}

// Backend 委托给当前平台匹配的条目。
func (t *PlatformTable) Backend() (backend.Kind, error) {
	spec, err := t.Spec()
	return spec.Backend, err
}

// FileName 委托给当前平台匹配的条目。
func (t *PlatformTable) FileName() (string, error) {
	spec, err := t.Spec()
	return spec.FileName, err
}

// FullPath 委托给当前平台匹配的条目。
func (t *PlatformTable) FullPath(env backend.Environment) (string, error) {
	spec, err := t.Spec()
	if err != nil {
		return "", err
	}
	return spec.FullPath(env), nil
}

func (t *PlatformTable) currentPlatform() backend.Platform {
	if t != nil && t.Platform != nil {
		return t.Platform()
	}
	return backend.CurrentPlatform()
}
