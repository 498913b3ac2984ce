package pathspec

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/any-hub/pathdoc/internal/backend"
)

// PathSpec 是单个文件在某个后端中的逻辑位置。FileName 不带扩展名；
// CustomRoot 仅在 Backend 为 Custom 时生效。
type PathSpec struct {
	Backend    backend.Kind `json:"backend"`
	CustomRoot string       `json:"custom_root,omitempty"`
	SubPath    string       `json:"sub_path,omitempty"`
	FileName   string       `json:"file_name,omitempty"`
	Extension  string       `json:"extension,omitempty"`
}

// FromFullPath 由绝对路径构造 PathSpec，规则同 SetFromFullPath。
func FromFullPath(env backend.Environment, fullPath string) PathSpec {
	var spec PathSpec
	spec.SetFromFullPath(env, fullPath)
	return spec
}

// NormalizeExtension 保证扩展名为空或以 "." 开头。
func NormalizeExtension(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}

// Spec 让 PathSpec 本身也满足 Provider。
func (p PathSpec) Spec() (PathSpec, error) {
	return p, nil
}

// FileNameWithExtension 返回 FileName + 规范化后的扩展名。
func (p PathSpec) FileNameWithExtension() string {
	return p.FileName + NormalizeExtension(p.Extension)
}

// Root 返回当前后端的根目录：Custom 取 CustomRoot，None 与内嵌资源没有根。
func (p PathSpec) Root(env backend.Environment) string {
	return p.rootFor(env, p.Backend)
}

// FullPath 计算物理路径。内嵌资源按名称查找，因此不带扩展名。
func (p PathSpec) FullPath(env backend.Environment) string {
	switch p.Backend {
	case backend.None:
		return joinPath(p.SubPath, p.FileNameWithExtension())
	case backend.EmbeddedNamedResource:
		return joinPath(p.SubPath, p.FileName)
	default:
		return joinPath(p.Root(env), p.SubPath, p.FileNameWithExtension())
	}
}

// DirectoryPath 返回文件所在目录。
func (p PathSpec) DirectoryPath(env backend.Environment) string {
	switch p.Backend {
	case backend.None, backend.EmbeddedNamedResource:
		return p.SubPath
	default:
		return joinPath(p.Root(env), p.SubPath)
	}
}

// PartialPath 返回不含根目录的相对路径。
func (p PathSpec) PartialPath() string {
	if p.Backend == backend.EmbeddedNamedResource {
		return joinPath(p.SubPath, p.FileName)
	}
	return joinPath(p.SubPath, p.FileNameWithExtension())
}

// ReadOnly 报告当前后端是否禁止写入。
func (p PathSpec) ReadOnly() bool {
	return backend.IsReadOnly(p.Backend)
}

// CopyFrom 逐字段复制，常用于把解析后的链条快照成独立的值。
func (p *PathSpec) CopyFrom(other PathSpec) {
	p.Backend = other.Backend
	p.CustomRoot = other.CustomRoot
	p.SubPath = other.SubPath
	p.FileName = other.FileName
	p.Extension = other.Extension
}

// SetFromFullPath 按 backend.InferOrder 依次比较各后端根目录，第一个构成路径前缀的
// 根胜出；剥离根目录后按相对路径拆分。没有任何根匹配时 Backend 置为 None，
// 整个路径按相对路径处理。
func (p *PathSpec) SetFromFullPath(env backend.Environment, fullPath string) {
	for _, kind := range backend.InferOrder {
		root := p.rootFor(env, kind)
		if root == "" {
			continue
		}
		if rest, ok := trimRoot(fullPath, root); ok {
			p.Backend = kind
			p.SetFromPartialPath(rest)
			return
		}
	}
	p.Backend = backend.None
	p.SetFromPartialPath(fullPath)
}

// SetFromPartialPath 拆分出 SubPath / FileName / Extension。FileName 总会被覆盖，
// 而路径不带扩展名时保留原有的 Extension。
func (p *PathSpec) SetFromPartialPath(partialPath string) {
	dir, base := splitLast(partialPath)
	p.SubPath = dir

	// ".json" 这类只有点前缀的名字拆为空文件名与扩展名。
	ext := filepath.Ext(base)
	p.FileName = strings.TrimSuffix(base, ext)
	if ext != "" {
		p.Extension = ext
	}
}

// FileExists 检查完整路径对应的文件是否存在。
func (p PathSpec) FileExists(fs afero.Fs, env backend.Environment) bool {
	ok, err := afero.Exists(fs, p.FullPath(env))
	if err != nil || !ok {
		return false
	}
	isDir, err := afero.IsDir(fs, p.FullPath(env))
	return err == nil && !isDir
}

// DirectoryExists 检查目录是否存在。
func (p PathSpec) DirectoryExists(fs afero.Fs, env backend.Environment) bool {
	ok, err := afero.DirExists(fs, p.DirectoryPath(env))
	return err == nil && ok
}

func (p PathSpec) String() string {
	return fmt.Sprintf("%s:%s", p.Backend, p.PartialPath())
}

func (p PathSpec) rootFor(env backend.Environment, kind backend.Kind) string {
	switch kind {
	case backend.None, backend.EmbeddedNamedResource:
		return ""
	case backend.Custom:
		return strings.TrimSpace(p.CustomRoot)
	}
	if env == nil {
		return ""
	}
	return env.Root(kind)
}
