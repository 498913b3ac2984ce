package backend

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/adrg/xdg"
)

// xdgMu 保护 xdg 包级变量：Reload 会整体改写它们。
var xdgMu sync.Mutex

// Platform 是运行平台的不透明标识，仅用于集合成员判断。
type Platform string

// CurrentPlatform 返回当前进程所在的平台标识（runtime.GOOS）。
func CurrentPlatform() Platform {
	return Platform(runtime.GOOS)
}

// Environment 描述宿主环境：各后端的根目录与当前平台。
// 实现必须在每次调用时给出最新值，调用方不会缓存结果。
type Environment interface {
	Root(kind Kind) string
	Platform() Platform
}

// StaticEnvironment 使用固定映射提供根目录，适合测试与离线校验。
type StaticEnvironment struct {
	Roots   map[Kind]string
	Current Platform
}

// Root 返回映射中的根目录，未配置时为空字符串。
func (e StaticEnvironment) Root(kind Kind) string {
	if !rootedKind(kind) {
		return ""
	}
	return e.Roots[kind]
}

// Platform 返回配置的平台，未配置时回退 CurrentPlatform。
func (e StaticEnvironment) Platform() Platform {
	if e.Current != "" {
		return e.Current
	}
	return CurrentPlatform()
}

// XDGEnvironment 以 XDG 目录规范推导默认根目录，Overrides 中的非空值优先。
//
//	GameRoot           → 可执行文件所在目录
//	BundledReadOnly    → <GameRoot>/bundled
//	PersistentWritable → $XDG_DATA_HOME/<AppName>
//	TemporaryCache     → $XDG_CACHE_HOME/<AppName>
//	ConsoleLog         → $XDG_STATE_HOME/<AppName>/logs
//	AbsoluteURL        → 仅来自 Overrides
type XDGEnvironment struct {
	AppName   string
	Overrides map[Kind]string
	Current   Platform
}

// Root 每次调用都会重新读取 XDG 环境变量。
func (e XDGEnvironment) Root(kind Kind) string {
	if !rootedKind(kind) {
		return ""
	}
	if override := strings.TrimSpace(e.Overrides[kind]); override != "" {
		return override
	}

	app := e.appName()
	switch kind {
	case GameRoot:
		return executableDir()
	case BundledReadOnly:
		base := e.Root(GameRoot)
		if base == "" {
			return ""
		}
		return filepath.Join(base, "bundled")
	case PersistentWritable:
		return filepath.Join(xdgHome(kind), app)
	case TemporaryCache:
		return filepath.Join(xdgHome(kind), app)
	case ConsoleLog:
		return filepath.Join(xdgHome(kind), app, "logs")
	default:
		return ""
	}
}

// xdgHome 重新读取 XDG 环境变量并返回对应的基础目录。
func xdgHome(kind Kind) string {
	xdgMu.Lock()
	defer xdgMu.Unlock()

	xdg.Reload()
	switch kind {
	case PersistentWritable:
		return xdg.DataHome
	case TemporaryCache:
		return xdg.CacheHome
	case ConsoleLog:
		return xdg.StateHome
	default:
		return ""
	}
}

// Platform 返回配置的平台，未配置时回退 CurrentPlatform。
func (e XDGEnvironment) Platform() Platform {
	if e.Current != "" {
		return e.Current
	}
	return CurrentPlatform()
}

func (e XDGEnvironment) appName() string {
	if name := strings.TrimSpace(e.AppName); name != "" {
		return name
	}
	return "pathdoc"
}

func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Dir(exe)
}

// rootedKind 判断该后端是否由宿主环境提供根目录（Custom 的根来自 PathSpec 自身）。
func rootedKind(kind Kind) bool {
	switch kind {
	case None, EmbeddedNamedResource, Custom:
		return false
	}
	desc, ok := Resolve(kind)
	return ok && desc.Rooted
}
