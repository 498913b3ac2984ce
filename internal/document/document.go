package document

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/any-hub/pathdoc/internal/backend"
	"github.com/any-hub/pathdoc/internal/pathspec"
	"github.com/any-hub/pathdoc/internal/serializer"
	"github.com/any-hub/pathdoc/internal/session"
	"github.com/any-hub/pathdoc/internal/textstore"
)

var (
	// ErrNotFound 表示解析出的路径上没有文件或资源。
	ErrNotFound = textstore.ErrNotFound
	// ErrReadOnly 表示解析出的后端禁止写入。
	ErrReadOnly = textstore.ErrReadOnly
	// ErrIO 表示写入时发生文件系统错误。
	ErrIO = textstore.ErrIO
	// ErrUnresolvedPlatform 表示平台表没有匹配当前平台的条目。
	ErrUnresolvedPlatform = pathspec.ErrUnresolvedPlatform
	// ErrNoPath 表示文档没有配置路径来源。
	ErrNoPath = errors.New("document has no path")
)

// Options 描述文档的依赖与行为。除 Path 外均有默认值。
type Options[T any] struct {
	Name       string
	Path       pathspec.Provider
	Env        backend.Environment
	Store      textstore.Store
	Serializer serializer.Serializer
	// Clone 复制默认值；为 nil 时使用 DeepClone，值类型可传 Identity。
	// DeepClone 基于 copystructure，结构体的未导出字段在拷贝中为零值，
	// 依赖未导出状态的类型应自行提供 Clone。
	Clone    func(T) T
	UseFile  Policy
	Context  RuntimeContext
	NotFound Severity
	Session  session.Source
	Logger   logrus.FieldLogger
	// Fields 生成读写日志的文档字段；为 nil 时只记录 document/backend/path。
	Fields func(name, backend, path string) logrus.Fields
}

// Document 持有默认值与运行时缓存值。
type Document[T any] struct {
	name       string
	path       pathspec.Provider
	env        backend.Environment
	store      textstore.Store
	serializer serializer.Serializer
	clone      func(T) T
	useFile    Policy
	context    RuntimeContext
	notFound   Severity
	logger     logrus.FieldLogger
	fields     func(name, backend, path string) logrus.Fields

	defaultValue T
	cached       T
	materialized bool
	pendingReset bool

	source       session.Source
	subscribed   bool
	subscription int
}

// New 创建文档；若提供了 Session，立即订阅一次。
func New[T any](defaultValue T, opts Options[T]) *Document[T] {
	d := &Document[T]{
		name:         opts.Name,
		path:         opts.Path,
		env:          opts.Env,
		store:        opts.Store,
		serializer:   opts.Serializer,
		clone:        opts.Clone,
		useFile:      opts.UseFile,
		context:      opts.Context,
		notFound:     opts.NotFound,
		logger:       opts.Logger,
		fields:       opts.Fields,
		defaultValue: defaultValue,
		source:       opts.Session,
	}
	if d.logger == nil {
		d.logger = logrus.StandardLogger()
	}
	if d.env == nil {
		d.env = backend.XDGEnvironment{}
	}
	if d.store == nil {
		d.store = textstore.New(textstore.Options{Logger: d.logger})
	}
	if d.serializer == nil {
		d.serializer = serializer.JSON{}
	}
	if d.clone == nil {
		d.clone = DeepClone[T]
	}
	if d.fields == nil {
		d.fields = documentFields
	}
	if d.context == 0 {
		d.context = ContextBuild
	}
	d.Subscribe()
	return d
}

// Name 返回文档名称。
func (d *Document[T]) Name() string {
	return d.name
}

// Path 返回文档的路径来源。
func (d *Document[T]) Path() pathspec.Provider {
	return d.path
}

// Value 返回缓存值：先消费会话重置标记，再在需要时物化。
func (d *Document[T]) Value() T {
	if d.pendingReset {
		d.log("session_reset").Debug("会话结束后恢复默认值")
		d.ResetToDefault()
	}
	if !d.materialized {
		_ = d.Materialize()
	}
	return d.cached
}

// Materialize 用默认值的拷贝覆盖缓存，并在策略允许时读取文件。
// 返回值只反映读取步骤的结果，缓存始终会被初始化。
func (d *Document[T]) Materialize() error {
	d.cached = d.clone(d.defaultValue)
	d.materialized = true
	if !d.useFile.Allows(d.context) {
		return nil
	}
	return d.Load()
}

// Load 把文件内容合并进缓存值（保持实例身份）。缓存尚未物化时先拷贝默认值。
// 文件缺失按 NotFound 级别输出诊断并返回 ErrNotFound，缓存保持原状。
func (d *Document[T]) Load() error {
	if !d.materialized {
		d.cached = d.clone(d.defaultValue)
		d.materialized = true
	}

	spec, err := d.resolve()
	if err != nil {
		d.log("document_load").WithError(err).Error("无法解析文档路径")
		return err
	}
	fullPath := spec.FullPath(d.env)
	entry := d.logAt("document_load", spec.Backend, fullPath)

	text, err := d.store.Load(spec.Backend, fullPath)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			d.report(entry, fmt.Sprintf("File: %s not found at path: %s", spec.FileName, spec.DirectoryPath(d.env)))
			return err
		}
		entry.WithError(err).Error("读取文档失败")
		return fmt.Errorf("load %s: %w", d.name, err)
	}

	if err := d.serializer.Overwrite(text, &d.cached); err != nil {
		entry.WithError(err).Error("解析文档失败")
		return fmt.Errorf("decode %s: %w", d.name, err)
	}
	entry.Debug("文档已加载")
	return nil
}

// Save 序列化缓存值并写回。只读后端直接报错返回，不做任何 I/O。
func (d *Document[T]) Save(pretty bool) error {
	spec, err := d.resolve()
	if err != nil {
		d.log("document_save").WithError(err).Error("无法解析文档路径")
		return err
	}
	fullPath := spec.FullPath(d.env)
	entry := d.logAt("document_save", spec.Backend, fullPath)

	if spec.ReadOnly() {
		entry.Error("只读后端不允许保存")
		return fmt.Errorf("%w: %s", ErrReadOnly, spec.Backend)
	}

	text, err := d.serializer.ToText(d.Value(), pretty)
	if err != nil {
		entry.WithError(err).Error("序列化文档失败")
		return fmt.Errorf("encode %s: %w", d.name, err)
	}
	if err := d.store.Save(spec.Backend, fullPath, text); err != nil {
		return err
	}
	entry.Info("文档已保存")
	return nil
}

// ResetToDefault 无条件地把缓存恢复为默认值的拷贝，并清除会话重置标记。
func (d *Document[T]) ResetToDefault() {
	d.cached = d.clone(d.defaultValue)
	d.materialized = true
	d.pendingReset = false
}

// SetValue 直接替换缓存值，并清除会话重置标记。
func (d *Document[T]) SetValue(v T) {
	d.cached = v
	d.materialized = true
	d.pendingReset = false
}

// Default 返回默认值的拷贝，调用方修改它不会影响文档。
func (d *Document[T]) Default() T {
	return d.clone(d.defaultValue)
}

// Materialized 报告缓存是否已经初始化。
func (d *Document[T]) Materialized() bool {
	return d.materialized
}

// PendingReset 报告下一次取值前是否会恢复默认值。
func (d *Document[T]) PendingReset() bool {
	return d.pendingReset
}

// Resolve 返回当前路径解析结果。
func (d *Document[T]) Resolve() (pathspec.Resolved, error) {
	if d.path == nil {
		return pathspec.Resolved{}, ErrNoPath
	}
	return pathspec.Describe(d.path, d.env)
}

// OnEnteringLiveSession 在进入会话时提前消费重置标记。
func (d *Document[T]) OnEnteringLiveSession() {
	if d.pendingReset {
		d.log("session_enter").Debug("进入会话前恢复默认值")
		d.ResetToDefault()
	}
}

// OnExitingLiveSession 标记下一次取值前需要恢复默认值。
func (d *Document[T]) OnExitingLiveSession() {
	d.pendingReset = true
}

// Subscribe 订阅会话事件源，重复调用无效。
func (d *Document[T]) Subscribe() {
	if d.subscribed || d.source == nil {
		return
	}
	d.subscription = d.source.Subscribe(d)
	d.subscribed = true
}

// Unsubscribe 退订会话事件源，重复调用无效。
func (d *Document[T]) Unsubscribe() {
	if !d.subscribed {
		return
	}
	d.source.Unsubscribe(d.subscription)
	d.subscribed = false
}

// Close 释放会话订阅。
func (d *Document[T]) Close() error {
	d.Unsubscribe()
	return nil
}

func (d *Document[T]) resolve() (pathspec.PathSpec, error) {
	if d.path == nil {
		return pathspec.PathSpec{}, ErrNoPath
	}
	return d.path.Spec()
}

func (d *Document[T]) log(action string) *logrus.Entry {
	return d.logger.WithFields(logrus.Fields{
		"action":   action,
		"document": d.name,
	})
}

func (d *Document[T]) logAt(action string, kind backend.Kind, fullPath string) *logrus.Entry {
	return d.logger.WithFields(d.fields(d.name, kind.String(), fullPath)).WithField("action", action)
}

func documentFields(name, backend, path string) logrus.Fields {
	return logrus.Fields{
		"document": name,
		"backend":  backend,
		"path":     path,
	}
}

func (d *Document[T]) report(entry *logrus.Entry, msg string) {
	switch d.notFound {
	case SeverityInfo:
		entry.Info(msg)
	case SeverityWarning:
		entry.Warn(msg)
	case SeverityError:
		entry.Error(msg)
	}
}
