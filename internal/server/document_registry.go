package server

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"dario.cat/mergo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/any-hub/pathdoc/internal/backend"
	"github.com/any-hub/pathdoc/internal/config"
	"github.com/any-hub/pathdoc/internal/document"
	"github.com/any-hub/pathdoc/internal/logging"
	"github.com/any-hub/pathdoc/internal/pathspec"
	"github.com/any-hub/pathdoc/internal/resource"
	"github.com/any-hub/pathdoc/internal/serializer"
	"github.com/any-hub/pathdoc/internal/session"
	"github.com/any-hub/pathdoc/internal/textstore"
)

var (
	// ErrDocumentNotFound 表示注册表中没有该名称的文档。
	ErrDocumentNotFound = errors.New("document not found")
	// ErrPathNotFound 表示注册表中没有该名称的路径或平台表。
	ErrPathNotFound = errors.New("path not found")
)

// MapDocument 是配置驱动的文档类型，值为任意 JSON 对象。
type MapDocument = document.Document[map[string]any]

// RegistryOptions 允许在测试中替换宿主依赖；零值表示使用真实环境。
type RegistryOptions struct {
	Logger    logrus.FieldLogger
	Env       backend.Environment
	Fs        afero.Fs
	Resources resource.Registry
	Hub       *session.Hub
}

// DocumentEntry 持有单个文档及其互斥锁；所有访问都经由 DocumentRegistry.Do 串行化。
type DocumentEntry struct {
	mu       sync.Mutex
	config   config.DocumentConfig
	document *MapDocument
}

// Name 返回文档名称。
func (e *DocumentEntry) Name() string {
	return e.config.Name
}

// Config 返回文档声明的副本。
func (e *DocumentEntry) Config() config.DocumentConfig {
	return e.config
}

// DocumentStatus 是文档状态快照，供列表接口输出。
type DocumentStatus struct {
	Name         string `json:"name"`
	Path         string `json:"path"`
	Backend      string `json:"backend,omitempty"`
	FullPath     string `json:"full_path,omitempty"`
	ReadOnly     bool   `json:"read_only"`
	Materialized bool   `json:"materialized"`
	PendingReset bool   `json:"pending_reset"`
	Error        string `json:"error,omitempty"`
}

// DocumentRegistry 根据配置构建路径链、平台表与文档，并提供串行化访问。
type DocumentRegistry struct {
	logger    logrus.FieldLogger
	env       backend.Environment
	fs        afero.Fs
	hub       *session.Hub
	providers map[string]pathspec.Provider
	pathNames []string
	entries   map[string]*DocumentEntry
	ordered   []*DocumentEntry
}

// NewDocumentRegistry 构建注册表。调用方应在启动阶段创建一次并复用。
func NewDocumentRegistry(cfg *config.Config, opts RegistryOptions) (*DocumentRegistry, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	r := &DocumentRegistry{
		logger:    opts.Logger,
		env:       opts.Env,
		fs:        opts.Fs,
		hub:       opts.Hub,
		providers: make(map[string]pathspec.Provider, len(cfg.Paths)+len(cfg.Tables)),
		entries:   make(map[string]*DocumentEntry, len(cfg.Documents)),
	}
	if r.logger == nil {
		r.logger = logrus.StandardLogger()
	}
	if r.env == nil {
		r.env = cfg.Environment()
	}
	if r.fs == nil {
		r.fs = afero.NewOsFs()
	}
	if r.hub == nil {
		r.hub = session.NewHub()
	}
	resources := opts.Resources
	if resources == nil {
		if cfg.Global.ResourceDir != "" {
			resources = resource.NewDirRegistry(cfg.Global.ResourceDir)
		} else {
			resources = resource.NewMemoryRegistry()
		}
	}
	store := textstore.New(textstore.Options{
		Fs:        r.fs,
		Resources: resources,
		Logger:    r.logger,
	})

	if err := r.buildProviders(cfg); err != nil {
		return nil, err
	}

	for _, docCfg := range cfg.Documents {
		doc, err := r.buildDocument(cfg, docCfg, store)
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", docCfg.Name, err)
		}
		entry := &DocumentEntry{config: docCfg, document: doc}
		r.entries[docCfg.Name] = entry
		r.ordered = append(r.ordered, entry)
	}

	return r, nil
}

func (r *DocumentRegistry) buildProviders(cfg *config.Config) error {
	chains := make(map[string]*pathspec.Chain, len(cfg.Paths))
	tables := make(map[string]*pathspec.PlatformTable, len(cfg.Tables))

	// 先创建所有节点，再连接父级，使声明顺序不影响引用。
	for _, p := range cfg.Paths {
		local, err := p.Spec()
		if err != nil {
			return err
		}
		chains[p.Name] = pathspec.NewChain(local, nil)
		r.providers[p.Name] = chains[p.Name]
		r.pathNames = append(r.pathNames, p.Name)
	}
	for _, t := range cfg.Tables {
		tables[t.Name] = &pathspec.PlatformTable{Platform: r.env.Platform}
		r.providers[t.Name] = tables[t.Name]
		r.pathNames = append(r.pathNames, t.Name)
	}

	for _, p := range cfg.Paths {
		if p.Parent == "" {
			continue
		}
		parent, ok := r.providers[p.Parent]
		if !ok {
			return fmt.Errorf("path %s: parent %s: %w", p.Name, p.Parent, ErrPathNotFound)
		}
		chains[p.Name].Parent = parent
	}
	for _, t := range cfg.Tables {
		for _, entry := range t.Entries {
			chain, ok := chains[entry.Path]
			if !ok {
				return fmt.Errorf("table %s: entry %s: %w", t.Name, entry.Path, ErrPathNotFound)
			}
			tables[t.Name].Add(chain, entry.PlatformList()...)
		}
	}

	sort.Strings(r.pathNames)
	return nil
}

func (r *DocumentRegistry) buildDocument(cfg *config.Config, docCfg config.DocumentConfig, store textstore.Store) (*MapDocument, error) {
	provider, ok := r.providers[docCfg.Path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", docCfg.Path, ErrPathNotFound)
	}
	policy, err := docCfg.Policy()
	if err != nil {
		return nil, err
	}
	severity, err := docCfg.Severity()
	if err != nil {
		return nil, err
	}
	def, err := r.loadDefault(docCfg, store)
	if err != nil {
		return nil, err
	}

	return document.New(def, document.Options[map[string]any]{
		Name:     docCfg.Name,
		Path:     provider,
		Env:      r.env,
		Store:    store,
		UseFile:  policy,
		Context:  cfg.Global.Context(),
		NotFound: severity,
		Session:  r.hub,
		Logger:   r.logger,
		Fields:   logging.DocumentFields,
	}), nil
}

// loadDefault 读取 DefaultFile（按命名资源查找），再以内联 Default 覆盖。
func (r *DocumentRegistry) loadDefault(docCfg config.DocumentConfig, store textstore.Store) (map[string]any, error) {
	def := map[string]any{}
	if docCfg.DefaultFile != "" {
		text, err := store.Load(backend.EmbeddedNamedResource, docCfg.DefaultFile)
		if err != nil {
			return nil, fmt.Errorf("default file %s: %w", docCfg.DefaultFile, err)
		}
		if err := (serializer.JSON{}).Overwrite(text, &def); err != nil {
			return nil, fmt.Errorf("default file %s: %w", docCfg.DefaultFile, err)
		}
		if def == nil {
			def = map[string]any{}
		}
	}
	if len(docCfg.Default) > 0 {
		if err := mergo.Merge(&def, docCfg.Default, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("merge inline default: %w", err)
		}
	}
	return def, nil
}

// Env 返回注册表使用的宿主环境。
func (r *DocumentRegistry) Env() backend.Environment {
	return r.env
}

// Fs 返回文档读写使用的文件系统。
func (r *DocumentRegistry) Fs() afero.Fs {
	return r.fs
}

// Lookup 根据名称查找文档条目。
func (r *DocumentRegistry) Lookup(name string) (*DocumentEntry, bool) {
	if r == nil {
		return nil, false
	}
	entry, ok := r.entries[name]
	return entry, ok
}

// Do 在文档锁内执行 fn。
func (r *DocumentRegistry) Do(name string, fn func(*MapDocument) error) error {
	entry, ok := r.Lookup(name)
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrDocumentNotFound)
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return fn(entry.document)
}

// List 返回所有文档的状态快照。无法解析路径的文档在 Error 中给出原因。
func (r *DocumentRegistry) List() []DocumentStatus {
	result := make([]DocumentStatus, 0, len(r.ordered))
	for _, entry := range r.ordered {
		status := DocumentStatus{Name: entry.Name(), Path: entry.config.Path}
		_ = r.Do(entry.Name(), func(doc *MapDocument) error {
			status.Materialized = doc.Materialized()
			status.PendingReset = doc.PendingReset()
			resolved, err := doc.Resolve()
			if err != nil {
				status.Error = err.Error()
				return nil
			}
			status.Backend = resolved.Spec.Backend.String()
			status.FullPath = resolved.FullPath
			status.ReadOnly = resolved.ReadOnly
			return nil
		})
		result = append(result, status)
	}
	return result
}

// PathNames 返回所有路径与平台表名称。
func (r *DocumentRegistry) PathNames() []string {
	return append([]string(nil), r.pathNames...)
}

// Resolve 解析路径、平台表或文档名称对应的物理路径。
func (r *DocumentRegistry) Resolve(name string) (pathspec.Resolved, error) {
	if p, ok := r.providers[name]; ok {
		return pathspec.Describe(p, r.env)
	}
	var resolved pathspec.Resolved
	err := r.Do(name, func(doc *MapDocument) error {
		var err error
		resolved, err = doc.Resolve()
		return err
	})
	if errors.Is(err, ErrDocumentNotFound) {
		return pathspec.Resolved{}, fmt.Errorf("%s: %w", name, ErrPathNotFound)
	}
	return resolved, err
}

// EnterSession 锁定全部文档后进入会话。
func (r *DocumentRegistry) EnterSession() bool {
	return r.transition("session_enter", r.hub.Enter)
}

// ExitSession 锁定全部文档后退出会话，文档会在下一次访问前恢复默认值。
func (r *DocumentRegistry) ExitSession() bool {
	return r.transition("session_exit", r.hub.Exit)
}

func (r *DocumentRegistry) transition(action string, fire func()) bool {
	for _, entry := range r.ordered {
		entry.mu.Lock()
	}
	fire()
	for i := len(r.ordered) - 1; i >= 0; i-- {
		r.ordered[i].mu.Unlock()
	}
	active := r.hub.Active()
	r.logger.WithFields(logrus.Fields{"action": action, "active": active}).Info("session state changed")
	return active
}

// Close 释放所有文档的会话订阅。
func (r *DocumentRegistry) Close() error {
	for _, entry := range r.ordered {
		_ = r.Do(entry.Name(), func(doc *MapDocument) error {
			return doc.Close()
		})
	}
	return nil
}
