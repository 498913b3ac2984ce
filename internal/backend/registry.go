package backend

import (
	"fmt"
	"sort"
	"sync"
)

// StorageClass 决定由哪一类处理器负责某个后端的读写。
type StorageClass string

const (
	StorageNone       StorageClass = "none"
	StorageFilesystem StorageClass = "filesystem"
	StorageResource   StorageClass = "resource"
)

// Descriptor 记录一个后端的静态信息，供路径解析、文本存储与诊断端使用。
type Descriptor struct {
	Kind        Kind
	Name        string
	Aliases     []string
	Description string
	ReadOnly    bool
	Storage     StorageClass
	// Rooted 表示完整路径需要拼接宿主环境提供的根目录。
	Rooted bool
}

var globalRegistry = newRegistry()

type registry struct {
	mu    sync.RWMutex
	kinds map[Kind]Descriptor
	names map[string]Kind
}

func newRegistry() *registry {
	return &registry{
		kinds: make(map[Kind]Descriptor),
		names: make(map[string]Kind),
	}
}

// Register 将后端描述加入全局注册表，重复的 Kind 或名称会返回错误。
func Register(desc Descriptor) error {
	return globalRegistry.register(desc)
}

// MustRegister 在注册失败时 panic，适合 init() 中调用。
func MustRegister(desc Descriptor) {
	if err := Register(desc); err != nil {
		panic(err)
	}
}

// Resolve 返回指定后端的描述。
func Resolve(kind Kind) (Descriptor, bool) {
	return globalRegistry.resolve(kind)
}

// List 返回按 Kind 排序的描述列表。
func List() []Descriptor {
	return globalRegistry.list()
}

// IsReadOnly 报告后端是否禁止写入；未注册的后端按只读处理。
func IsReadOnly(kind Kind) bool {
	desc, ok := Resolve(kind)
	if !ok {
		return true
	}
	return desc.ReadOnly
}

// StorageOf 返回后端的存储类别；未注册的后端视为 StorageNone。
func StorageOf(kind Kind) StorageClass {
	desc, ok := Resolve(kind)
	if !ok {
		return StorageNone
	}
	return desc.Storage
}

func lookupName(name string) (Descriptor, bool) {
	return globalRegistry.lookupName(name)
}

func (r *registry) register(desc Descriptor) error {
	name := normalizeName(desc.Name)
	if name == "" {
		return fmt.Errorf("backend name is required")
	}
	desc.Name = name
	if desc.Storage == "" {
		desc.Storage = StorageNone
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.kinds[desc.Kind]; exists {
		return fmt.Errorf("backend %s already registered", desc.Kind)
	}
	keys := append([]string{name}, desc.Aliases...)
	for _, key := range keys {
		key = normalizeName(key)
		if _, exists := r.names[key]; exists {
			return fmt.Errorf("backend name %s already registered", key)
		}
	}
	for _, key := range keys {
		r.names[normalizeName(key)] = desc.Kind
	}
	r.kinds[desc.Kind] = desc
	return nil
}

func (r *registry) resolve(kind Kind) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	desc, ok := r.kinds[kind]
	return desc, ok
}

func (r *registry) lookupName(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kind, ok := r.names[normalizeName(name)]
	if !ok {
		return Descriptor{}, false
	}
	desc, ok := r.kinds[kind]
	return desc, ok
}

func (r *registry) list() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.kinds) == 0 {
		return nil
	}

	kinds := make([]Kind, 0, len(r.kinds))
	for kind := range r.kinds {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	result := make([]Descriptor, 0, len(kinds))
	for _, kind := range kinds {
		result = append(result, r.kinds[kind])
	}
	return result
}
