package textstore

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/any-hub/pathdoc/internal/backend"
	"github.com/any-hub/pathdoc/internal/resource"
)

// Store 负责按后端分派文本读写。
type Store interface {
	// Load 读取 path 处的文本；不存在时返回 ErrNotFound。
	Load(kind backend.Kind, path string) (string, error)

	// Save 覆盖写入 path；只读后端返回 ErrReadOnly，I/O 失败返回包装了 ErrIO 的错误。
	Save(kind backend.Kind, path string, text string) error
}

var (
	// ErrNotFound 表示文件或资源不存在。
	ErrNotFound = errors.New("text not found")
	// ErrReadOnly 表示目标后端禁止写入。
	ErrReadOnly = errors.New("backend is read-only")
	// ErrIO 包装写入过程中的文件系统错误。
	ErrIO = errors.New("text store i/o failure")
)

// handler 是单一存储类别的读写实现。
type handler interface {
	load(path string) (string, error)
	save(path, text string) error
}

// Options 控制 Store 的依赖注入。
type Options struct {
	// Fs 为空时使用真实文件系统。
	Fs afero.Fs
	// Resources 为空时内嵌资源后端总是返回 ErrNotFound。
	Resources resource.Registry
	Logger    logrus.FieldLogger
}

// New 构建按存储类别分派的 Store。
func New(opts Options) Store {
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &dispatchStore{
		logger: logger,
		handlers: map[backend.StorageClass]handler{
			backend.StorageNone:       noneHandler{},
			backend.StorageResource:   &resourceHandler{registry: opts.Resources, logger: logger},
			backend.StorageFilesystem: &fileHandler{fs: fs},
		},
	}
}

type dispatchStore struct {
	logger   logrus.FieldLogger
	handlers map[backend.StorageClass]handler
}

func (s *dispatchStore) Load(kind backend.Kind, path string) (string, error) {
	h, err := s.handlerFor(kind)
	if err != nil {
		return "", err
	}
	return h.load(path)
}

func (s *dispatchStore) Save(kind backend.Kind, path string, text string) error {
	if backend.IsReadOnly(kind) {
		return fmt.Errorf("%w: %s", ErrReadOnly, kind)
	}
	h, err := s.handlerFor(kind)
	if err != nil {
		return err
	}
	if err := h.save(path, text); err != nil {
		s.logger.WithFields(logrus.Fields{
			"action":  "text_save",
			"backend": kind.String(),
			"path":    path,
		}).WithError(err).Error("写入文本失败")
		if errors.Is(err, ErrReadOnly) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

func (s *dispatchStore) handlerFor(kind backend.Kind) (handler, error) {
	h, ok := s.handlers[backend.StorageOf(kind)]
	if !ok {
		return nil, fmt.Errorf("no storage handler for backend %s", kind)
	}
	return h, nil
}
