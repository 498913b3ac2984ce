package textstore

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/any-hub/pathdoc/internal/resource"
)

// noneHandler 对应没有存储介质的后端。
type noneHandler struct{}

func (noneHandler) load(string) (string, error) { return "", ErrNotFound }
func (noneHandler) save(string, string) error   { return ErrReadOnly }

// resourceHandler 通过命名资源注册表读取，读取后立即释放句柄。
type resourceHandler struct {
	registry resource.Registry
	logger   logrus.FieldLogger
}

func (h *resourceHandler) load(path string) (string, error) {
	if h.registry == nil {
		h.logger.WithFields(logrus.Fields{"action": "resource_lookup", "path": path}).Warn("resource registry unavailable")
		return "", ErrNotFound
	}
	handle, ok := h.registry.Lookup(path)
	if !ok || handle == nil {
		h.logger.WithFields(logrus.Fields{"action": "resource_lookup", "path": path}).Warn("resource not found")
		return "", ErrNotFound
	}
	defer h.registry.Release(handle)
	return handle.Text(), nil
}

func (h *resourceHandler) save(string, string) error { return ErrReadOnly }

// fileHandler 读写 afero 文件系统。
type fileHandler struct {
	fs afero.Fs
}

func (h *fileHandler) load(path string) (string, error) {
	if path == "" {
		return "", ErrNotFound
	}
	info, err := h.fs.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", err
	}
	if info.IsDir() {
		return "", ErrNotFound
	}

	f, err := h.fs.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func (h *fileHandler) save(path, text string) error {
	if path == "" {
		return errors.New("empty path")
	}
	dir := filepath.Dir(path)
	if err := h.fs.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tempFile, err := afero.TempFile(h.fs, dir, ".text-*")
	if err != nil {
		return err
	}
	tempName := tempFile.Name()

	_, err = io.WriteString(tempFile, text)
	closeErr := tempFile.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = h.fs.Remove(tempName)
		return err
	}

	if err := h.fs.Rename(tempName, path); err != nil {
		_ = h.fs.Remove(tempName)
		return err
	}
	return h.fs.Chmod(path, os.FileMode(0o644))
}
