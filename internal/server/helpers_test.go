package server

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/afero"

	"github.com/any-hub/pathdoc/internal/backend"
	"github.com/any-hub/pathdoc/internal/config"
	"github.com/any-hub/pathdoc/internal/resource"
)

type registryFixture struct {
	registry  *DocumentRegistry
	fs        afero.Fs
	env       backend.StaticEnvironment
	resources *resource.MemoryRegistry
}

func testConfig() *config.Config {
	return &config.Config{
		Global: config.GlobalConfig{
			ListenPort:     5000,
			LogLevel:       "info",
			RuntimeContext: "editor",
		},
		Paths: []config.PathConfig{
			{Name: "base", Backend: "persistent", SubPath: "assets/data", Extension: "json"},
			{Name: "settings-linux", Parent: "base", FileName: "settings"},
			{Name: "settings-windows", Parent: "base", FileName: "settings-win"},
			{Name: "bundled", Backend: "resource", SubPath: "defaults", FileName: "levels"},
		},
		Tables: []config.TableConfig{
			{Name: "per-os", Entries: []config.TableEntryConfig{
				{Path: "settings-linux", Platforms: []string{"linux"}},
				{Path: "settings-windows", Platforms: []string{"windows"}},
			}},
			{Name: "console-only", Entries: []config.TableEntryConfig{
				{Path: "settings-linux", Platforms: []string{"switch"}},
			}},
		},
		Documents: []config.DocumentConfig{
			{
				Name:        "settings",
				Path:        "per-os",
				NotFound:    "info",
				DefaultFile: "defaults/settings.json",
				Default:     map[string]interface{}{"volume": 0.8},
			},
			{Name: "levels", Path: "bundled", NotFound: "warning"},
			{Name: "console", Path: "console-only", NotFound: "silent"},
		},
	}
}

func newRegistryFixture(t *testing.T, cfg *config.Config) *registryFixture {
	t.Helper()
	fs := afero.NewMemMapFs()
	env := backend.StaticEnvironment{
		Roots: map[backend.Kind]string{
			backend.PersistentWritable: filepath.FromSlash("/data"),
			backend.GameRoot:           filepath.FromSlash("/game"),
		},
		Current: "linux",
	}
	resources := resource.NewMemoryRegistry()
	resources.MustRegister("defaults/settings.json", `{
		// shipped defaults
		"volume": 0.5,
		"name": "player",
	}`)
	resources.MustRegister("defaults/levels", `{"count": 3}`)

	logger, _ := logtest.NewNullLogger()
	registry, err := NewDocumentRegistry(cfg, RegistryOptions{
		Logger:    logger,
		Env:       env,
		Fs:        fs,
		Resources: resources,
	})
	if err != nil {
		t.Fatalf("failed to create registry: %v", err)
	}
	t.Cleanup(func() { _ = registry.Close() })
	return &registryFixture{registry: registry, fs: fs, env: env, resources: resources}
}

func discardLogger() *logrus.Logger {
	logger, _ := logtest.NewNullLogger()
	return logger
}
