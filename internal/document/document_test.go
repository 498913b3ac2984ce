package document

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/afero"

	"github.com/any-hub/pathdoc/internal/backend"
	"github.com/any-hub/pathdoc/internal/pathspec"
	"github.com/any-hub/pathdoc/internal/resource"
	"github.com/any-hub/pathdoc/internal/session"
	"github.com/any-hub/pathdoc/internal/textstore"
)

type settings struct {
	Volume float64  `json:"volume"`
	Name   string   `json:"name"`
	Tags   []string `json:"tags"`
}

func defaultSettings() *settings {
	return &settings{Volume: 0.5, Name: "default", Tags: []string{"a"}}
}

type countingStore struct {
	inner textstore.Store
	loads int
	saves int
}

func (s *countingStore) Load(kind backend.Kind, path string) (string, error) {
	s.loads++
	return s.inner.Load(kind, path)
}

func (s *countingStore) Save(kind backend.Kind, path, text string) error {
	s.saves++
	return s.inner.Save(kind, path, text)
}

type fixture struct {
	fs    afero.Fs
	env   backend.StaticEnvironment
	store *countingStore
	hook  *logtest.Hook
	log   *logrus.Logger
	res   *resource.MemoryRegistry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fs := afero.NewMemMapFs()
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	res := resource.NewMemoryRegistry()
	return &fixture{
		fs: fs,
		env: backend.StaticEnvironment{Roots: map[backend.Kind]string{
			backend.PersistentWritable: filepath.FromSlash("/data"),
			backend.GameRoot:           filepath.FromSlash("/game"),
		}},
		store: &countingStore{inner: textstore.New(textstore.Options{Fs: fs, Resources: res, Logger: logger})},
		hook:  hook,
		log:   logger,
		res:   res,
	}
}

func (f *fixture) options(path pathspec.Provider) Options[*settings] {
	return Options[*settings]{
		Name:     "settings",
		Path:     path,
		Env:      f.env,
		Store:    f.store,
		UseFile:  PolicyAlways,
		Context:  ContextEditor,
		NotFound: SeverityWarning,
		Logger:   f.log,
	}
}

func (f *fixture) write(t *testing.T, spec pathspec.PathSpec, text string) {
	t.Helper()
	if err := f.fs.MkdirAll(spec.DirectoryPath(f.env), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := afero.WriteFile(f.fs, spec.FullPath(f.env), []byte(text), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}
}

var savePath = pathspec.PathSpec{Backend: backend.PersistentWritable, SubPath: "cfg", FileName: "settings", Extension: "json"}

func TestValueMaterializesOnce(t *testing.T) {
	f := newFixture(t)
	f.write(t, savePath, `{"volume": 0.9}`)
	doc := New(defaultSettings(), f.options(savePath))

	if doc.Materialized() {
		t.Fatalf("document must start empty")
	}
	first := doc.Value()
	second := doc.Value()
	if first != second {
		t.Fatalf("repeated Value calls must return the same instance")
	}
	if f.store.loads != 1 {
		t.Fatalf("expected exactly one load, got %d", f.store.loads)
	}
	if first.Volume != 0.9 || first.Name != "default" {
		t.Fatalf("file should overlay the default copy: %+v", first)
	}
}

func TestDefaultIsolation(t *testing.T) {
	f := newFixture(t)
	def := defaultSettings()
	doc := New(def, f.options(savePath))

	v := doc.Value()
	v.Volume = 42
	v.Tags[0] = "mutated"
	v.Tags = append(v.Tags, "extra")

	if diff := cmp.Diff(defaultSettings(), def); diff != "" {
		t.Fatalf("default value must never be mutated (-want +got):\n%s", diff)
	}

	doc.ResetToDefault()
	if diff := cmp.Diff(defaultSettings(), doc.Value()); diff != "" {
		t.Fatalf("reset should restore the default (-want +got):\n%s", diff)
	}
	if doc.Value() == def {
		t.Fatalf("cached value must not alias the default")
	}

	copyOfDefault := doc.Default()
	copyOfDefault.Name = "changed"
	if def.Name != "default" {
		t.Fatalf("Default must hand out a copy")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	f := newFixture(t)
	parent := pathspec.NewChain(pathspec.PathSpec{Backend: backend.PersistentWritable, SubPath: "assets/data", Extension: "json"}, nil)
	leaf := pathspec.NewChain(pathspec.PathSpec{FileName: "save"}, parent)

	doc := New(defaultSettings(), f.options(leaf))
	want := &settings{Volume: 0.1, Name: "saved", Tags: []string{"x", "y"}}
	doc.SetValue(want)
	if err := doc.Save(true); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	exists, _ := afero.Exists(f.fs, filepath.Join("/data", "assets", "data", "save.json"))
	if !exists {
		t.Fatalf("file should be written under the inherited sub path")
	}

	fresh := New(defaultSettings(), f.options(leaf))
	if diff := cmp.Diff(want, fresh.Value()); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveRejectsReadOnlyBackends(t *testing.T) {
	for _, kind := range []backend.Kind{backend.None, backend.EmbeddedNamedResource} {
		t.Run(kind.String(), func(t *testing.T) {
			f := newFixture(t)
			spec := pathspec.PathSpec{Backend: kind, SubPath: "cfg", FileName: "settings", Extension: "json"}
			doc := New(defaultSettings(), f.options(spec))
			doc.SetValue(&settings{Name: "anything"})

			err := doc.Save(false)
			if !errors.Is(err, ErrReadOnly) {
				t.Fatalf("expected ErrReadOnly, got %v", err)
			}
			if f.store.saves != 0 {
				t.Fatalf("read-only save must not reach the store")
			}
			if entry := f.hook.LastEntry(); entry == nil || entry.Level != logrus.ErrorLevel {
				t.Fatalf("read-only save should be reported as an error")
			}
			entries, _ := afero.ReadDir(f.fs, "/")
			if len(entries) != 0 {
				t.Fatalf("filesystem must stay untouched, found %d entries", len(entries))
			}
		})
	}
}

func TestLoadNotFoundKeepsDefault(t *testing.T) {
	f := newFixture(t)
	doc := New(defaultSettings(), f.options(savePath))

	if err := doc.Load(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	v := doc.Value()
	if v == nil {
		t.Fatalf("value must never be nil after a missing file")
	}
	if diff := cmp.Diff(defaultSettings(), v); diff != "" {
		t.Fatalf("value should equal the default (-want +got):\n%s", diff)
	}
	if entry := f.hook.LastEntry(); entry == nil || entry.Level != logrus.WarnLevel {
		t.Fatalf("missing file should be reported at warning level")
	}
}

func TestNotFoundSeverity(t *testing.T) {
	cases := map[Severity]logrus.Level{
		SeverityInfo:    logrus.InfoLevel,
		SeverityWarning: logrus.WarnLevel,
		SeverityError:   logrus.ErrorLevel,
	}
	for severity, level := range cases {
		f := newFixture(t)
		opts := f.options(savePath)
		opts.NotFound = severity
		_ = New(defaultSettings(), opts).Load()
		entry := f.hook.LastEntry()
		if entry == nil || entry.Level != level {
			t.Fatalf("%s: expected level %s", severity, level)
		}
	}

	f := newFixture(t)
	opts := f.options(savePath)
	opts.NotFound = SeveritySilent
	f.log.SetLevel(logrus.InfoLevel)
	_ = New(defaultSettings(), opts).Load()
	if len(f.hook.AllEntries()) != 0 {
		t.Fatalf("silent severity should not log, got %d entries", len(f.hook.AllEntries()))
	}
}

func TestLoadPreservesIdentity(t *testing.T) {
	f := newFixture(t)
	doc := New(defaultSettings(), f.options(savePath))
	held := doc.Value()

	f.write(t, savePath, `{"name": "from-disk"}`)
	if err := doc.Load(); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if doc.Value() != held {
		t.Fatalf("load must merge into the existing instance")
	}
	if held.Name != "from-disk" || held.Volume != 0.5 {
		t.Fatalf("unexpected merged value: %+v", held)
	}
}

func TestUseFilePolicy(t *testing.T) {
	f := newFixture(t)
	f.write(t, savePath, `{"volume": 1}`)
	opts := f.options(savePath)
	opts.UseFile = PolicyOf(ContextBuild)
	opts.Context = ContextEditor
	doc := New(defaultSettings(), opts)

	if doc.Value().Volume != 0.5 {
		t.Fatalf("editor context should skip the file")
	}
	if f.store.loads != 0 {
		t.Fatalf("no load expected, got %d", f.store.loads)
	}

	if err := doc.Load(); err != nil {
		t.Fatalf("explicit load should still work: %v", err)
	}
	if doc.Value().Volume != 1 {
		t.Fatalf("explicit load should apply the file")
	}
}

func TestSessionReset(t *testing.T) {
	f := newFixture(t)
	hub := session.NewHub()
	opts := f.options(savePath)
	opts.Session = hub
	doc := New(defaultSettings(), opts)

	hub.Enter()
	doc.Value().Volume = 7
	hub.Exit()
	if !doc.PendingReset() {
		t.Fatalf("exiting a session should mark the document")
	}

	if diff := cmp.Diff(defaultSettings(), doc.Value()); diff != "" {
		t.Fatalf("value after session should equal the default (-want +got):\n%s", diff)
	}
	if doc.PendingReset() {
		t.Fatalf("the mark should be consumed by the access")
	}

	doc.Value().Name = "authored"
	if err := doc.Save(false); err != nil {
		t.Fatalf("save after session failed: %v", err)
	}
	data, err := afero.ReadFile(f.fs, savePath.FullPath(f.env))
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if want := `{"volume":0.5,"name":"authored","tags":["a"]}` + "\n"; string(data) != want {
		t.Fatalf("unexpected saved content %s", data)
	}
}

func TestSessionResetConsumedOnEnter(t *testing.T) {
	f := newFixture(t)
	hub := session.NewHub()
	opts := f.options(savePath)
	opts.Session = hub
	doc := New(defaultSettings(), opts)

	hub.Enter()
	doc.Value().Volume = 3
	hub.Exit()
	hub.Enter()
	if doc.PendingReset() {
		t.Fatalf("entering the next session should consume the mark")
	}
	if doc.Value().Volume != 0.5 {
		t.Fatalf("value should be back at the default")
	}
}

func TestSetValueClearsPendingReset(t *testing.T) {
	f := newFixture(t)
	doc := New(defaultSettings(), f.options(savePath))
	doc.OnExitingLiveSession()
	doc.SetValue(&settings{Name: "explicit"})
	if doc.PendingReset() {
		t.Fatalf("SetValue should clear the pending reset")
	}
	if doc.Value().Name != "explicit" {
		t.Fatalf("explicit value should survive")
	}
}

func TestSubscriptionIsIdempotent(t *testing.T) {
	f := newFixture(t)
	hub := session.NewHub()
	opts := f.options(savePath)
	opts.Session = hub
	doc := New(defaultSettings(), opts)

	doc.Subscribe()
	if hub.Len() != 1 {
		t.Fatalf("expected a single subscription, got %d", hub.Len())
	}
	_ = doc.Close()
	_ = doc.Close()
	if hub.Len() != 0 {
		t.Fatalf("expected no subscriptions after close, got %d", hub.Len())
	}
	doc.Subscribe()
	if hub.Len() != 1 {
		t.Fatalf("resubscribe should work after close")
	}
}

func TestUnresolvedPlatform(t *testing.T) {
	f := newFixture(t)
	table := (&pathspec.PlatformTable{Platform: func() backend.Platform { return "linux" }}).
		Add(pathspec.NewChain(savePath, nil), "windows")
	doc := New(defaultSettings(), f.options(table))

	if err := doc.Load(); !errors.Is(err, ErrUnresolvedPlatform) {
		t.Fatalf("expected ErrUnresolvedPlatform, got %v", err)
	}
	if err := doc.Save(false); !errors.Is(err, ErrUnresolvedPlatform) {
		t.Fatalf("expected ErrUnresolvedPlatform on save, got %v", err)
	}
	if doc.Value().Name != "default" {
		t.Fatalf("value should stay at the default")
	}
	if _, err := doc.Resolve(); !errors.Is(err, ErrUnresolvedPlatform) {
		t.Fatalf("resolve should surface the error, got %v", err)
	}
}

func TestResourceBackedDocument(t *testing.T) {
	f := newFixture(t)
	f.res.MustRegister("defaults/settings", `{"name": "bundled"}`)
	spec := pathspec.PathSpec{Backend: backend.EmbeddedNamedResource, SubPath: "defaults", FileName: "settings", Extension: "json"}
	doc := New(defaultSettings(), f.options(spec))

	if doc.Value().Name != "bundled" {
		t.Fatalf("resource contents should be merged, got %+v", doc.Value())
	}
	if f.res.Outstanding() != 0 {
		t.Fatalf("resource handle should be released")
	}
}

func TestMalformedFileIsReported(t *testing.T) {
	f := newFixture(t)
	f.write(t, savePath, `{"volume": `)
	doc := New(defaultSettings(), f.options(savePath))

	if err := doc.Materialize(); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected a decode error, got %v", err)
	}
	if doc.Value() == nil {
		t.Fatalf("value must stay initialized")
	}
}

func TestValueTypeDocument(t *testing.T) {
	f := newFixture(t)
	spec := pathspec.PathSpec{Backend: backend.GameRoot, FileName: "count", Extension: "json"}
	f.write(t, spec, `12`)

	doc := New(3, Options[int]{
		Name:    "count",
		Path:    spec,
		Env:     f.env,
		Store:   f.store,
		Clone:   Identity[int],
		UseFile: PolicyAlways,
		Logger:  f.log,
	})
	if doc.Value() != 12 {
		t.Fatalf("expected file value, got %d", doc.Value())
	}
	doc.ResetToDefault()
	if doc.Value() != 3 {
		t.Fatalf("expected default, got %d", doc.Value())
	}
}

func TestNoPath(t *testing.T) {
	f := newFixture(t)
	doc := New(defaultSettings(), f.options(nil))
	if err := doc.Load(); !errors.Is(err, ErrNoPath) {
		t.Fatalf("expected ErrNoPath, got %v", err)
	}
}

func TestLogFieldsAreInjectable(t *testing.T) {
	f := newFixture(t)
	opts := f.options(savePath)
	opts.Fields = func(name, backend, path string) logrus.Fields {
		return logrus.Fields{"document": name, "backend": backend, "path": path, "origin": "registry"}
	}
	doc := New(defaultSettings(), opts)

	if err := doc.Save(false); err != nil {
		t.Fatalf("save: %v", err)
	}
	entry := f.hook.LastEntry()
	if entry == nil {
		t.Fatalf("save should log")
	}
	if entry.Data["origin"] != "registry" || entry.Data["action"] != "document_save" {
		t.Fatalf("unexpected fields %v", entry.Data)
	}
	if entry.Data["path"] != savePath.FullPath(f.env) || entry.Data["backend"] != backend.PersistentWritable.String() {
		t.Fatalf("unexpected path fields %v", entry.Data)
	}
}

func TestDefaultLogFields(t *testing.T) {
	f := newFixture(t)
	doc := New(defaultSettings(), f.options(savePath))

	_ = doc.Load()
	entry := f.hook.LastEntry()
	if entry == nil {
		t.Fatalf("missing file should be reported")
	}
	for _, key := range []string{"action", "document", "backend", "path"} {
		if _, ok := entry.Data[key]; !ok {
			t.Fatalf("missing %s field in %v", key, entry.Data)
		}
	}
}
