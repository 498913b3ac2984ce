package pathspec

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/any-hub/pathdoc/internal/backend"
)

func TestChainInheritsBlankFields(t *testing.T) {
	env := testEnv()
	parent := NewChain(PathSpec{Backend: backend.PersistentWritable, SubPath: "assets/data"}, nil)
	child := NewChain(PathSpec{FileName: "save"}, parent)

	full, err := child.FullPath(env)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	want := filepath.Join(env.Root(backend.PersistentWritable), "assets", "data", "save")
	if full != want {
		t.Fatalf("expected %q got %q", want, full)
	}
	if !strings.HasSuffix(filepath.ToSlash(full), "assets/data/save") {
		t.Fatalf("inherited sub path missing: %q", full)
	}
}

func TestChainLocalFieldsWin(t *testing.T) {
	root := NewChain(PathSpec{Backend: backend.GameRoot, SubPath: "a", FileName: "root", Extension: "json"}, nil)
	mid := NewChain(PathSpec{SubPath: "b", Extension: "  "}, root)
	leaf := NewChain(PathSpec{Backend: backend.TemporaryCache, FileName: "leaf"}, mid)

	spec, err := leaf.Spec()
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if spec.Backend != backend.TemporaryCache {
		t.Fatalf("leaf backend should win, got %s", spec.Backend)
	}
	if spec.SubPath != "b" {
		t.Fatalf("mid sub path should win, got %q", spec.SubPath)
	}
	if spec.FileName != "leaf" {
		t.Fatalf("leaf file name should win, got %q", spec.FileName)
	}
	if spec.Extension != "json" {
		t.Fatalf("whitespace extension should fall through to root, got %q", spec.Extension)
	}
}

func TestChainWithoutParentReturnsLocal(t *testing.T) {
	local := PathSpec{FileName: "   "}
	chain := NewChain(local, nil)
	if chain.HasParent() {
		t.Fatalf("no parent expected")
	}
	spec, err := chain.Spec()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec != local {
		t.Fatalf("local value should be returned untouched: %+v", spec)
	}
}

func TestChainParentIsReference(t *testing.T) {
	parent := NewChain(PathSpec{Backend: backend.GameRoot, SubPath: "v1"}, nil)
	child := NewChain(PathSpec{FileName: "f"}, parent)

	parent.Local.SubPath = "v2"
	spec, _ := child.Spec()
	if spec.SubPath != "v2" {
		t.Fatalf("child must observe parent changes, got %q", spec.SubPath)
	}

	flat, err := child.Flatten()
	if err != nil {
		t.Fatalf("flatten failed: %v", err)
	}
	parent.Local.SubPath = "v3"
	if flat.SubPath != "v2" {
		t.Fatalf("flattened snapshot must not follow the parent, got %q", flat.SubPath)
	}
}

func TestChainPropagatesParentError(t *testing.T) {
	table := &PlatformTable{Platform: func() backend.Platform { return "plan9" }}
	child := NewChain(PathSpec{FileName: "f"}, table)
	if _, err := child.Spec(); !errors.Is(err, ErrUnresolvedPlatform) {
		t.Fatalf("expected ErrUnresolvedPlatform, got %v", err)
	}
}

func TestResolveLayers(t *testing.T) {
	got := ResolveLayers(
		PathSpec{FileName: "leaf"},
		PathSpec{SubPath: "mid", FileName: "ignored"},
		PathSpec{Backend: backend.Custom, CustomRoot: "/r", Extension: "json"},
	)
	want := PathSpec{Backend: backend.Custom, CustomRoot: "/r", SubPath: "mid", FileName: "leaf", Extension: "json"}
	if got != want {
		t.Fatalf("unexpected merge: %+v", got)
	}
	if (ResolveLayers() != PathSpec{}) {
		t.Fatalf("no layers should give the zero spec")
	}
}
