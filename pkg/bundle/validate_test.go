package bundle_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/multiplecam/build-tools/pkg/bundle"
)

func touch(t *testing.T, root string, names ...string) {
	t.Helper()

	for _, name := range names {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0770); err != nil {
			t.Fatalf("mkdir for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte("x"), 0660); err != nil {
			t.Fatalf("touch %s: %v", name, err)
		}
	}
}

func TestValidate_AllInputsPresent(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "app.py", "libvlc.dll", "cameras.json")

	decl := &bundle.Declaration{
		Name:     "app",
		Entry:    "app.py",
		Binaries: []bundle.Entry{{Source: "libvlc.dll", Dest: "."}},
		Datas:    []bundle.Entry{{Source: "cameras.json", Dest: "."}},
	}

	if err := decl.Validate(context.Background(), root); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidate_MissingInputFails(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "app.py")

	decl := &bundle.Declaration{
		Name:  "app",
		Entry: "app.py",
		Datas: []bundle.Entry{{Source: "cameras.json", Dest: "."}},
	}

	err := decl.Validate(context.Background(), root)
	if err == nil {
		t.Fatal("expected an error for a missing input")
	}
	if !strings.Contains(err.Error(), "cameras.json") {
		t.Errorf("error should name the missing input: %v", err)
	}
}

func TestValidate_DropsMissingOptionalEntries(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "app.py", "cameras.json")

	decl := &bundle.Declaration{
		Name:  "app",
		Entry: "app.py",
		Datas: []bundle.Entry{
			{Source: "extra.json", Dest: ".", Optional: true},
			{Source: "cameras.json", Dest: "."},
		},
	}

	if err := decl.Validate(context.Background(), root); err != nil {
		t.Fatalf("validate: %v", err)
	}

	if len(decl.Datas) != 1 || decl.Datas[0].Source != "cameras.json" {
		t.Errorf("missing optional entry should be dropped, got %+v", decl.Datas)
	}
}

func TestValidate_ClearsMissingIcon(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "app.py")

	decl := &bundle.Declaration{
		Name:  "app",
		Entry: "app.py",
		Icon:  "icon.ico",
	}

	if err := decl.Validate(context.Background(), root); err != nil {
		t.Fatalf("validate: %v", err)
	}

	if decl.Icon != "" {
		t.Errorf("icon = %q, want empty when the file is missing", decl.Icon)
	}
}

func TestValidate_MissingEntryScriptFails(t *testing.T) {
	root := t.TempDir()

	decl := &bundle.Declaration{Name: "app", Entry: "app.py"}
	if err := decl.Validate(context.Background(), root); err == nil {
		t.Fatal("expected an error for a missing entry script")
	}
}
