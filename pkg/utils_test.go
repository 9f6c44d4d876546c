package pkg

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestFindProjectRootFrom(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, DeclarationFile), []byte(""), 0660); err != nil {
		t.Fatalf("write declaration: %v", err)
	}

	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0770); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	gotRoot, gotDecl, err := findProjectRootFrom(nested)
	if err != nil {
		t.Fatalf("find root: %v", err)
	}
	if gotRoot != root {
		t.Errorf("root = %q, want %q", gotRoot, root)
	}
	if gotDecl != filepath.Join(root, DeclarationFile) {
		t.Errorf("declaration = %q", gotDecl)
	}
}

func TestFindProjectRootFrom_NotFound(t *testing.T) {
	_, _, err := findProjectRootFrom(t.TempDir())
	if err == nil {
		t.Fatal("expected an error without a declaration file")
	}
}

func TestOutputPath(t *testing.T) {
	want := filepath.Join("dist", "multiplecam")
	if runtime.GOOS == "windows" {
		want += ".exe"
	}

	if got := OutputPath("multiplecam"); got != want {
		t.Errorf("output path = %q, want %q", got, want)
	}
}
