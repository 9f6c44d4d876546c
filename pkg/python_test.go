package pkg

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// stubInterpreter drops a fake "python" binary into a fresh directory and
// points PATH at it.
func stubInterpreter(t *testing.T, script string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("interpreter stubs rely on shell scripts")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "python")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0770); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	t.Setenv("PATH", dir)
}

func TestFindInterpreter(t *testing.T) {
	stubInterpreter(t, `echo "Python 3.12.0"`)

	interp, err := FindInterpreter()
	if err != nil {
		t.Fatalf("find interpreter: %v", err)
	}

	version, err := interp.Version()
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if version != "Python 3.12.0" {
		t.Errorf("version = %q", version)
	}
}

func TestFindInterpreter_Missing(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	if _, err := FindInterpreter(); err == nil {
		t.Fatal("expected an error with no interpreter on PATH")
	}
}

func TestHasModule(t *testing.T) {
	stubInterpreter(t, `
case "$2" in
"import PyInstaller") exit 0 ;;
*) exit 1 ;;
esac`)

	interp, err := FindInterpreter()
	if err != nil {
		t.Fatalf("find interpreter: %v", err)
	}

	if !interp.HasModule("PyInstaller") {
		t.Error("PyInstaller should be importable in the stub")
	}
	if interp.HasModule("missing_module") {
		t.Error("missing_module shouldn't be importable")
	}
}

func TestPipInstall_Failure(t *testing.T) {
	stubInterpreter(t, "exit 1")

	interp, err := FindInterpreter()
	if err != nil {
		t.Fatalf("find interpreter: %v", err)
	}

	if err := interp.PipInstall("pyinstaller"); err == nil {
		t.Fatal("expected the failing pip install to be reported")
	}
}
