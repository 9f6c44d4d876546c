package bundle_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/multiplecam/build-tools/pkg/bundle"
)

func TestRunHooks_RunsCommandsWithEnv(t *testing.T) {
	root := t.TempDir()
	hooks := []*bundle.Hook{
		{Name: "stamp", Cmds: []string{"echo $GREETING > out.txt"}},
	}

	err := bundle.RunHooks(context.Background(), root, map[string]string{"GREETING": "hello"}, hooks)
	if err != nil {
		t.Fatalf("run hooks: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(root, "out.txt"))
	if err != nil {
		t.Fatalf("read hook output: %v", err)
	}
	if string(content) != "hello\n" {
		t.Errorf("hook output = %q, want %q", content, "hello\n")
	}
}

func TestRunHooks_FailureAborts(t *testing.T) {
	root := t.TempDir()
	hooks := []*bundle.Hook{
		{Name: "boom", Cmds: []string{"test -f does-not-exist.txt"}},
		{Name: "after", Cmds: []string{"echo x > after.txt"}},
	}

	err := bundle.RunHooks(context.Background(), root, nil, hooks)
	if err == nil {
		t.Fatal("expected the failing hook to abort the run")
	}

	if _, err := os.Stat(filepath.Join(root, "after.txt")); err == nil {
		t.Error("hooks after a failure shouldn't run")
	}
}

func TestRunHooks_NoHooks(t *testing.T) {
	if err := bundle.RunHooks(context.Background(), t.TempDir(), nil, nil); err != nil {
		t.Fatalf("no hooks should be a no-op, got %v", err)
	}
}
