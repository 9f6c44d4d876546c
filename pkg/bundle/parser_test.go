package bundle_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/multiplecam/build-tools/pkg/bundle"
)

func writeDeclaration(t *testing.T, root, content string) string {
	t.Helper()

	declPath := filepath.Join(root, "bundle.star")
	if err := os.WriteFile(declPath, []byte(content), 0660); err != nil {
		t.Fatalf("write declaration: %v", err)
	}

	return declPath
}

const basicDeclaration = `
console = option("console", default="no", help="debug console")

executable(
    name = "multiplecam",
    entry = "multiplecam.py",
    icon = "icon.ico" if isfile("icon.ico") else "",
    console = console == "yes",
    onefile = True,
)

binary("libvlc.dll")
data("cameras.json")
data("plugins", dest = "plugins")
data("extra.json", optional = True)
hidden_imports("vlc", "socketio")
pre_build("echo hi", name = "greet")
post_build("echo done")
`

func TestRunScript_CollectsDeclaration(t *testing.T) {
	root := t.TempDir()
	declPath := writeDeclaration(t, root, basicDeclaration)
	if err := os.WriteFile(filepath.Join(root, "icon.ico"), []byte("x"), 0660); err != nil {
		t.Fatalf("write icon: %v", err)
	}

	decl, options, err := bundle.RunScript(context.Background(), declPath, root, nil)
	if err != nil {
		t.Fatalf("run script: %v", err)
	}

	if decl.Name != "multiplecam" {
		t.Errorf("name = %q, want multiplecam", decl.Name)
	}
	if decl.Entry != "multiplecam.py" {
		t.Errorf("entry = %q, want multiplecam.py", decl.Entry)
	}
	if decl.Icon != "icon.ico" {
		t.Errorf("icon = %q, want icon.ico", decl.Icon)
	}
	if decl.Console {
		t.Error("console should default to false")
	}
	if !decl.OneFile {
		t.Error("onefile should be true")
	}

	if len(decl.Binaries) != 1 || decl.Binaries[0].Source != "libvlc.dll" || decl.Binaries[0].Dest != "." {
		t.Errorf("unexpected binaries: %+v", decl.Binaries)
	}

	if len(decl.Datas) != 3 {
		t.Fatalf("got %d datas, want 3", len(decl.Datas))
	}
	if decl.Datas[1].Dest != "plugins" {
		t.Errorf("plugins dest = %q, want plugins", decl.Datas[1].Dest)
	}
	if !decl.Datas[2].Optional {
		t.Error("extra.json should be optional")
	}

	if len(decl.HiddenImports) != 2 || decl.HiddenImports[0] != "vlc" {
		t.Errorf("unexpected hidden imports: %v", decl.HiddenImports)
	}

	if len(decl.PreBuild) != 1 || decl.PreBuild[0].Name != "greet" {
		t.Errorf("unexpected pre-build hooks: %+v", decl.PreBuild)
	}
	if len(decl.PostBuild) != 1 || decl.PostBuild[0].Name == "" {
		t.Error("anonymous post-build hook should get a generated name")
	}

	opt, ok := options["console"]
	if !ok {
		t.Fatal("console option not collected")
	}
	if opt.Default() != "no" {
		t.Errorf("console default = %q, want no", opt.Default())
	}
}

func TestRunScript_IconConditional(t *testing.T) {
	root := t.TempDir()
	declPath := writeDeclaration(t, root, basicDeclaration)

	decl, _, err := bundle.RunScript(context.Background(), declPath, root, nil)
	if err != nil {
		t.Fatalf("run script: %v", err)
	}

	if decl.Icon != "" {
		t.Errorf("icon = %q, want empty without icon.ico on disk", decl.Icon)
	}
}

func TestRunScript_OptionOverride(t *testing.T) {
	root := t.TempDir()
	declPath := writeDeclaration(t, root, basicDeclaration)

	decl, _, err := bundle.RunScript(context.Background(), declPath, root, map[string]string{"console": "yes"})
	if err != nil {
		t.Fatalf("run script: %v", err)
	}

	if !decl.Console {
		t.Error("console=yes should enable the console window")
	}
}

func TestRunScript_RequiresExecutable(t *testing.T) {
	root := t.TempDir()
	declPath := writeDeclaration(t, root, `binary("libvlc.dll")`)

	_, _, err := bundle.RunScript(context.Background(), declPath, root, nil)
	if err == nil {
		t.Fatal("expected an error for a declaration without executable()")
	}
}

func TestRunScript_RejectsInputsOutsideRoot(t *testing.T) {
	root := t.TempDir()
	declPath := writeDeclaration(t, root, `
executable(name = "app", entry = "app.py")
binary("../outside.dll")
`)

	_, _, err := bundle.RunScript(context.Background(), declPath, root, nil)
	if err == nil {
		t.Fatal("expected an error for an input outside the project root")
	}
}

func TestRunScript_ErrorBuiltinAborts(t *testing.T) {
	root := t.TempDir()
	declPath := writeDeclaration(t, root, `error("nope")`)

	_, _, err := bundle.RunScript(context.Background(), declPath, root, nil)
	if err == nil {
		t.Fatal("expected the error() builtin to abort the script")
	}
}
