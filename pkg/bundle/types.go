package bundle

import (
	"fmt"

	"github.com/rotisserie/eris"
	"go.starlark.net/starlark"
	starsyntax "go.starlark.net/syntax"
)

// Entry describes a single file or directory that is embedded into the bundle.
type Entry struct {
	// Source is the path on disk, relative to the project root (slash separated).
	Source string
	// Dest is the directory inside the bundle the entry is placed in.
	Dest string
	// Optional entries are silently dropped if they don't exist at build time.
	Optional bool
}

// Hook contains shell commands that run before or after the packager.
type Hook struct {
	Name string
	Cmds []string
}

// Declaration contains the processed values collected from a bundle.star file.
type Declaration struct {
	// Name is the base name of the produced executable (without extension).
	Name string
	// Entry is the application's entry script, relative to the project root.
	Entry string
	// Icon is the executable's icon, cleared during validation if missing.
	Icon    string
	Console bool
	OneFile bool

	Binaries      []Entry
	Datas         []Entry
	HiddenImports []string

	// Env contains overrides that are applied to hook commands.
	Env       map[string]string
	PreBuild  []*Hook
	PostBuild []*Hook
}

type ScriptOption struct {
	DefaultValue starlark.String
	Help         string
}

func (o ScriptOption) Default() string {
	return o.DefaultValue.GoString()
}

// Path is a starlark value holding a resolved filesystem path.
type Path string

func (p Path) String() string {
	return starlark.String(p).String()
}

func (p Path) Type() string {
	return "path"
}

func (p Path) Freeze() {}

func (p Path) Truth() starlark.Bool {
	return p != ""
}

func (p Path) Hash() (uint32, error) {
	return starlark.String(p).Hash()
}

func (p Path) CompareSameType(op starsyntax.Token, y_ starlark.Value, depth int) (bool, error) {
	y := y_.(Path)

	switch op {
	case starsyntax.EQL:
		return p == y, nil
	case starsyntax.NEQ:
		return p != y, nil
	case starsyntax.LT:
		return p < y, nil
	case starsyntax.LE:
		return p <= y, nil
	case starsyntax.GT:
		return p > y, nil
	case starsyntax.GE:
		return p >= y, nil
	}

	return false, eris.Errorf("unknown operator %v", op)
}

func (p Path) Index(i int) starlark.Value {
	return starlark.String(p[i])
}

func (p Path) Len() int {
	return len(p)
}

func (p Path) Slice(start, end, step int) starlark.Value {
	return starlark.String(p).Slice(start, end, step)
}

func (e Entry) String() string {
	return fmt.Sprintf("<Entry %s -> %s>", e.Source, e.Dest)
}
