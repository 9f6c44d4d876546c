package bundle

import (
	"os"
	"path/filepath"

	"github.com/aidarkhanov/nanoid"
	"github.com/rotisserie/eris"
	"go.starlark.net/starlark"
)

func resolvePath(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	base := ""
	ctx := getCtx(thread)

	for _, kv := range kwargs {
		key := kv[0].(starlark.String).GoString()
		if key != "base" {
			return nil, eris.Errorf("unexpected keyword argument %s", key)
		}

		value, err := pathArg(kv[1], "base")
		if err != nil {
			return nil, err
		}
		base = normalizePath(ctx, value)
	}

	if len(args) < 1 {
		return nil, eris.New("expects at least one argument")
	}

	parts, err := stringTuple(args, fn.Name())
	if err != nil {
		return nil, err
	}

	normPath := normalizePath(ctx, parts...)
	if base != "" {
		normPath, err = filepath.Rel(base, normPath)
		if err != nil {
			return nil, err
		}
	}

	return Path(normPath), nil
}

func starInfo(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var message string

	err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &message)
	if err != nil {
		return nil, err
	}

	info(thread, message)
	return starlark.None, nil
}

func starWarn(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var message string

	err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &message)
	if err != nil {
		return nil, err
	}

	warn(thread, message)
	return starlark.None, nil
}

func starError(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var message string

	err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &message)
	if err != nil {
		return nil, err
	}

	return nil, eris.New(message)
}

func option(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	var defaultValue starlark.String
	var help string

	err := starlark.UnpackArgs(fn.Name(), args, kwargs, "name", &name, "default?", &defaultValue, "help?", &help)
	if err != nil {
		return nil, err
	}

	ctx := getCtx(thread)
	ctx.options[name] = ScriptOption{
		DefaultValue: defaultValue,
		Help:         help,
	}

	value, ok := ctx.optionValues[name]
	if ok {
		return starlark.String(value), nil
	}

	return defaultValue, nil
}

func getenv(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var key string

	err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &key)
	if err != nil {
		return nil, err
	}

	value, ok := getCtx(thread).decl.Env[key]
	if !ok {
		value = os.Getenv(key)
	}

	return starlark.String(value), nil
}

func setenv(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var key string
	var value string

	err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 2, &key, &value)
	if err != nil {
		return nil, err
	}

	getCtx(thread).decl.Env[key] = value
	return starlark.True, nil
}

func starIsdir(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var dirPath string

	err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &dirPath)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(normalizePath(getCtx(thread), dirPath))
	return starlark.Bool(err == nil && info.IsDir()), nil
}

func starIsfile(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var filePath string

	err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &filePath)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(normalizePath(getCtx(thread), filePath))
	return starlark.Bool(err == nil && info.Mode().IsRegular()), nil
}

func executable(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	var entry string
	var icon string
	var console bool
	var onefile bool

	err := starlark.UnpackArgs(fn.Name(), args, kwargs, "name", &name, "entry", &entry,
		"icon?", &icon, "console?", &console, "onefile?", &onefile)
	if err != nil {
		return nil, err
	}

	ctx := getCtx(thread)
	if ctx.decl.Name != "" {
		return nil, eris.Errorf("%s was already called, a declaration can only contain one executable", fn.Name())
	}

	if name == "" {
		return nil, eris.New("the executable name can't be empty")
	}

	entryRel, err := rootRelative(ctx, normalizePath(ctx, entry))
	if err != nil {
		return nil, err
	}

	iconRel := ""
	if icon != "" {
		iconRel, err = rootRelative(ctx, normalizePath(ctx, icon))
		if err != nil {
			return nil, err
		}
	}

	ctx.decl.Name = name
	ctx.decl.Entry = entryRel
	ctx.decl.Icon = iconRel
	ctx.decl.Console = console
	ctx.decl.OneFile = onefile

	return starlark.None, nil
}

func appendEntry(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple, list *[]Entry) error {
	var source starlark.Value
	var dest string
	var optional bool

	err := starlark.UnpackArgs(fn.Name(), args, kwargs, "source", &source, "dest?", &dest, "optional?", &optional)
	if err != nil {
		return err
	}

	ctx := getCtx(thread)
	sourcePath, err := pathArg(source, "source")
	if err != nil {
		return err
	}

	sourceRel, err := rootRelative(ctx, normalizePath(ctx, sourcePath))
	if err != nil {
		return err
	}

	if dest == "" {
		dest = "."
	}

	*list = append(*list, Entry{
		Source:   sourceRel,
		Dest:     filepath.ToSlash(filepath.Clean(dest)),
		Optional: optional,
	})
	return nil
}

func binary(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	err := appendEntry(thread, fn, args, kwargs, &getCtx(thread).decl.Binaries)
	if err != nil {
		return nil, err
	}

	return starlark.None, nil
}

func data(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	err := appendEntry(thread, fn, args, kwargs, &getCtx(thread).decl.Datas)
	if err != nil {
		return nil, err
	}

	return starlark.None, nil
}

func hiddenImports(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(kwargs) > 0 {
		return nil, eris.Errorf("%s doesn't accept keyword arguments", fn.Name())
	}

	names, err := stringTuple(args, fn.Name())
	if err != nil {
		return nil, err
	}

	decl := getCtx(thread).decl
	decl.HiddenImports = append(decl.HiddenImports, names...)
	return starlark.None, nil
}

func appendHook(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple, list *[]*Hook) error {
	name := ""
	for _, kv := range kwargs {
		key := kv[0].(starlark.String).GoString()
		if key != "name" {
			return eris.Errorf("unexpected keyword argument %s", key)
		}

		value, ok := kv[1].(starlark.String)
		if !ok {
			return eris.Errorf("for parameter name: got %s, want string", kv[1].Type())
		}
		name = value.GoString()
	}

	if name == "" {
		name = fn.Name() + "#" + nanoid.New()
	}

	cmds, err := stringTuple(args, fn.Name())
	if err != nil {
		return err
	}

	if len(cmds) == 0 {
		return eris.Errorf("%s expects at least one command", fn.Name())
	}

	*list = append(*list, &Hook{Name: name, Cmds: cmds})
	return nil
}

func preBuild(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	err := appendHook(thread, fn, args, kwargs, &getCtx(thread).decl.PreBuild)
	if err != nil {
		return nil, err
	}

	return starlark.None, nil
}

func postBuild(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	err := appendHook(thread, fn, args, kwargs, &getCtx(thread).decl.PostBuild)
	if err != nil {
		return nil, err
	}

	return starlark.None, nil
}
