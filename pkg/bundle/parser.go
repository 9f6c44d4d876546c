package bundle

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/rotisserie/eris"
	"go.starlark.net/starlark"
)

type parserCtx struct {
	ctx          context.Context
	options      map[string]ScriptOption
	optionValues map[string]string
	filepath     string
	projectRoot  string
	decl         *Declaration
}

func getCtx(thread *starlark.Thread) *parserCtx {
	return thread.Local("parserCtx").(*parserCtx)
}

func info(thread *starlark.Thread, msg string, args ...interface{}) {
	ctx := getCtx(thread)
	pos := thread.CallFrame(1).Pos

	log(ctx.ctx).Info().
		Msgf("%s:%d:%d: %s", simplifyPath(ctx, ctx.filepath), pos.Line, pos.Col, fmt.Sprintf(msg, args...))
}

func warn(thread *starlark.Thread, msg string, args ...interface{}) {
	ctx := getCtx(thread)
	pos := thread.CallFrame(1).Pos

	log(ctx.ctx).Warn().
		Msgf("%s:%d:%d: %s", simplifyPath(ctx, ctx.filepath), pos.Line, pos.Col, fmt.Sprintf(msg, args...))
}

// RunScript evaluates the given bundle.star file and returns the resulting
// declaration together with the options it declared. The passed options
// override the defaults declared with option().
func RunScript(ctx context.Context, filename, projectRoot string, options map[string]string) (*Declaration, map[string]ScriptOption, error) {
	projectRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, nil, err
	}

	filename, err = filepath.Abs(filename)
	if err != nil {
		return nil, nil, err
	}

	builtins := starlark.StringDict{
		"OS":             starlark.String(runtime.GOOS),
		"ARCH":           starlark.String(runtime.GOARCH),
		"info":           starlark.NewBuiltin("info", starInfo),
		"warn":           starlark.NewBuiltin("warn", starWarn),
		"error":          starlark.NewBuiltin("error", starError),
		"resolve_path":   starlark.NewBuiltin("resolve_path", resolvePath),
		"option":         starlark.NewBuiltin("option", option),
		"getenv":         starlark.NewBuiltin("getenv", getenv),
		"setenv":         starlark.NewBuiltin("setenv", setenv),
		"isdir":          starlark.NewBuiltin("isdir", starIsdir),
		"isfile":         starlark.NewBuiltin("isfile", starIsfile),
		"executable":     starlark.NewBuiltin("executable", executable),
		"binary":         starlark.NewBuiltin("binary", binary),
		"data":           starlark.NewBuiltin("data", data),
		"hidden_imports": starlark.NewBuiltin("hidden_imports", hiddenImports),
		"pre_build":      starlark.NewBuiltin("pre_build", preBuild),
		"post_build":     starlark.NewBuiltin("post_build", postBuild),
	}

	thread := &starlark.Thread{
		Name: "bundle",
		Print: func(thread *starlark.Thread, msg string) {
			log(ctx).Info().Str("thread", thread.Name).Msg(msg)
		},
	}
	threadCtx := parserCtx{
		ctx:          ctx,
		filepath:     filename,
		projectRoot:  projectRoot,
		options:      make(map[string]ScriptOption),
		optionValues: options,
		decl: &Declaration{
			Env: make(map[string]string),
		},
	}
	thread.SetLocal("parserCtx", &threadCtx)

	script, err := os.ReadFile(filename)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "failed to read file %s", filename)
	}

	_, err = starlark.ExecFile(thread, simplifyPath(&threadCtx, filename), script, builtins)
	if err != nil {
		if evalError, ok := err.(*starlark.EvalError); ok {
			return nil, nil, eris.Errorf("failed to execute %s:\n%s", simplifyPath(&threadCtx, filename), evalError.Backtrace())
		}
		return nil, nil, eris.Wrapf(err, "failed to execute %s", simplifyPath(&threadCtx, filename))
	}

	if threadCtx.decl.Name == "" {
		return nil, nil, eris.Errorf("%s did not call executable()", simplifyPath(&threadCtx, filename))
	}

	return threadCtx.decl, threadCtx.options, nil
}
