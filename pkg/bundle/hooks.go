package bundle

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

func hookEnviron(env map[string]string) expand.Environ {
	envVars := os.Environ()
	for name, value := range env {
		envVars = append(envVars, fmt.Sprintf("%s=%s", name, value))
	}

	return expand.ListEnviron(envVars...)
}

var defaultOpenHandler = interp.DefaultOpenHandler()

func openHandler(ctx context.Context, path string, flag int, perm os.FileMode) (io.ReadWriteCloser, error) {
	if path == "/dev/null" {
		path = os.DevNull
	}

	return defaultOpenHandler(ctx, path, flag, perm)
}

// RunHooks executes the given hooks in order with the declaration's env
// overrides applied. Commands run through an embedded POSIX shell so hooks
// behave the same on every platform. The first failing command aborts the
// whole run.
func RunHooks(ctx context.Context, projectRoot string, env map[string]string, hooks []*Hook) error {
	if len(hooks) == 0 {
		return nil
	}

	runner, err := interp.New(
		interp.Dir(projectRoot),
		interp.Env(hookEnviron(env)),
		interp.OpenHandler(openHandler),
		interp.StdIO(nil, os.Stdout, os.Stderr),
		interp.Params("-e"),
	)
	if err != nil {
		return eris.Wrap(err, "failed to initialize the hook runner")
	}

	parser := syntax.NewParser()
	for _, hook := range hooks {
		for idx, cmd := range hook.Cmds {
			parsed, err := parser.Parse(strings.NewReader(cmd), fmt.Sprintf("%s:%d", hook.Name, idx))
			if err != nil {
				return eris.Wrapf(err, "failed to parse command %s", cmd)
			}

			for _, stmt := range parsed.Stmts {
				log(ctx).Info().
					Str("hook", hook.Name).
					Bool("command", true).
					Msg(cmd)

				err = runner.Run(ctx, stmt)
				if err != nil {
					return eris.Wrapf(err, "hook %s failed", hook.Name)
				}

				if runner.Exited() {
					return nil
				}
			}

			if err = ctx.Err(); err != nil {
				return err
			}
		}
	}

	return nil
}
