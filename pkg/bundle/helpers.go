package bundle

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.starlark.net/starlark"
)

// normalizePath resolves the given path segments relative to the declaration
// file. Paths starting with "//" are resolved relative to the project root
// instead.
func normalizePath(ctx *parserCtx, pathList ...string) string {
	result := filepath.Dir(ctx.filepath)

	for _, path := range pathList {
		if strings.HasPrefix(path, "//") {
			result = filepath.Join(ctx.projectRoot, path[2:])
		} else if strings.HasPrefix(path, "/") {
			result = filepath.Join(filepath.VolumeName(result), path)
		} else if !filepath.IsAbs(path) {
			result = filepath.Join(result, path)
		} else {
			result = path
		}
	}

	return filepath.Clean(result)
}

// simplifyPath is the inverse of normalizePath; it turns absolute paths inside
// the project back into the "//" notation for readable messages.
func simplifyPath(ctx *parserCtx, path string) string {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	if strings.HasPrefix(absPath, ctx.projectRoot) {
		return "//" + filepath.ToSlash(absPath[len(ctx.projectRoot)+1:])
	}
	return path
}

// rootRelative converts an absolute path inside the project to a slash
// separated path relative to the project root.
func rootRelative(ctx *parserCtx, path string) (string, error) {
	rel, err := filepath.Rel(ctx.projectRoot, path)
	if err != nil {
		return "", eris.Wrapf(err, "failed to resolve %s relative to the project root", path)
	}

	if strings.HasPrefix(rel, "..") {
		return "", eris.Errorf("%s is outside the project root", path)
	}

	return filepath.ToSlash(rel), nil
}

// pathArg unpacks a starlark value that may either be a string or a path.
func pathArg(value starlark.Value, param string) (string, error) {
	switch value := value.(type) {
	case starlark.String:
		return value.GoString(), nil
	case Path:
		return string(value), nil
	default:
		return "", eris.Errorf("for parameter %s: got %s, want path or string", param, value.Type())
	}
}

func stringTuple(args starlark.Tuple, fnName string) ([]string, error) {
	result := make([]string, 0, len(args))
	for idx, item := range args {
		value, ok := item.(starlark.String)
		if !ok {
			return nil, eris.Errorf("%s: argument %d is a %s but only strings are supported", fnName, idx+1, item.Type())
		}

		result = append(result, value.GoString())
	}

	return result, nil
}
