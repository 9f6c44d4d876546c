package pkg

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/colorstring"
	"github.com/rotisserie/eris"
)

// DeclarationFile is the name of the packaging declaration that marks the
// project root.
const DeclarationFile = "bundle.star"

// FindProjectRoot walks up from the current working directory until it finds
// the packaging declaration and returns the containing directory together with
// the declaration's path.
func FindProjectRoot() (string, string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", "", eris.Wrap(err, "failed to retrieve the current working directory")
	}

	return findProjectRootFrom(wd)
}

func findProjectRootFrom(path string) (string, string, error) {
	for {
		declPath := filepath.Join(path, DeclarationFile)
		_, err := os.Stat(declPath)
		if err == nil {
			return path, declPath, nil
		}

		if !eris.Is(err, os.ErrNotExist) {
			return "", "", eris.Wrapf(err, "failed to check %s", declPath)
		}

		parent := filepath.Dir(path)
		if parent == path {
			return "", "", eris.Errorf("no %s file found", DeclarationFile)
		}
		path = parent
	}
}

func PrintTask(msg string) {
	colorstring.Printf("[blue][bold]==>[default] %s\n", msg)
}

func PrintSubtask(msg string) {
	colorstring.Printf("[green][bold]  ->[reset] %s\n", msg)
}

func PrintError(msg string) {
	colorstring.Printf("[red][bold]  ->[reset] %s\n", msg)
}
