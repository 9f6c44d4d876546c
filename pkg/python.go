package pkg

import (
	"os"
	"os/exec"
	"strings"

	"github.com/rotisserie/eris"
)

// interpreterNames lists the interpreter binaries that are probed in order.
// "py" covers the Windows launcher installed by python.org builds.
var interpreterNames = []string{"python", "python3", "py"}

// Interpreter is a Python interpreter resolved on PATH.
type Interpreter struct {
	Path string
}

// FindInterpreter returns the first Python interpreter found on PATH.
func FindInterpreter() (*Interpreter, error) {
	for _, name := range interpreterNames {
		path, err := exec.LookPath(name)
		if err == nil {
			return &Interpreter{Path: path}, nil
		}
	}

	return nil, eris.Errorf("no Python interpreter (%s) found on PATH", strings.Join(interpreterNames, ", "))
}

// Version returns the interpreter's version string, e.g. "Python 3.12.4".
func (i *Interpreter) Version() (string, error) {
	output, err := exec.Command(i.Path, "--version").CombinedOutput()
	if err != nil {
		return "", eris.Wrapf(err, "failed to run %s --version", i.Path)
	}

	return strings.TrimSpace(string(output)), nil
}

// HasModule reports whether the interpreter can import the given module.
func (i *Interpreter) HasModule(name string) bool {
	return exec.Command(i.Path, "-c", "import "+name).Run() == nil
}

// ModuleVersion returns the __version__ attribute of the given module.
func (i *Interpreter) ModuleVersion(name string) (string, error) {
	output, err := exec.Command(i.Path, "-c", "import "+name+"; print("+name+".__version__)").Output()
	if err != nil {
		return "", eris.Wrapf(err, "failed to read the version of %s", name)
	}

	return strings.TrimSpace(string(output)), nil
}

// PipInstall installs the given requirement (name or name==version) through
// the interpreter's package manager. Output is passed through so install
// problems stay visible on the console.
func (i *Interpreter) PipInstall(requirement string) error {
	cmd := exec.Command(i.Path, "-m", "pip", "install", requirement)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err != nil {
		return eris.Wrapf(err, "failed to install %s", requirement)
	}

	return nil
}
