package pkg

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/rotisserie/eris"
)

const (
	// PackagerModule is the import name probed to detect the packager.
	PackagerModule = "PyInstaller"
	// PackagerRequirement is what pip installs when the packager is missing.
	PackagerRequirement = "pyinstaller"

	// BuildDir holds the packager's intermediate files, DistDir the result.
	// Both are removed before every build.
	BuildDir = "build"
	DistDir  = "dist"
)

// EnsurePackager checks that PyInstaller is importable and installs it through
// pip if it isn't. The install is attempted exactly once; a second failing
// import check aborts.
func (i *Interpreter) EnsurePackager() error {
	if i.HasModule(PackagerModule) {
		return nil
	}

	PrintSubtask("PyInstaller is missing, installing it with pip")
	err := i.PipInstall(PackagerRequirement)
	if err != nil {
		return err
	}

	if !i.HasModule(PackagerModule) {
		return eris.New("PyInstaller is still missing after the install, aborting")
	}

	return nil
}

// RunPackager invokes PyInstaller on the given spec file with the project root
// as working directory. The packager's output is passed through; a non-zero
// exit is returned as an error.
func (i *Interpreter) RunPackager(projectRoot, specPath string) error {
	cmd := exec.Command(i.Path, "-m", PackagerModule, "--noconfirm",
		"--workpath", BuildDir, "--distpath", DistDir, specPath)
	cmd.Dir = projectRoot
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err != nil {
		return eris.Wrap(err, "PyInstaller failed")
	}

	return nil
}

// OutputPath returns the path of the produced executable relative to the
// project root.
func OutputPath(name string) string {
	if runtime.GOOS == "windows" {
		name += ".exe"
	}

	return filepath.Join(DistDir, name)
}
