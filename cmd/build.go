package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/multiplecam/build-tools/pkg"
	"github.com/multiplecam/build-tools/pkg/bundle"
)

var buildCmd = &cobra.Command{
	Use:   "build [option=value ...]",
	Short: "Packages multiplecam into a standalone executable",
	Long: `Checks the build prerequisites (Python, PyInstaller), removes stale build
output, evaluates the packaging declaration and runs the packager on it.
Options declared in the bundle.star file can be overridden by passing
option=value arguments.`,
	Run: func(cmd *cobra.Command, args []string) {
		pause, err := cmd.Flags().GetBool("pause")
		cobra.CheckErr(err)

		buildErr := runBuild(cmd, args)
		if buildErr != nil {
			pkg.PrintError(eris.ToString(buildErr, os.Getenv("MCBUILD_DEBUG") != ""))
			pkg.PrintError("Build failed")
		}

		// keep the console readable when launched from a desktop shortcut
		if pause {
			waitForEnter()
		}

		if buildErr != nil {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().Bool("pause", false, "wait for Enter before returning")
	buildCmd.Flags().Bool("no-install", false, "fail if PyInstaller is missing instead of installing it")
}

func runBuild(cmd *cobra.Command, args []string) error {
	noInstall, err := cmd.Flags().GetBool("no-install")
	if err != nil {
		return err
	}

	logger := zerolog.New(NewConsoleWriter())
	ctx := bundle.WithLogger(cmd.Context(), &logger)

	root, declPath, err := pkg.FindProjectRoot()
	if err != nil {
		return err
	}

	pkg.PrintTask("Checking prerequisites")
	interp, err := pkg.FindInterpreter()
	if err != nil {
		return err
	}

	version, err := interp.Version()
	if err != nil {
		return err
	}
	pkg.PrintSubtask(version + " (" + interp.Path + ")")

	if noInstall && !interp.HasModule(pkg.PackagerModule) {
		return eris.New("PyInstaller is missing and --no-install was passed")
	}

	err = interp.EnsurePackager()
	if err != nil {
		return err
	}

	pkg.PrintTask("Reading the packaging declaration")
	decl, _, err := bundle.RunScript(ctx, declPath, root, parseOptionArgs(args))
	if err != nil {
		return err
	}

	err = decl.Validate(ctx, root)
	if err != nil {
		return err
	}

	pkg.PrintTask("Removing stale build output")
	removed, err := pkg.RemoveBuildDirs(root)
	if err != nil {
		return err
	}
	for _, dir := range removed {
		pkg.PrintSubtask("removed " + dir)
	}

	err = bundle.RunHooks(ctx, root, decl.Env, decl.PreBuild)
	if err != nil {
		return err
	}

	pkg.PrintTask("Rendering the packager spec")
	specPath := filepath.Join(root, pkg.BuildDir, decl.Name+".spec")
	err = decl.WriteSpec(specPath)
	if err != nil {
		return err
	}

	pkg.PrintTask("Running PyInstaller")
	err = interp.RunPackager(root, specPath)
	if err != nil {
		return err
	}

	err = bundle.RunHooks(ctx, root, decl.Env, decl.PostBuild)
	if err != nil {
		return err
	}

	pkg.PrintTask("Build finished")
	pkg.PrintSubtask("Executable written to " + pkg.OutputPath(decl.Name))
	return nil
}

// parseOptionArgs splits "key=value" arguments into declaration options.
func parseOptionArgs(args []string) map[string]string {
	options := make(map[string]string)
	for _, part := range args {
		pos := strings.Index(part, "=")
		if pos > -1 {
			options[part[:pos]] = part[pos+1:]
		}
	}

	return options
}

func waitForEnter() {
	fmt.Print("Press Enter to continue...")
	_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
}
