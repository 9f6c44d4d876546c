package cmd

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/multiplecam/build-tools/pkg"
	"github.com/multiplecam/build-tools/pkg/bundle"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verifies the build prerequisites without building anything",
	Long: `Probes for a Python interpreter and PyInstaller, evaluates the packaging
declaration and verifies that all declared build inputs exist. Nothing is
modified; a failing check exits with a non-zero status.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := zerolog.New(NewConsoleWriter())
		ctx := bundle.WithLogger(cmd.Context(), &logger)

		root, declPath, err := pkg.FindProjectRoot()
		if err != nil {
			return err
		}

		pkg.PrintTask("Checking the toolchain")
		interp, err := pkg.FindInterpreter()
		if err != nil {
			return err
		}

		version, err := interp.Version()
		if err != nil {
			return err
		}
		pkg.PrintSubtask(version + " (" + interp.Path + ")")

		if interp.HasModule(pkg.PackagerModule) {
			pkgVersion, err := interp.ModuleVersion(pkg.PackagerModule)
			if err != nil {
				pkg.PrintSubtask("PyInstaller found (version unknown)")
			} else {
				pkg.PrintSubtask("PyInstaller " + pkgVersion)
			}
		} else {
			pkg.PrintSubtask("PyInstaller is missing; \"mcbuild build\" will install it")
		}

		pkg.PrintTask("Checking the packaging declaration")
		decl, _, err := bundle.RunScript(ctx, declPath, root, parseOptionArgs(args))
		if err != nil {
			return err
		}

		err = decl.Validate(ctx, root)
		if err != nil {
			return err
		}

		pkg.PrintSubtask("all declared build inputs are present")
		pkg.PrintTask("Everything looks good")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
