package cmd

import (
	"github.com/spf13/cobra"

	"github.com/multiplecam/build-tools/pkg"
)

var installPackagerCmd = &cobra.Command{
	Use:   "install-packager",
	Short: "Installs PyInstaller through pip",
	Long: `Installs PyInstaller into the Python environment found on PATH. "mcbuild
build" does this automatically when the packager is missing; this command is
for installing or pinning it explicitly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := cmd.Flags().GetString("version")
		if err != nil {
			return err
		}

		interp, err := pkg.FindInterpreter()
		if err != nil {
			return err
		}

		requirement := pkg.PackagerRequirement
		if version != "" {
			requirement += "==" + version
		}

		pkg.PrintTask("Installing " + requirement)
		err = interp.PipInstall(requirement)
		if err != nil {
			return err
		}

		pkg.PrintTask("Done")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installPackagerCmd)
	installPackagerCmd.Flags().String("version", "", "pin a specific PyInstaller version")
}
