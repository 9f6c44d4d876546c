package cmd

import (
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/multiplecam/build-tools/pkg"
	"github.com/multiplecam/build-tools/pkg/bundle"
)

var genSpecCmd = &cobra.Command{
	Use:   "gen-spec [option=value ...]",
	Short: "Renders the PyInstaller spec file without building",
	Long: `Evaluates the packaging declaration and writes the resulting PyInstaller
spec file. Useful for inspecting what "mcbuild build" would pass to the
packager.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := cmd.Flags().GetString("out")
		if err != nil {
			return err
		}

		logger := zerolog.New(NewConsoleWriter())
		ctx := bundle.WithLogger(cmd.Context(), &logger)

		root, declPath, err := pkg.FindProjectRoot()
		if err != nil {
			return err
		}

		decl, _, err := bundle.RunScript(ctx, declPath, root, parseOptionArgs(args))
		if err != nil {
			return err
		}

		err = decl.Validate(ctx, root)
		if err != nil {
			return err
		}

		if out == "" {
			out = filepath.Join(root, pkg.BuildDir, decl.Name+".spec")
		}

		err = decl.WriteSpec(out)
		if err != nil {
			return err
		}

		pkg.PrintSubtask("spec written to " + out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(genSpecCmd)
	genSpecCmd.Flags().StringP("out", "o", "", "write the spec to this path instead of the build directory")
}
