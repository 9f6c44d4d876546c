package cmd

import (
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/multiplecam/build-tools/pkg"
	"github.com/multiplecam/build-tools/pkg/bundle"
)

var packDistCmd = &cobra.Command{
	Use:   "pack-dist",
	Short: "Packs the dist directory into a release archive",
	Long: `Recursively packs the contents of the dist directory into an archive for
distribution. The format depends on the file extension: .zip (default on
Windows) and .tar.xz (default elsewhere) are supported.`,
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

		if out == "" {
			decl, _, err := bundle.RunScript(ctx, declPath, root, nil)
			if err != nil {
				return err
			}

			out = filepath.Join(root, pkg.DefaultArchiveName(decl.Name))
		}

		pkg.PrintTask("Packing " + pkg.DistDir)
		err = pkg.PackDist(filepath.Join(root, pkg.DistDir), out)
		if err != nil {
			return err
		}

		pkg.PrintSubtask("archive written to " + out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(packDistCmd)
	packDistCmd.Flags().StringP("out", "o", "", "write the archive to this path")
}
