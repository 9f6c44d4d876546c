package cmd

import (
	"github.com/spf13/cobra"

	"github.com/multiplecam/build-tools/pkg"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Removes the build output directories",
	Long:  `Deletes the build and dist directories and everything in them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, _, err := pkg.FindProjectRoot()
		if err != nil {
			return err
		}

		removed, err := pkg.RemoveBuildDirs(root)
		if err != nil {
			return err
		}

		if len(removed) == 0 {
			pkg.PrintTask("Nothing to remove")
			return nil
		}

		for _, dir := range removed {
			pkg.PrintSubtask("removed " + dir)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}
