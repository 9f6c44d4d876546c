package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mcbuild",
	Short: "Build tools for multiplecam",
	Long: `This command bundles the tools used to package the multiplecam camera wall
into a standalone executable. This includes tools to download & unpack the
native runtime, check build prerequisites, render the packager spec, run the
packager and pack the result for distribution.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
