package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "strand",
	Short: "Strand distance-vector routing node",
	Long: `Strand simulates a single node in a distance-vector routing network.
Each node keeps a local view of the network graph, exchanges reachability
information with its direct neighbours over UDP, and accepts administrative
commands from the console or the network.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
