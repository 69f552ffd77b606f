package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/strandmesh/strand/core"
	"github.com/strandmesh/strand/protocol"
	"github.com/strandmesh/strand/state"
)

var localConfigPath string

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <Node-ID> <Port> <Config-File> <RoutingDelay> <UpdateInterval>",
	Short: "Run one routing node",
	Long: `This will run a single routing node on the current host. RoutingDelay is
the delay in seconds before the first routing computation; UpdateInterval is
the period in seconds between update re-broadcasts.`,
	Args: cobra.ExactArgs(5),
}

func parseRunArgs(args []string) (*state.NodeCfg, error) {
	if !state.ValidNodeId(args[0]) {
		return nil, state.Startupf("Error: Invalid Node-ID. Must be a single uppercase letter.")
	}
	port, err := strconv.ParseUint(args[1], 10, 16)
	if err != nil || port == 0 {
		return nil, state.Startupf("Error: Invalid Port number. Must be an integer.")
	}
	neighbours, err := state.ReadNeighbourConfig(args[2])
	if err != nil {
		return nil, err
	}
	delay, err := strconv.ParseFloat(args[3], 64)
	if err != nil {
		return nil, state.Startupf("Error: RoutingDelay and UpdateInterval must be numeric.")
	}
	interval, err := strconv.ParseFloat(args[4], 64)
	if err != nil || interval < 0 {
		return nil, state.Startupf("Error: RoutingDelay and UpdateInterval must be numeric.")
	}

	cfg := &state.NodeCfg{
		Id:             state.NodeId(args[0]),
		Port:           uint16(port),
		Neighbours:     neighbours,
		RoutingDelay:   time.Duration(delay * float64(time.Second)),
		UpdateInterval: time.Duration(interval * float64(time.Second)),
	}
	if localConfigPath != "" {
		local, err := state.ReadLocalConfig(localConfigPath)
		if err != nil {
			return nil, err
		}
		cfg.Local = *local
	}
	if verbose, _ := runCmd.Flags().GetBool("verbose"); verbose {
		cfg.Local.Verbose = true
	}
	return cfg, nil
}

func init() {
	// Assigned here rather than in the composite literal to avoid an
	// initialization cycle: the closure references parseRunArgs, which
	// reads runCmd's flags.
	runCmd.Run = func(cmd *cobra.Command, args []string) {
		cfg, err := parseRunArgs(args)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if err := core.Start(*cfg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(protocol.ExitCode(err))
		}
	}
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&localConfigPath, "local-config", "n", "", "optional node-local YAML config")
	runCmd.Flags().BoolP("verbose", "v", false, "Verbose output")
}
