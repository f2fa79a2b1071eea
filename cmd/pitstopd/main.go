package main

import (
	"os"

	"github.com/pitstop/sync/cli"
	"github.com/pitstop/sync/cmd"
	"github.com/pitstop/sync/pkg/profiling"
)

func main() {
	rootCmd := cli.NewStandardCommand(
		"pitstopd",
		"Real-time sync server for the Pitstop booking back-office",
	)

	profiler := profiling.New()
	profiler.AddFlags(rootCmd)
	rootCmd.PersistentPreRunE = profiler.PreRun
	rootCmd.PersistentPostRun = profiler.PostRun

	rootCmd.AddCommand(cmd.NewServeCmd())
	rootCmd.AddCommand(cmd.NewStopCmd())
	rootCmd.AddCommand(cmd.NewStatusCmd())
	rootCmd.AddCommand(cmd.NewVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
