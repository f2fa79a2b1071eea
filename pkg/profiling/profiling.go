// Package profiling adds optional CPU and heap profile flags to the
// pitstopd commands. Profiles are written on exit; with neither flag set
// the hooks are no-ops.
package profiling

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/spf13/cobra"
)

// Profiler carries the flag state between the pre- and post-run hooks.
type Profiler struct {
	cpuProfileFile *os.File
	cpuProfilePath string
	memProfilePath string
}

// New creates an empty Profiler.
func New() *Profiler {
	return &Profiler{}
}

// AddFlags registers --cpu-profile and --mem-profile on cmd.
func (p *Profiler) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&p.cpuProfilePath, "cpu-profile", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&p.memProfilePath, "mem-profile", "", "Write memory profile to file")
}

// PreRun starts the CPU profile if requested. Use as a
// PersistentPreRunE hook.
func (p *Profiler) PreRun(cmd *cobra.Command, args []string) error {
	if p.cpuProfilePath == "" {
		return nil
	}
	f, err := os.Create(p.cpuProfilePath)
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return fmt.Errorf("could not start CPU profile: %w", err)
	}
	p.cpuProfileFile = f
	return nil
}

// PostRun finalizes the profiles. Use as a PersistentPostRun hook.
func (p *Profiler) PostRun(cmd *cobra.Command, args []string) {
	if p.cpuProfileFile != nil {
		pprof.StopCPUProfile()
		p.cpuProfileFile.Close()
		fmt.Fprintf(os.Stderr, "CPU profile written to %s\n", p.cpuProfilePath)
	}
	if p.memProfilePath != "" {
		f, err := os.Create(p.memProfilePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not create memory profile: %v\n", err)
			return
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "could not write memory profile: %v\n", err)
			return
		}
		fmt.Fprintf(os.Stderr, "Memory profile written to %s\n", p.memProfilePath)
	}
}
