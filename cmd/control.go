package cmd

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pitstop/sync/internal/pidfile"
	"github.com/pitstop/sync/pkg/paths"
)

// NewStopCmd returns the stop command.
func NewStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop a running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			pidPath := paths.PidFilePath()

			running, pid, err := pidfile.IsRunning(pidPath)
			if err != nil {
				return fmt.Errorf("error checking status: %w", err)
			}
			if !running {
				fmt.Println("pitstopd is not running")
				return nil
			}

			process, err := os.FindProcess(pid)
			if err != nil {
				return fmt.Errorf("failed to find process %d: %w", pid, err)
			}
			if err := process.Signal(syscall.SIGTERM); err != nil {
				return fmt.Errorf("failed to signal process %d: %w", pid, err)
			}
			fmt.Printf("Sent SIGTERM to pitstopd (pid %d)\n", pid)
			return nil
		},
	}
}

// NewStatusCmd returns the status command.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether the server is running",
		RunE: func(cmd *cobra.Command, args []string) error {
			running, pid, err := pidfile.IsRunning(paths.PidFilePath())
			if err != nil {
				return fmt.Errorf("error checking status: %w", err)
			}
			if running {
				fmt.Printf("pitstopd is running (pid %d)\n", pid)
			} else {
				fmt.Println("pitstopd is not running")
			}
			return nil
		},
	}
}
