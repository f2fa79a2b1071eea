// Package paths resolves the directories pitstopd keeps runtime files
// in.
//
// Resolution order:
// 1. PITSTOP_HOME (portable root) → $PITSTOP_HOME/{data,state}
// 2. XDG env vars → $XDG_*_HOME/pitstop
// 3. Platform defaults → ~/.local/share/pitstop, ~/.local/state/pitstop
package paths

import (
	"os"
	"path/filepath"
)

func getDataHome() string {
	if home := os.Getenv("PITSTOP_HOME"); home != "" {
		return filepath.Join(home, "data")
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "pitstop")
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".local", "share", "pitstop")
	}
	return ""
}

func getStateHome() string {
	if home := os.Getenv("PITSTOP_HOME"); home != "" {
		return filepath.Join(home, "state")
	}
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "pitstop")
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".local", "state", "pitstop")
	}
	return ""
}

// DataDir returns the directory for durable files (the default mirror
// database lives here).
func DataDir() string {
	return getDataHome()
}

// PidFilePath returns the path of the server pid file.
func PidFilePath() string {
	return filepath.Join(getStateHome(), "pitstopd.pid")
}
