// Package pidfile provides PID file management for pitstopd.
package pidfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// Acquire writes the current PID to the file. It returns an error if
// another instance is already running.
func Acquire(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create pid directory: %w", err)
	}

	if content, err := os.ReadFile(path); err == nil {
		pidStr := strings.TrimSpace(string(content))
		if pid, err := strconv.Atoi(pidStr); err == nil {
			if isAlive(pid) {
				return fmt.Errorf("pitstopd already running with PID %d", pid)
			}
			// Process is dead, cleanup stale file
			_ = os.Remove(path)
		}
	}

	pid := os.Getpid()
	if err := os.WriteFile(path, []byte(strconv.Itoa(pid)), 0644); err != nil {
		return fmt.Errorf("failed to write pid file: %w", err)
	}

	return nil
}

// Release removes the PID file.
func Release(path string) error {
	return os.Remove(path)
}

// Read returns the PID from the file, or an error if not found/invalid.
func Read(path string) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(content)))
}

// IsRunning checks if the server described by the pidfile is active.
func IsRunning(path string) (bool, int, error) {
	pid, err := Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, 0, nil
		}
		return false, 0, err
	}
	return isAlive(pid), pid, nil
}

// isAlive sends signal 0, which probes for existence without delivering
// anything. EPERM still means the process exists.
func isAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = process.Signal(syscall.Signal(0))
	return err == nil || os.IsPermission(err)
}
