package lifecycle

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// IsRunning reports whether pidFile exists and names a live process
func IsRunning(pidFile string) bool {
	data, err := os.ReadFile(pidFile)
	if err != nil {
		return false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = process.Signal(syscall.Signal(0))
	// EPERM: alive but owned by another user
	return err == nil || errors.Is(err, syscall.EPERM)
}

// RemovePIDFile deletes pidFile. A missing file is not an error.
func RemovePIDFile(pidFile string) error {
	if err := os.Remove(pidFile); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
