package util

import (
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/mitchellh/go-ps"
)

// EnsureDirExists creates the given directory path if it doesn't already exist
func EnsureDirExists(path string) error {
	if err := os.MkdirAll(path, os.ModePerm); err != nil {
		return fmt.Errorf("ensure directory exists (%s): %w", path, err)
	}

	return nil
}

// FileExists checks if a file exists and is not a directory before we
// try using it to prevent further errors.
func FileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// SetupCloseHandler creates a 'listener' on a new goroutine which will notify the
// program if it receives an interrupt from the OS
func SetupCloseHandler() chan os.Signal {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	return c
}

// ProcessName returns the executable name of the process with the given pid.
// pid 0 (system sounds on windows) and processes that have already exited yield an empty name
func ProcessName(pid uint32) (string, error) {
	if pid == 0 {
		return "", nil
	}

	process, err := ps.FindProcess(int(pid))
	if err != nil {
		return "", fmt.Errorf("find process %d: %w", pid, err)
	}

	// go-ps returns a nil process without an error when the pid is gone
	if process == nil {
		return "", nil
	}

	return process.Executable(), nil
}

// NormalizeScalar "trims" the given float32 to 2 points of precision (e.g. 0.15442 -> 0.15)
func NormalizeScalar(v float32) float32 {
	return float32(math.Round(float64(v)*100) / 100.0)
}
