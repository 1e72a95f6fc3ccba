package server

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

var ErrNotRunning = errors.New("server is not running")

// WritePidFile records the current process id. It refuses to overwrite the
// pid file of a live server.
func WritePidFile(path string) error {
	if path == "" {
		return nil
	}
	if pid, ok := RunningPid(path); ok {
		return fmt.Errorf("server is already running with pid %d", pid)
	}
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644)
}

func RemovePidFile(path string) {
	if path != "" {
		_ = os.Remove(path)
	}
}

// RunningPid reports the pid stored in path if that process is alive.
func RunningPid(path string) (int, bool) {
	if path == "" {
		return 0, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return 0, false
	}
	// signal 0 only checks that the process exists
	if err := process.Signal(syscall.Signal(0)); err != nil {
		return 0, false
	}
	return pid, true
}

// Stop asks the server recorded in path to shut down gracefully.
func Stop(path string) (int, error) {
	pid, ok := RunningPid(path)
	if !ok {
		return 0, ErrNotRunning
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return 0, err
	}
	if err := process.Signal(syscall.SIGTERM); err != nil {
		return 0, fmt.Errorf("signal pid %d: %w", pid, err)
	}
	return pid, nil
}
