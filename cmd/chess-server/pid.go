package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// pidFile is a written PID file, optionally held under an exclusive flock
type pidFile struct {
	path   string
	file   *os.File
	locked bool
}

// acquirePIDFile writes the current PID to path. With lock set, a second
// instance pointing at the same path fails instead of overwriting it.
func acquirePIDFile(path string, lock bool) (*pidFile, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if !os.IsExist(err) {
			return nil, fmt.Errorf("cannot create PID file: %w", err)
		}

		if lock {
			if err := checkStalePID(path); err != nil {
				return nil, err
			}
		}

		file, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return nil, fmt.Errorf("cannot open PID file: %w", err)
		}
	}

	p := &pidFile{path: path, file: file}

	if lock {
		if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
			file.Close()
			if errors.Is(err, syscall.EWOULDBLOCK) {
				return nil, fmt.Errorf("cannot acquire lock: another instance is running")
			}
			return nil, fmt.Errorf("lock failed: %w", err)
		}
		p.locked = true
	}

	if _, err := fmt.Fprintf(file, "%d\n", os.Getpid()); err != nil {
		p.Release()
		return nil, fmt.Errorf("cannot write PID: %w", err)
	}
	if err := file.Sync(); err != nil {
		p.Release()
		return nil, fmt.Errorf("cannot sync PID file: %w", err)
	}

	return p, nil
}

// Release unlocks and removes the PID file
func (p *pidFile) Release() {
	if p.locked {
		syscall.Flock(int(p.file.Fd()), syscall.LOCK_UN)
	}
	p.file.Close()
	os.Remove(p.path)
}

// checkStalePID inspects an existing PID file. Any readable PID is refused;
// the error says whether its process is still alive.
func checkStalePID(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read existing PID file: %w", err)
	}

	pidStr := strings.TrimSpace(string(data))
	pid, err := strconv.Atoi(pidStr)
	if err != nil {
		return fmt.Errorf("corrupted PID file (contains: %q)", pidStr)
	}

	// FindProcess never fails on Unix; signal 0 probes for existence
	proc, _ := os.FindProcess(pid)
	if err = proc.Signal(syscall.Signal(0)); err != nil {
		if errors.Is(err, os.ErrProcessDone) || errors.Is(err, syscall.ESRCH) {
			return fmt.Errorf("stale PID file found for defunct process %d", pid)
		}
		return fmt.Errorf("process %d exists but cannot verify ownership: %v", pid, err)
	}

	return fmt.Errorf("stale PID file: process %d is running but not holding lock", pid)
}
