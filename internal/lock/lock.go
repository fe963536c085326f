// Package lock keeps a single TUI instance running per config directory.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/dailies/internal/constants"
	"github.com/julianstephens/dailies/internal/logger"
)

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid
	nowFunc         = time.Now
)

// ErrAlreadyRunning means another live dailies process holds the lock
var ErrAlreadyRunning = errors.New("dailies is already running")

// Lock is a held lockfile
type Lock struct {
	path string
	pid  int
}

// Path returns the lockfile location inside dir
func Path(dir string) string {
	return filepath.Join(dir, constants.TUILockfileName)
}

// Acquire writes a lockfile recording this process. A lockfile left behind
// by a process that is gone, or that is not dailies, is replaced.
func Acquire(dir string) (*Lock, error) {
	path := Path(dir)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	if pid, err := holder(path); err == nil {
		return nil, fmt.Errorf("%w (pid %d)", ErrAlreadyRunning, pid)
	} else if !errors.Is(err, os.ErrNotExist) {
		logger.Debug("Replacing stale lockfile", "path", path, "reason", err)
	}

	pid := getpidFunc()
	content := fmt.Sprintf("%d|%d", pid, nowFunc().Unix())
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return nil, fmt.Errorf("failed to write lockfile: %w", err)
	}
	return &Lock{path: path, pid: pid}, nil
}

// Release removes the lockfile if it still belongs to this process.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	pid, err := readPID(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err == nil && pid != l.pid {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove lockfile: %w", err)
	}
	return nil
}

// holder returns the pid of a live dailies process named in the lockfile.
// Any error means the lock is free.
func holder(path string) (int, error) {
	pid, err := readPID(path)
	if err != nil {
		return 0, err
	}
	if pid == getpidFunc() {
		return 0, errors.New("lockfile names this process")
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return 0, fmt.Errorf("process %d not running", pid)
	}
	if !strings.HasPrefix(process.Executable(), constants.AppName) {
		return 0, fmt.Errorf("process with PID %d is not %s (is %s)", pid, constants.AppName, process.Executable())
	}
	return pid, nil
}

func readPID(path string) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 2 {
		return 0, errors.New("lockfile is malformed")
	}
	pid, err := strconv.Atoi(parts[0])
	if err != nil || pid <= 0 {
		return 0, errors.New("invalid process ID in lockfile")
	}
	return pid, nil
}
