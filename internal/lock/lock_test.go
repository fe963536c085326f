package lock

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/mitchellh/go-ps"
)

type fakeProcess struct {
	pid  int
	exec string
}

func (p fakeProcess) Pid() int           { return p.pid }
func (p fakeProcess) PPid() int          { return 1 }
func (p fakeProcess) Executable() string { return p.exec }

// withProcesses swaps the process table and pid for the test
func withProcesses(t *testing.T, self int, table map[int]string) {
	t.Helper()
	oldFind, oldPid := findProcessFunc, getpidFunc
	t.Cleanup(func() {
		findProcessFunc, getpidFunc = oldFind, oldPid
	})
	getpidFunc = func() int { return self }
	findProcessFunc = func(pid int) (ps.Process, error) {
		exec, ok := table[pid]
		if !ok {
			return nil, nil
		}
		return fakeProcess{pid: pid, exec: exec}, nil
	}
}

func TestAcquireRelease(t *testing.T) {
	dir := t.TempDir()
	withProcesses(t, 100, nil)

	l, err := Acquire(dir)
	if err != nil {
		t.Fatalf("Acquire() error: %v", err)
	}
	content, err := os.ReadFile(Path(dir))
	if err != nil {
		t.Fatalf("lockfile not written: %v", err)
	}
	if !strings.HasPrefix(string(content), "100|") {
		t.Errorf("lockfile content = %q", content)
	}

	if err := l.Release(); err != nil {
		t.Fatalf("Release() error: %v", err)
	}
	if _, err := os.Stat(Path(dir)); !os.IsNotExist(err) {
		t.Error("lockfile still present after Release()")
	}
	if err := l.Release(); err != nil {
		t.Errorf("second Release() error: %v", err)
	}
}

func TestAcquireWhileRunning(t *testing.T) {
	dir := t.TempDir()
	withProcesses(t, 100, map[int]string{200: "dailies"})
	if err := os.WriteFile(Path(dir), []byte("200|1700000000"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Acquire(dir); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("Acquire() error = %v, want ErrAlreadyRunning", err)
	}
}

func TestAcquireReplacesStaleLock(t *testing.T) {
	tests := []struct {
		name    string
		content string
		table   map[int]string
	}{
		{"dead process", "200|1700000000", nil},
		{"other executable", "200|1700000000", map[int]string{200: "bash"}},
		{"malformed", "garbage", nil},
		{"bad pid", "abc|1700000000", nil},
		{"own pid", "100|1700000000", map[int]string{100: "dailies"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			withProcesses(t, 100, tt.table)
			if err := os.WriteFile(Path(dir), []byte(tt.content), 0o600); err != nil {
				t.Fatal(err)
			}

			l, err := Acquire(dir)
			if err != nil {
				t.Fatalf("Acquire() error: %v", err)
			}
			pid, err := readPID(Path(dir))
			if err != nil || pid != 100 {
				t.Errorf("lockfile pid = %d, %v; want 100", pid, err)
			}
			_ = l.Release()
		})
	}
}

func TestReleaseKeepsForeignLock(t *testing.T) {
	dir := t.TempDir()
	withProcesses(t, 100, nil)

	l, err := Acquire(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(Path(dir), []byte(strconv.Itoa(300)+"|1700000000"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := l.Release(); err != nil {
		t.Fatalf("Release() error: %v", err)
	}
	if _, err := os.Stat(Path(dir)); err != nil {
		t.Error("Release() removed a lockfile owned by another process")
	}
}
