// Package pidlock inspects the daemon's PID lock file. Presence of the file
// never implies the daemon is alive: every caller confirms with a signal-0
// probe, and a lock whose process is gone is treated as stale.
package pidlock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"voxtype/internal/fileutil"
)

// FileName is the lock file name inside the runtime directory.
const FileName = "pid"

// ErrInvalidPID reports a lock file whose content is not a positive integer.
var ErrInvalidPID = errors.New("invalid pid in lock file")

// Status classifies a lock file after probing.
type Status int

const (
	Absent Status = iota
	Alive
	Stale
)

func (s Status) String() string {
	switch s {
	case Alive:
		return "alive"
	case Stale:
		return "stale"
	default:
		return "absent"
	}
}

// Lock is the parsed content of a PID lock file.
type Lock struct {
	PID  int
	Path string
}

// Path returns the lock file location for a runtime directory.
func Path(runtimeDir string) string {
	return filepath.Join(runtimeDir, FileName)
}

// Read parses the lock at path. A missing file yields an error matching os.ErrNotExist.
func Read(path string) (Lock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Lock{Path: path}, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return Lock{Path: path}, fmt.Errorf("%w: %q", ErrInvalidPID, strings.TrimSpace(string(data)))
	}
	return Lock{PID: pid, Path: path}, nil
}

// Write records pid at path atomically.
func Write(path string, pid int) error {
	return fileutil.WriteFileAtomic(path, []byte(strconv.Itoa(pid)+"\n"), 0o644)
}

// ProcessAlive probes pid with signal 0. EPERM means the process exists but
// belongs to someone else, which still counts as alive.
func ProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}

// Check reads and probes the lock at path. A stale lock is removed before
// Check returns. Unparseable content is reported as an error and left in place.
func Check(path string) (Lock, Status, error) {
	lock, err := Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return lock, Absent, nil
		}
		return lock, Absent, err
	}
	if ProcessAlive(lock.PID) {
		return lock, Alive, nil
	}
	if err := fileutil.RemoveIfExists(path); err != nil {
		return lock, Stale, fmt.Errorf("remove stale pid file: %w", err)
	}
	return lock, Stale, nil
}

// Running reports whether the lock at path names a live process. It never
// modifies the lock file.
func Running(path string) bool {
	lock, err := Read(path)
	if err != nil {
		return false
	}
	return ProcessAlive(lock.PID)
}
