package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// pidFile is a PID file optionally held under an exclusive flock
type pidFile struct {
	path   string
	file   *os.File
	locked bool
}

// managePIDFile writes the current PID to path. With lock set, a second instance
// pointing at the same file fails to start while the first holds the lock; a file
// left behind by a dead process is reused. The returned cleanup must run on exit.
func managePIDFile(path string, lock bool) (func(), error) {
	p, err := openPIDFile(path, lock)
	if err != nil {
		return nil, err
	}

	if lock {
		if err := p.lock(); err != nil {
			p.file.Close()
			return nil, err
		}
	}

	if err := p.write(os.Getpid()); err != nil {
		p.release()
		return nil, err
	}

	return p.release, nil
}

// openPIDFile opens path for writing. Without locking an existing file is
// truncated right away; with locking the content stays until the lock is held.
func openPIDFile(path string, lock bool) (*pidFile, error) {
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if lock {
		flags = os.O_CREATE | os.O_RDWR
	}

	file, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("cannot open PID file: %w", err)
	}
	return &pidFile{path: path, file: file}, nil
}

func (p *pidFile) lock() error {
	err := syscall.Flock(int(p.file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
	if errors.Is(err, syscall.EWOULDBLOCK) {
		if pid, perr := readPID(p.file); perr == nil {
			return fmt.Errorf("cannot acquire lock: another instance is running (pid %d)", pid)
		}
		return fmt.Errorf("cannot acquire lock: another instance is running")
	}
	if err != nil {
		return fmt.Errorf("lock failed: %w", err)
	}
	p.locked = true
	return nil
}

// write replaces the file content with pid
func (p *pidFile) write(pid int) error {
	if err := p.file.Truncate(0); err != nil {
		return fmt.Errorf("cannot truncate PID file: %w", err)
	}
	if _, err := p.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("cannot rewind PID file: %w", err)
	}
	if _, err := fmt.Fprintf(p.file, "%d\n", pid); err != nil {
		return fmt.Errorf("cannot write PID: %w", err)
	}
	if err := p.file.Sync(); err != nil {
		return fmt.Errorf("cannot sync PID file: %w", err)
	}
	return nil
}

func (p *pidFile) release() {
	if p.locked {
		syscall.Flock(int(p.file.Fd()), syscall.LOCK_UN)
	}
	p.file.Close()
	os.Remove(p.path)
}

// readPID parses the PID stored in an open PID file
func readPID(f *os.File) (int, error) {
	data, err := io.ReadAll(io.NewSectionReader(f, 0, 64))
	if err != nil {
		return 0, fmt.Errorf("cannot read PID file: %w", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("corrupted PID file (contains: %q)", string(data))
	}
	return pid, nil
}
