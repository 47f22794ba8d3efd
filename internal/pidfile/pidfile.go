package pidfile

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"golang.org/x/sys/unix"
)

// ErrAlreadyRunning is returned by Acquire if another process holds the lock
var ErrAlreadyRunning = errors.New("server is already running")

// PidFile is an exclusively locked file containing the pid of this process.
// The lock is released when the file is closed or the process exits.
type PidFile struct {
	path string
	file *os.File
}

// Acquire opens (or creates) path, takes a non-blocking exclusive lock on it
// and replaces its content with the pid of the current process.
func Acquire(path string) (*PidFile, error) {
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|unix.O_CLOEXEC, 0644)
	if err != nil {
		return nil, fmt.Errorf("unable to open pid file %s: %w", path, err)
	}

	err = unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
	if err != nil {
		_ = file.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, fmt.Errorf("%w (pid file: %s)", ErrAlreadyRunning, path)
		}
		return nil, fmt.Errorf("unable to lock pid file %s: %w", path, err)
	}

	pidFile := &PidFile{path: path, file: file}
	if err = pidFile.writePid(os.Getpid()); err != nil {
		_ = file.Close()
		return nil, err
	}
	return pidFile, nil
}

func (p *PidFile) writePid(pid int) error {
	if err := p.file.Truncate(0); err != nil {
		return fmt.Errorf("unable to truncate pid file %s: %w", p.path, err)
	}
	if _, err := p.file.WriteAt([]byte(strconv.Itoa(pid)+"\n"), 0); err != nil {
		return fmt.Errorf("unable to write pid file %s: %w", p.path, err)
	}
	return p.file.Sync()
}

func (p *PidFile) Path() string {
	return p.path
}

// Inherit takes over a pid file locked by the parent process and passed
// down as fd. The lock stays in place, the pid is replaced by the one of
// the current process.
func Inherit(fd uintptr, path string) (*PidFile, error) {
	file := os.NewFile(fd, path)
	if file == nil {
		return nil, fmt.Errorf("invalid pid file descriptor %d", fd)
	}
	unix.CloseOnExec(int(fd))

	// converts the inherited lock, fails if fd is not the locked file
	err := unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
	if err != nil {
		_ = file.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, fmt.Errorf("%w (pid file: %s)", ErrAlreadyRunning, path)
		}
		return nil, fmt.Errorf("unable to lock pid file %s: %w", path, err)
	}

	pidFile := &PidFile{path: path, file: file}
	if err = pidFile.writePid(os.Getpid()); err != nil {
		_ = file.Close()
		return nil, err
	}
	return pidFile, nil
}

// File returns the locked file, e.g. to pass it on to a child process
func (p *PidFile) File() *os.File {
	return p.file
}

// Close closes this process' descriptor without removing the file.
// The lock is kept as long as another process holds a copy of it.
func (p *PidFile) Close() error {
	return p.file.Close()
}

// Release unlocks and removes the pid file
func (p *PidFile) Release() error {
	closeErr := p.file.Close()
	removeErr := os.Remove(p.path)
	if errors.Is(removeErr, os.ErrNotExist) {
		removeErr = nil
	}
	return errors.Join(closeErr, removeErr)
}
