// pkg/proc/supervisor.go
package proc

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/winvora/winvora/pkg/errdefs"
)

// Process is one running runtime process on the host
type Process struct {
	PID     int
	Command string
}

// Config configures the process supervisor
type Config struct {
	Debug  bool
	Logger *log.Logger
}

// Supervisor enumerates and terminates runtime processes host-wide. It works
// on live process tables, so every answer is a snapshot that may be stale by
// the time the caller acts on it.
type Supervisor struct {
	logger *log.Logger
}

// NewSupervisor creates a process supervisor
func NewSupervisor(cfg *Config) *Supervisor {
	if cfg == nil {
		cfg = &Config{}
	}

	logger := cfg.Logger
	if logger == nil {
		if cfg.Debug {
			logger = log.New(os.Stdout, "[PROC] ", log.LstdFlags)
		} else {
			logger = log.New(io.Discard, "", 0)
		}
	}

	return &Supervisor{logger: logger}
}

// List returns every runtime process currently visible, including the
// background server and device workers
func (s *Supervisor) List() ([]Process, error) {
	all, err := listProcesses()
	if err != nil {
		return nil, fmt.Errorf("listing processes: %w", err)
	}

	var matched []Process
	for _, p := range all {
		if isRuntimeProcess(p.Command) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// Kill sends SIGTERM to one process
func (s *Supervisor) Kill(pid int) error {
	if pid <= 0 {
		return fmt.Errorf("invalid pid: %d", pid)
	}

	s.logger.Printf("Terminating pid %d", pid)
	err := unix.Kill(pid, unix.SIGTERM)
	if err == nil {
		return nil
	}

	resource := fmt.Sprintf("pid %d", pid)
	if errors.Is(err, unix.ESRCH) {
		return &errdefs.Error{Op: "kill process", Resource: resource, Err: errdefs.ErrNotFound}
	}
	if errors.Is(err, unix.EPERM) {
		return &errdefs.Error{Op: "kill process", Resource: resource, Err: errdefs.ErrPermission}
	}
	return &errdefs.Error{Op: "kill process", Resource: resource, Err: err}
}

// KillAll terminates every visible runtime process, best-effort. Processes
// that vanish mid-sweep are not errors; zero matches is a success. Returns
// how many processes were signalled.
func (s *Supervisor) KillAll() (int, error) {
	processes, err := s.List()
	if err != nil {
		return 0, err
	}

	killed := 0
	for _, p := range processes {
		if err := s.Kill(p.PID); err != nil {
			if errors.Is(err, errdefs.ErrNotFound) {
				continue
			}
			s.logger.Printf("Could not terminate pid %d: %v", p.PID, err)
			continue
		}
		killed++
	}

	s.logger.Printf("Terminated %d of %d runtime processes", killed, len(processes))
	return killed, nil
}

// isRuntimeProcess matches by executable basename: wine, wine64, wineserver
// and the winedevice workers. Matching the full command line would sweep up
// editors with "wine" in an argument.
func isRuntimeProcess(command string) bool {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return false
	}

	base := filepath.Base(fields[0])
	switch base {
	case "wine", "wine64", "wineserver", "wineserver64":
		return true
	}
	return strings.HasPrefix(base, "winedevice")
}
