//go:build linux

// pkg/proc/proc_linux.go
package proc

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// listProcesses walks /proc directly instead of shelling out to ps
func listProcesses() ([]Process, error) {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, err
	}

	var processes []Process
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}

		// Processes may exit between the ReadDir and this read
		data, err := os.ReadFile(filepath.Join("/proc", entry.Name(), "cmdline"))
		if err != nil || len(data) == 0 {
			continue
		}

		command := strings.TrimRight(strings.ReplaceAll(string(data), "\x00", " "), " ")
		processes = append(processes, Process{PID: pid, Command: command})
	}
	return processes, nil
}
