//go:build !linux

// pkg/proc/proc_other.go
package proc

import (
	"os/exec"
	"strconv"
	"strings"
)

// listProcesses falls back to ps where /proc is unavailable
func listProcesses() ([]Process, error) {
	out, err := exec.Command("ps", "-axo", "pid=,args=").Output()
	if err != nil {
		return nil, err
	}

	var processes []Process
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		pid, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}
		processes = append(processes, Process{PID: pid, Command: strings.Join(fields[1:], " ")})
	}
	return processes, nil
}
