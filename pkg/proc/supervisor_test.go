// pkg/proc/supervisor_test.go
package proc

import (
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/winvora/winvora/pkg/errdefs"
)

func TestIsRuntimeProcess(t *testing.T) {
	matching := []string{
		`wine C:\Games\game.exe`,
		"/opt/wine-staging/bin/wine64 app.exe",
		"/usr/bin/wineserver",
		"winedevice.exe --manager",
	}
	for _, command := range matching {
		require.True(t, isRuntimeProcess(command), command)
	}

	nonMatching := []string{
		"",
		"vim wine-notes.txt",
		"grep wine /var/log/syslog",
		"/usr/bin/winetricks --unattended vcrun2019",
	}
	for _, command := range nonMatching {
		require.False(t, isRuntimeProcess(command), command)
	}
}

func TestKillRejectsInvalidPid(t *testing.T) {
	s := NewSupervisor(nil)
	require.Error(t, s.Kill(0))
	require.Error(t, s.Kill(-4))
}

func TestKillUnknownPid(t *testing.T) {
	s := NewSupervisor(nil)
	err := s.Kill(999999999)
	require.ErrorIs(t, err, errdefs.ErrNotFound)
}

func TestListAndKillSpottedProcess(t *testing.T) {
	// Masquerade a sleeper as the runtime server so it shows up in List
	dir := t.TempDir()
	sleepBin, err := exec.LookPath("sleep")
	require.NoError(t, err)
	data, err := os.ReadFile(sleepBin)
	require.NoError(t, err)
	fake := filepath.Join(dir, "wineserver")
	require.NoError(t, os.WriteFile(fake, data, 0755))

	cmd := exec.Command(fake, "30")
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	require.NoError(t, cmd.Start())
	defer func() {
		_ = cmd.Process.Kill()
		_, _ = cmd.Process.Wait()
	}()

	s := NewSupervisor(nil)

	deadline := time.Now().Add(2 * time.Second)
	found := false
	for time.Now().Before(deadline) {
		processes, err := s.List()
		require.NoError(t, err)
		for _, p := range processes {
			if p.PID == cmd.Process.Pid {
				found = true
			}
		}
		if found {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	require.True(t, found, "spawned wineserver not listed")

	require.NoError(t, s.Kill(cmd.Process.Pid))
}
