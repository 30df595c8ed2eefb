// internal/cli/ps.go
package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var killAll bool

var psCmd = &cobra.Command{
	Use:   "ps",
	Short: "List running Wine processes",
	RunE: func(cmd *cobra.Command, args []string) error {
		processes, err := mgr.Processes.List()
		if err != nil {
			return err
		}
		if len(processes) == 0 {
			fmt.Println("No Wine processes running")
			return nil
		}

		fmt.Printf("%-8s %s\n", "PID", "COMMAND")
		for _, p := range processes {
			fmt.Printf("%-8d %s\n", p.PID, p.Command)
		}
		return nil
	},
}

var killCmd = &cobra.Command{
	Use:   "kill [pid]",
	Short: "Terminate Wine processes",
	Long: `Terminate Wine processes.

Examples:
  winvora kill 12345
  winvora kill --all`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if killAll {
			killed, err := mgr.Processes.KillAll()
			if err != nil {
				return err
			}
			fmt.Printf("✓ Terminated %d processes\n", killed)
			return nil
		}

		if len(args) == 0 {
			return fmt.Errorf("a pid or --all is required")
		}
		pid, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid pid: %q", args[0])
		}
		if err := mgr.Processes.Kill(pid); err != nil {
			return err
		}
		fmt.Printf("✓ Terminated %d\n", pid)
		return nil
	},
}

func init() {
	killCmd.Flags().BoolVar(&killAll, "all", false, "terminate every Wine process")
}
