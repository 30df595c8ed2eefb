// internal/cli/run.go
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var runBackground bool

var runCmd = &cobra.Command{
	Use:   "run <prefix> <executable> [args...]",
	Short: "Run a Windows application inside a prefix",
	Long: `Run a Windows application inside a prefix.

Examples:
  winvora run games "C:\Program Files\Game\game.exe"
  winvora run tools regedit --background`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := mgr.RunApplication(context.Background(), args[0], args[1], args[2:], runBackground)
		if err != nil {
			return err
		}
		if runBackground {
			fmt.Printf("✓ Started %s in %s\n", args[1], args[0])
			return nil
		}
		if out != "" {
			fmt.Print(out)
		}
		return nil
	},
}

var winecfgCmd = &cobra.Command{
	Use:   "winecfg <prefix>",
	Short: "Open the Wine configuration tool for a prefix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := mgr.Winecfg(args[0]); err != nil {
			return err
		}
		fmt.Printf("✓ Opened winecfg for %s\n", args[0])
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&runBackground, "background", false, "detach and return immediately")
}
