// internal/cli/version.go
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show winvora and Wine versions",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("winvora %s\n", rootCmd.Version)

		if !mgr.RuntimeAvailable() {
			fmt.Println("wine: not installed")
			return nil
		}
		v, err := mgr.RuntimeVersion(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("wine %s\n", v)
		return nil
	},
}
