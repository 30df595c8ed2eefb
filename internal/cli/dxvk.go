// internal/cli/dxvk.go
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var dxvkVersion string

var dxvkCmd = &cobra.Command{
	Use:   "dxvk",
	Short: "Manage the DXVK graphics layer",
}

var dxvkInstallCmd = &cobra.Command{
	Use:   "install <prefix>",
	Short: "Install DXVK into a prefix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, ok := mgr.Prefixes.Info(args[0])
		if !ok {
			return fmt.Errorf("unknown prefix: %s", args[0])
		}

		result, err := mgr.Graphics.Install(context.Background(), info.Path, dxvkVersion, showProgress)
		if err != nil {
			return err
		}
		for _, warning := range result.Warnings {
			fmt.Printf("! %s\n", warning)
		}
		fmt.Printf("✓ DXVK %s installed into %s\n", result.Version, args[0])
		return nil
	},
}

var dxvkUninstallCmd = &cobra.Command{
	Use:   "uninstall <prefix>",
	Short: "Remove DXVK from a prefix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, ok := mgr.Prefixes.Info(args[0])
		if !ok {
			return fmt.Errorf("unknown prefix: %s", args[0])
		}
		if err := mgr.Graphics.Uninstall(info.Path); err != nil {
			return err
		}
		fmt.Printf("✓ DXVK removed from %s\n", args[0])
		return nil
	},
}

var dxvkStatusCmd = &cobra.Command{
	Use:   "status <prefix>",
	Short: "Show whether DXVK is installed in a prefix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, ok := mgr.Prefixes.Info(args[0])
		if !ok {
			return fmt.Errorf("unknown prefix: %s", args[0])
		}
		if version, ok := mgr.Graphics.InstalledVersion(info.Path); ok {
			fmt.Printf("DXVK %s is installed\n", version)
		} else {
			fmt.Println("DXVK is not installed")
		}
		return nil
	},
}

func init() {
	dxvkInstallCmd.Flags().StringVar(&dxvkVersion, "version", "", "DXVK version to install")

	dxvkCmd.AddCommand(dxvkInstallCmd)
	dxvkCmd.AddCommand(dxvkUninstallCmd)
	dxvkCmd.AddCommand(dxvkStatusCmd)
}
