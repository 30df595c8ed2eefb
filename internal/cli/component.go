// internal/cli/component.go
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/winvora/winvora/pkg/winetricks"
)

var componentCmd = &cobra.Command{
	Use:   "component",
	Short: "Install components into prefixes",
}

var componentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known components",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Runtime packages:")
		for _, c := range winetricks.DLLPackages() {
			fmt.Printf("  %-16s %s\n", c.Name, c.Description)
		}
		fmt.Println("\nFonts:")
		for _, c := range winetricks.FontPackages() {
			fmt.Printf("  %-16s %s\n", c.Name, c.Description)
		}
		return nil
	},
}

var componentInstallCmd = &cobra.Command{
	Use:   "install <prefix> <component...>",
	Short: "Install one or more components into a prefix",
	Long: `Install one or more components into a prefix.

Examples:
  winvora component install games vcrun2019 d3dx9
  winvora component install office corefonts`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, ok := mgr.Prefixes.Info(args[0])
		if !ok {
			return fmt.Errorf("unknown prefix: %s", args[0])
		}

		ctx := context.Background()
		for _, component := range args[1:] {
			fmt.Printf("Installing %s...\n", component)
			if err := mgr.Components.Install(ctx, info.Path, component); err != nil {
				fmt.Fprintf(os.Stderr, "✗ Failed to install %s: %v\n", component, err)
				continue
			}
			fmt.Printf("✓ Installed %s\n", component)
		}
		return nil
	},
}

func init() {
	componentCmd.AddCommand(componentListCmd)
	componentCmd.AddCommand(componentInstallCmd)
}
