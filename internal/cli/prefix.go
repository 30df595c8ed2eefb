// internal/cli/prefix.go
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/winvora/winvora"
	"github.com/winvora/winvora/pkg/wine"
)

var (
	createWindowsVersion string
	createArch           string
)

var prefixCmd = &cobra.Command{
	Use:   "prefix",
	Short: "Manage Wine prefixes",
}

var prefixCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create and initialize a new prefix",
	Long: `Create and initialize a new prefix.

Examples:
  winvora prefix create games
  winvora prefix create legacy --windows-version=winxp --arch=win32`,
	Args: cobra.ExactArgs(1),
	RunE: runPrefixCreate,
}

var prefixDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a prefix and everything in it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := mgr.Prefixes.Delete(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("✓ Prefix %s deleted\n", args[0])
		return nil
	},
}

var prefixListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known prefixes",
	RunE: func(cmd *cobra.Command, args []string) error {
		infos := mgr.Prefixes.List()
		if len(infos) == 0 {
			fmt.Println("No prefixes found")
			return nil
		}

		fmt.Printf("%-20s %-10s %-8s %s\n", "NAME", "WINDOWS", "ARCH", "STATE")
		for _, info := range infos {
			fmt.Printf("%-20s %-10s %-8s %s\n", info.Name, info.WindowsVersion, info.Architecture, info.State)
		}
		return nil
	},
}

var prefixInfoCmd = &cobra.Command{
	Use:   "info <name>",
	Short: "Show details of one prefix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, ok := mgr.Prefixes.Info(args[0])
		if !ok {
			return fmt.Errorf("unknown prefix: %s", args[0])
		}

		fmt.Printf("Name:            %s\n", info.Name)
		fmt.Printf("Path:            %s\n", info.Path)
		fmt.Printf("Windows version: %s\n", info.WindowsVersion)
		fmt.Printf("Architecture:    %s\n", info.Architecture)
		fmt.Printf("State:           %s\n", info.State)
		fmt.Printf("Created:         %s\n", info.CreatedAt)
		if binary, ok := mgr.Versions.AssignedBinary(info.Name); ok {
			fmt.Printf("Wine binary:     %s\n", binary)
		}
		for k, v := range info.EnvVars {
			fmt.Printf("Env:             %s=%s\n", k, v)
		}
		return nil
	},
}

var prefixReconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Rebuild the prefix registry from disk",
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := mgr.Prefixes.Reconcile()
		if err != nil {
			return err
		}
		fmt.Printf("✓ Registry rebuilt, %d prefixes known\n", len(names))
		return nil
	},
}

var prefixEnvCmd = &cobra.Command{
	Use:   "env <name> [KEY=VALUE...]",
	Short: "Replace a prefix's environment overrides",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env := make(map[string]string)
		for _, pair := range args[1:] {
			key, value, ok := strings.Cut(pair, "=")
			if !ok || key == "" {
				return fmt.Errorf("invalid assignment: %q", pair)
			}
			env[key] = value
		}

		if err := mgr.Prefixes.SetEnvVars(args[0], env); err != nil {
			return err
		}
		fmt.Printf("✓ Stored %d environment overrides for %s\n", len(env), args[0])
		return nil
	},
}

func init() {
	prefixCreateCmd.Flags().StringVar(&createWindowsVersion, "windows-version", "", "Windows version to report (win7, win10, ...)")
	prefixCreateCmd.Flags().StringVar(&createArch, "arch", "", "architecture (win32, win64)")

	prefixCmd.AddCommand(prefixCreateCmd)
	prefixCmd.AddCommand(prefixDeleteCmd)
	prefixCmd.AddCommand(prefixListCmd)
	prefixCmd.AddCommand(prefixInfoCmd)
	prefixCmd.AddCommand(prefixReconcileCmd)
	prefixCmd.AddCommand(prefixEnvCmd)
}

func runPrefixCreate(cmd *cobra.Command, args []string) error {
	opts := winvora.CreateOptions{WindowsVersion: createWindowsVersion}
	if createArch != "" {
		arch, err := wine.ParseArch(createArch)
		if err != nil {
			return err
		}
		opts.Architecture = arch
	}

	result, err := mgr.Prefixes.Create(context.Background(), args[0], opts)
	if err != nil {
		return err
	}

	for _, warning := range result.Warnings {
		fmt.Printf("! %s\n", warning)
	}
	fmt.Printf("✓ Prefix %s created at %s\n", result.Info.Name, result.Info.Path)
	return nil
}
