// internal/cli/template.go
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/winvora/winvora"
)

var (
	templateDescription string
	templateWindows     string
	templateComponents  []string
	templateDXVK        bool
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Provision prefixes from templates",
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := mgr.Store.List()
		if err != nil {
			return err
		}
		for _, entry := range entries {
			kind := "custom"
			if entry.Builtin {
				kind = "builtin"
			}
			fmt.Printf("%-16s %-8s %s\n", entry.Name, kind, entry.Description)
		}
		return nil
	},
}

var templateShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show one template in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := mgr.Store.Get(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Name:            %s\n", t.Name)
		fmt.Printf("Description:     %s\n", t.Description)
		fmt.Printf("Windows version: %s\n", t.WindowsVersion)
		fmt.Printf("Install DXVK:    %t\n", t.InstallDXVK)
		if len(t.Components) > 0 {
			fmt.Printf("Components:      %s\n", strings.Join(t.Components, ", "))
		}
		for k, v := range t.EnvVars {
			fmt.Printf("Env:             %s=%s\n", k, v)
		}
		return nil
	},
}

var templateApplyCmd = &cobra.Command{
	Use:   "apply <template> <prefix>",
	Short: "Create a prefix from a template",
	Long: `Create a prefix from a template.

Examples:
  winvora template apply gaming games
  winvora template apply office work`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := mgr.Templates.Apply(context.Background(), args[0], args[1], showProgress)
		if err != nil {
			return err
		}

		for _, warning := range result.Warnings {
			fmt.Printf("! %s\n", warning)
		}
		if failed := result.Failed(); len(failed) > 0 {
			fmt.Printf("! Components failed: %s\n", strings.Join(failed, ", "))
		}
		fmt.Printf("✓ Prefix %s created from template %s\n", args[1], args[0])
		return nil
	},
}

var templateCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a custom template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t := winvora.Template{
			Name:           args[0],
			Description:    templateDescription,
			WindowsVersion: templateWindows,
			Components:     templateComponents,
			InstallDXVK:    templateDXVK,
		}
		if t.WindowsVersion == "" {
			t.WindowsVersion = cfg.DefaultWindowsVersion
		}

		if err := mgr.Store.Create(t); err != nil {
			return err
		}
		fmt.Printf("✓ Template %s created\n", args[0])
		return nil
	},
}

var templateDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a custom template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := mgr.Store.Delete(args[0]); err != nil {
			return err
		}
		fmt.Printf("✓ Template %s deleted\n", args[0])
		return nil
	},
}

var templateCaptureCmd = &cobra.Command{
	Use:   "capture <name> <prefix>",
	Short: "Snapshot an existing prefix as a template",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := mgr.Templates.Capture(args[0], templateDescription, args[1])
		if err != nil {
			return err
		}
		fmt.Printf("✓ Captured %s as template %s\n", args[1], t.Name)
		return nil
	},
}

func init() {
	templateCreateCmd.Flags().StringVar(&templateDescription, "description", "", "template description")
	templateCreateCmd.Flags().StringVar(&templateWindows, "windows-version", "", "Windows version for new prefixes")
	templateCreateCmd.Flags().StringSliceVar(&templateComponents, "component", nil, "component to install (repeatable)")
	templateCreateCmd.Flags().BoolVar(&templateDXVK, "dxvk", false, "install DXVK")
	templateCaptureCmd.Flags().StringVar(&templateDescription, "description", "", "template description")

	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templateShowCmd)
	templateCmd.AddCommand(templateApplyCmd)
	templateCmd.AddCommand(templateCreateCmd)
	templateCmd.AddCommand(templateDeleteCmd)
	templateCmd.AddCommand(templateCaptureCmd)
}
