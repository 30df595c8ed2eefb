// internal/cli/runtime.go
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/winvora/winvora/pkg/winever"
)

var runtimeCmd = &cobra.Command{
	Use:   "runtime",
	Short: "Manage installed Wine builds",
}

var runtimeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed Wine builds",
	RunE: func(cmd *cobra.Command, args []string) error {
		versions, err := mgr.Versions.Scan()
		if err != nil {
			return err
		}
		if len(versions) == 0 {
			fmt.Println("No Wine builds found")
			return nil
		}

		for _, v := range versions {
			marker := " "
			if v.Active {
				marker = "*"
			}
			fmt.Printf("%s %-30s %s\n", marker, v.String(), v.Path)
		}
		return nil
	},
}

var runtimeDownloadCmd = &cobra.Command{
	Use:   "download <variant> <version>",
	Short: "Download and install a Wine build",
	Long: `Download and install a Wine build.

Examples:
  winvora runtime download staging 9.0
  winvora runtime download proton 8.0-5`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		variant, err := winever.ParseVariant(args[0])
		if err != nil {
			return err
		}

		v, err := mgr.Versions.Download(context.Background(), variant, args[1], showProgress)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Installed %s\n", v)
		return nil
	},
}

var runtimeUseCmd = &cobra.Command{
	Use:   "use <variant> <version>",
	Short: "Make a build the default runtime",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := findBuild(args[0], args[1])
		if err != nil {
			return err
		}
		if err := mgr.Versions.SetActive(*v); err != nil {
			return err
		}
		fmt.Printf("✓ Default runtime is now %s\n", v)
		return nil
	},
}

var runtimeDeleteCmd = &cobra.Command{
	Use:   "delete <variant> <version>",
	Short: "Delete an installed build",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		variant, err := winever.ParseVariant(args[0])
		if err != nil {
			return err
		}
		if err := mgr.Versions.Delete(variant, args[1]); err != nil {
			return err
		}
		fmt.Printf("✓ Deleted %s-%s\n", args[0], args[1])
		return nil
	},
}

var runtimeAssignCmd = &cobra.Command{
	Use:   "assign <prefix> <variant> <version>",
	Short: "Pin a prefix to a specific build",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := findBuild(args[1], args[2])
		if err != nil {
			return err
		}
		if err := mgr.Versions.AssignToPrefix(args[0], *v); err != nil {
			return err
		}
		fmt.Printf("✓ Prefix %s now uses %s\n", args[0], v)
		return nil
	},
}

var runtimeUnassignCmd = &cobra.Command{
	Use:   "unassign <prefix>",
	Short: "Remove a prefix's build pin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := mgr.Versions.Unassign(args[0]); err != nil {
			return err
		}
		fmt.Printf("✓ Prefix %s uses the default runtime\n", args[0])
		return nil
	},
}

func init() {
	runtimeCmd.AddCommand(runtimeListCmd)
	runtimeCmd.AddCommand(runtimeDownloadCmd)
	runtimeCmd.AddCommand(runtimeUseCmd)
	runtimeCmd.AddCommand(runtimeDeleteCmd)
	runtimeCmd.AddCommand(runtimeAssignCmd)
	runtimeCmd.AddCommand(runtimeUnassignCmd)
}

func findBuild(variantArg, version string) (*winever.Version, error) {
	variant, err := winever.ParseVariant(variantArg)
	if err != nil {
		return nil, err
	}
	return mgr.Versions.Find(variant, version)
}
