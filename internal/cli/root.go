// internal/cli/root.go
package cli

import (
	"fmt"
	"os"

	clog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/winvora/winvora"
)

var (
	cfgFile string
	debug   bool
	cfg     *winvora.Config
	mgr     *winvora.Manager
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "winvora",
	Short: "Wine prefix manager",
	Long: `winvora - Wine prefix manager

Create isolated Wine prefixes, switch between Wine builds, install
components and DXVK, and provision everything from templates.`,
	Version: "0.1.0",
}

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initManager)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/winvora/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Add commands
	rootCmd.AddCommand(prefixCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(winecfgCmd)
	rootCmd.AddCommand(runtimeCmd)
	rootCmd.AddCommand(componentCmd)
	rootCmd.AddCommand(dxvkCmd)
	rootCmd.AddCommand(templateCmd)
	rootCmd.AddCommand(psCmd)
	rootCmd.AddCommand(killCmd)
	rootCmd.AddCommand(versionCmd)
}

func initManager() {
	var err error
	cfg, err = winvora.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		cfg = winvora.DefaultConfig()
	}
	if debug {
		cfg.Debug = true
	}

	logger := clog.NewWithOptions(os.Stderr, clog.Options{
		ReportTimestamp: false,
		Prefix:          "winvora",
	})
	if cfg.Debug {
		logger.SetLevel(clog.DebugLevel)
	}

	mgr, err = winvora.New(cfg, logger.StandardLog())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// showProgress prints download and provisioning progress to stdout
func showProgress(percent int, message string) {
	fmt.Printf("[%3d%%] %s\n", percent, message)
}
