// Package cli implements the flowstudio command line interface: a thin
// shell over the designer core for inspecting the node catalog, validating
// and converting workflow files, and running the execution simulator.
package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

const (
	// Version is the current version of Flowlet Studio.
	Version = "1.0.0"
)

// Config holds the global configuration for the flowstudio CLI.
type Config struct {
	ConfigDir string
	Debug     bool
}

// GlobalConfig is the shared configuration instance.
var GlobalConfig = &Config{}

// NewRootCommand creates the root cobra command for flowstudio.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flowstudio",
		Short: "Flowlet Studio - workflow designer tooling",
		Long: `Flowlet Studio is the workflow designer core of the Flowlet embedded-finance
platform. This CLI works with workflow documents outside the visual canvas:
browsing the node catalog, validating and converting workflow files, and
replaying workflows through the execution simulator.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(); err != nil {
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}

			if GlobalConfig.Debug {
				log.SetOutput(os.Stderr)
				log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
			} else {
				log.SetOutput(io.Discard)
			}

			return nil
		},
	}

	cmd.PersistentFlags().BoolVar(&GlobalConfig.Debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&GlobalConfig.ConfigDir, "config-dir", "", "Configuration directory (default: ~/.flowstudio)")

	cmd.AddCommand(NewCatalogCommand())
	cmd.AddCommand(NewNewCommand())
	cmd.AddCommand(NewValidateCommand())
	cmd.AddCommand(NewSimulateCommand())
	cmd.AddCommand(NewExportCommand())
	cmd.AddCommand(NewImportCommand())
	cmd.AddCommand(NewRunsCommand())

	return cmd
}

// initConfig initializes the flowstudio configuration directory.
func initConfig() error {
	// Environment variable takes priority (for testing).
	if envDir := os.Getenv("FLOWSTUDIO_CONFIG_DIR"); envDir != "" {
		GlobalConfig.ConfigDir = envDir
	} else if GlobalConfig.ConfigDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get user home directory: %w", err)
		}
		GlobalConfig.ConfigDir = filepath.Join(homeDir, ".flowstudio")
	}

	if err := os.MkdirAll(GlobalConfig.ConfigDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.MkdirAll(GetWorkflowsDir(), 0755); err != nil {
		return fmt.Errorf("failed to create workflows directory: %w", err)
	}

	return nil
}

// GetWorkflowsDir returns the directory workflow files are stored in.
func GetWorkflowsDir() string {
	return filepath.Join(GlobalConfig.ConfigDir, "workflows")
}

// GetDatabasePath returns the run-history database path.
func GetDatabasePath() string {
	return filepath.Join(GlobalConfig.ConfigDir, "flowstudio.db")
}
