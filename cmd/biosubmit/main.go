package main

import (
	"fmt"
	"os"

	"github.com/nishad/biosubmit/internal/config"
	"github.com/spf13/cobra"
)

// Version info
var (
	version = "1.0.0"
	commit  = "dev"
	date    = "unknown"
)

// Global flags
var (
	noColor    bool
	quiet      bool
	verbose    bool
	debug      bool
	configPath string
)

// Root command
var rootCmd = &cobra.Command{
	Use:   "biosubmit",
	Short: "BioSample submission XML generator",
	Long: `biosubmit converts tab-delimited sample tables into NCBI BioSample
submission XML.

Organization and submitter details come from a YAML configuration file; each
table row becomes one AddData action. The generated document is validated
before it is written, and nothing is written when validation fails.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	Example: `  # Create a configuration file to fill in
  biosubmit config init

  # Convert a sample table
  biosubmit submit samples.tsv --hold 2030-01-31

  # Check an existing document
  biosubmit validate samples.xml

  # Find samples of earlier submissions
  biosubmit search "Homo sapiens"

  # Start the HTTP service
  biosubmit serve --port 8080`,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Configuration file (default: uses BIOSUBMIT_CONFIG)")

	// Add commands to root
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig loads the configuration named by --config or the default
// location
func loadConfig() (*config.Config, string, error) {
	path := configPath
	if path == "" {
		path = config.GetConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, path, fmt.Errorf("failed to load config: %w", err)
	}
	printDebug("Config: %s", path)
	return cfg, path, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
