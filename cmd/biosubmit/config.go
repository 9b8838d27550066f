package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nishad/biosubmit/internal/config"
	"github.com/nishad/biosubmit/internal/paths"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage biosubmit configuration",
	Long:  `Manage the submitter and organization details, logging, history and server settings.`,
}

var configPathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Show all active paths",
	Long: `Display all paths used by biosubmit including configuration, data and
state directories. Also shows any environment variable overrides.`,
	RunE: runConfigPaths,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration settings.`,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration",
	Long: `Create a default configuration file in the appropriate location.

This will create a config file at ~/.config/biosubmit/config.yaml (or the
path given with --config). Fill in the organization block before running
submit. If a config file already exists, use --force to overwrite it.`,
	Example: `  # Create default config
  biosubmit config init

  # Force overwrite existing config
  biosubmit config init --force`,
	RunE: runConfigInit,
}

var (
	configForce bool
)

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite existing configuration")

	configCmd.AddCommand(configPathsCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

func runConfigPaths(cmd *cobra.Command, args []string) error {
	p := paths.GetPaths()

	printInfo("biosubmit Paths")
	fmt.Println(colorize(colorGray, "────────────────────────────────────────"))

	fmt.Printf("%s\n", colorize(colorBold, "Base Directories:"))
	fmt.Printf("  Config:   %s\n", colorize(colorCyan, p.ConfigDir))
	fmt.Printf("  Data:     %s\n", colorize(colorCyan, p.DataDir))
	fmt.Printf("  State:    %s\n", colorize(colorCyan, p.StateDir))

	fmt.Println()
	fmt.Printf("%s\n", colorize(colorBold, "Specific Paths:"))
	fmt.Printf("  Config file: %s\n", colorize(colorCyan, config.GetConfigPath()))
	fmt.Printf("  Debug log:   %s\n", colorize(colorCyan, paths.GetLogPath()))
	fmt.Printf("  History:     %s\n", colorize(colorCyan, paths.GetHistoryPath()))
	fmt.Printf("  Index:       %s\n", colorize(colorCyan, paths.GetIndexPath()))

	envVars := []struct {
		name string
		desc string
	}{
		{"BIOSUBMIT_CONFIG", "Override config file"},
		{"BIOSUBMIT_CONFIG_HOME", "Override config directory"},
		{"BIOSUBMIT_DATA_HOME", "Override data directory"},
		{"BIOSUBMIT_STATE_HOME", "Override state directory"},
		{"BIOSUBMIT_LOG_PATH", "Override debug log path"},
		{"BIOSUBMIT_HISTORY_PATH", "Override history database path"},
		{"BIOSUBMIT_INDEX_PATH", "Override sample search index path"},
	}

	hasEnv := false
	for _, env := range envVars {
		if os.Getenv(env.name) != "" {
			hasEnv = true
			break
		}
	}

	if hasEnv {
		fmt.Println()
		fmt.Printf("%s\n", colorize(colorBold, "Environment Variables:"))
		for _, env := range envVars {
			if val := os.Getenv(env.name); val != "" {
				fmt.Printf("  %s = %s\n",
					colorize(colorYellow, env.name),
					colorize(colorCyan, val))
				if verbose {
					fmt.Printf("    %s\n", colorize(colorGray, env.desc))
				}
			}
		}
	}

	fmt.Println()
	fmt.Printf("%s\n", colorize(colorBold, "Path Status:"))

	pathChecks := []struct {
		name string
		path string
	}{
		{"Config", config.GetConfigPath()},
		{"Debug log", paths.GetLogPath()},
		{"History", paths.GetHistoryPath()},
		{"Index", paths.GetIndexPath()},
	}

	for _, check := range pathChecks {
		if _, err := os.Stat(check.path); err == nil {
			fmt.Printf("  %-12s %s\n", check.name+":", colorize(colorGreen, "✓ exists"))
		} else {
			fmt.Printf("  %-12s %s\n", check.name+":", colorize(colorGray, "✗ not found"))
		}
	}

	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, path, err := loadConfig()
	if err != nil {
		return err
	}

	printInfo("Configuration")
	fmt.Println(colorize(colorGray, "────────────────────────────────────────"))

	fmt.Printf("%s %s\n", colorize(colorBold, "Config File:"), path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Println(colorize(colorYellow, "  (using defaults - no config file found)"))
	}

	fmt.Println()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to format config: %w", err)
	}

	lines := strings.Split(string(data), "\n")
	for _, line := range lines {
		if line == "" {
			continue
		}

		if strings.HasSuffix(line, ":") && !strings.Contains(line, " ") {
			// Top-level keys
			fmt.Println(colorize(colorBold, line))
		} else if strings.Contains(line, ": ") {
			parts := strings.SplitN(line, ": ", 2)
			indent := len(line) - len(strings.TrimLeft(line, " "))
			fmt.Printf("%s%s: %s\n",
				strings.Repeat(" ", indent),
				colorize(colorCyan, strings.TrimSpace(parts[0])),
				colorize(colorGreen, parts[1]))
		} else {
			fmt.Println(line)
		}
	}

	if missing := cfg.MissingRequired(); len(missing) > 0 {
		fmt.Println()
		printWarning("Required settings not set: %s", strings.Join(missing, ", "))
	}

	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		path = filepath.Join(paths.GetPaths().ConfigDir, "config.yaml")
	}

	if _, err := os.Stat(path); err == nil && !configForce {
		printWarning("Configuration already exists at %s", path)
		fmt.Println("Use --force to overwrite")
		return nil
	}

	cfg := config.DefaultConfig()
	cfg.Organization.Type = "institute"

	if err := cfg.Save(path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		printWarning("Could not create directories: %v", err)
	}

	printSuccess("Configuration created at %s", path)

	configPath = path
	fmt.Println()
	return runConfigShow(cmd, args)
}
