package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nishad/biosubmit/internal/paths"
	"gopkg.in/yaml.v3"
)

// Config represents the biosubmit configuration
type Config struct {
	Submitter    *SubmitterConfig   `yaml:"submitter,omitempty"`
	Organization OrganizationConfig `yaml:"organization"`
	BioSample    BioSampleConfig    `yaml:"biosample"`
	Logging      LoggingConfig      `yaml:"logging"`
	History      HistoryConfig      `yaml:"history"`
	Search       SearchConfig       `yaml:"search"`
	Server       ServerConfig       `yaml:"server"`
	Output       OutputConfig       `yaml:"output"`
}

// ContactConfig holds a contact e-mail address
type ContactConfig struct {
	Email string `yaml:"email"`
}

// SubmitterConfig identifies the submitting account
type SubmitterConfig struct {
	Contact   *ContactConfig `yaml:"contact,omitempty"`
	AccountID string         `yaml:"account_id,omitempty"`
}

// OrganizationConfig describes the organization that owns the submission
type OrganizationConfig struct {
	Name           string         `yaml:"name"`
	Type           string         `yaml:"type"` // institute, center, consortium or lab
	Address        *AddressConfig `yaml:"address,omitempty"`
	Contact        ContactConfig  `yaml:"contact"`
	Role           string         `yaml:"role,omitempty"` // owner or participant
	OrgID          string         `yaml:"org_id,omitempty"`
	GroupID        string         `yaml:"group_id,omitempty"`
	URL            string         `yaml:"url,omitempty"`
	SPUIDNamespace string         `yaml:"spuid_namespace"`
	SPUID          string         `yaml:"spuid"`
}

// AddressConfig is the postal address of an organization
type AddressConfig struct {
	Department  string `yaml:"department,omitempty"`
	Institution string `yaml:"institution,omitempty"`
	Street      string `yaml:"street,omitempty"`
	City        string `yaml:"city,omitempty"`
	State       string `yaml:"state,omitempty"`
	Country     string `yaml:"country,omitempty"`
	PostalCode  string `yaml:"postal_code,omitempty"`
}

// BioSampleConfig controls the per-row BioSample generator
type BioSampleConfig struct {
	Package       string   `yaml:"package"`        // BioSample package name
	SchemaVersion string   `yaml:"schema_version"` // BioSample schema version
	IgnoreColumns []string `yaml:"ignore_columns"` // Columns never emitted as attributes
}

// LoggingConfig controls the debug log
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
	File   string `yaml:"file"`   // Debug log path
	Append bool   `yaml:"append"` // Append instead of truncating
}

// HistoryConfig controls the submission ledger
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// SearchConfig controls the full-text index of submitted samples
type SearchConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// ServerConfig holds HTTP service settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// OutputConfig controls where generated documents are written
type OutputConfig struct {
	Directory string `yaml:"directory"` // Empty means next to the input file
	Indent    string `yaml:"indent"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		BioSample: BioSampleConfig{
			Package:       "Generic.1.0",
			SchemaVersion: "2.0",
		},
		Logging: LoggingConfig{
			Level:  "debug",
			Format: "text",
			File:   paths.GetLogPath(),
			Append: true,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    paths.GetHistoryPath(),
		},
		Search: SearchConfig{
			Enabled: true,
			Path:    paths.GetIndexPath(),
		},
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Output: OutputConfig{
			Indent: "  ",
		},
	}
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	// Start with defaults
	config := DefaultConfig()

	// Return defaults if file doesn't exist
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.Logging.File = expandPath(config.Logging.File)
	config.History.Path = expandPath(config.History.Path)
	config.Search.Path = expandPath(config.Search.Path)
	config.Output.Directory = expandPath(config.Output.Directory)

	return config, nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the default config file path
func GetConfigPath() string {
	// Check environment variable first
	if path := os.Getenv("BIOSUBMIT_CONFIG"); path != "" {
		return path
	}

	// Check current directory
	if _, err := os.Stat("biosubmit.yaml"); err == nil {
		return "biosubmit.yaml"
	}

	p := paths.GetPaths()
	return filepath.Join(p.ConfigDir, "config.yaml")
}

// EnsureDirectories creates the directories holding the debug log, the
// history database and the search index
func (c *Config) EnsureDirectories() error {
	var dirs []string
	if c.Logging.File != "" {
		dirs = append(dirs, filepath.Dir(c.Logging.File))
	}
	if c.History.Enabled && c.History.Path != "" {
		dirs = append(dirs, filepath.Dir(c.History.Path))
	}
	if c.Search.Enabled && c.Search.Path != "" {
		dirs = append(dirs, filepath.Dir(c.Search.Path))
	}
	if c.Output.Directory != "" {
		dirs = append(dirs, c.Output.Directory)
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// MissingRequired lists organization fields the submission schema requires
// but the configuration leaves empty. Nothing here is enforced; validation
// of the generated document is the authority.
func (c *Config) MissingRequired() []string {
	var missing []string
	if c.Organization.Name == "" {
		missing = append(missing, "organization.name")
	}
	if c.Organization.Type == "" {
		missing = append(missing, "organization.type")
	}
	if c.Organization.Contact.Email == "" {
		missing = append(missing, "organization.contact.email")
	}
	if c.Organization.SPUIDNamespace == "" {
		missing = append(missing, "organization.spuid_namespace")
	}
	return missing
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if len(path) == 0 {
		return path
	}

	if path[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}

	return path
}
