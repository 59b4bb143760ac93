package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultShowingDepth = 4
	DefaultUndoLimit    = 500
	DefaultNameFormat   = "sermon-%Y-%m-%d.html"
	DefaultLogFile      = "sermonedit.log"
)

// Config holds application configuration
type Config struct {
	Editor   EditorConfig      `toml:"editor"`
	Storage  StorageConfig     `toml:"storage"`
	Settings map[string]string `toml:"settings"`

	// Session settings (not persisted to TOML, overrides persisted settings)
	sessionSettings map[string]string
}

// EditorConfig configures the editing core
type EditorConfig struct {
	ShowingDepth int    `toml:"showing_depth"`
	UndoLimit    int    `toml:"undo_limit"`
	LogFile      string `toml:"log_file"`
}

// StorageConfig configures saving and backups
type StorageConfig struct {
	NameFormat string `toml:"name_format"`
	Backups    bool   `toml:"backups"`
	BackupDir  string `toml:"backup_dir"`
}

// Load loads the config file from the standard location
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return defaultConfig(), nil // Return default if can't find config path
	}

	return LoadFromFile(configPath)
}

// LoadFromFile loads config from a specific file
func LoadFromFile(filePath string) (*Config, error) {
	// If file doesn't exist, return default config
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return defaultConfig(), nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Unmarshal over the defaults so missing keys keep their default value
	config := defaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if config.Settings == nil {
		config.Settings = make(map[string]string)
	}
	config.sessionSettings = make(map[string]string)

	return config, nil
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// defaultConfig returns the default configuration
func defaultConfig() *Config {
	return &Config{
		Editor: EditorConfig{
			ShowingDepth: DefaultShowingDepth,
			UndoLimit:    DefaultUndoLimit,
			LogFile:      DefaultLogFile,
		},
		Storage: StorageConfig{
			NameFormat: DefaultNameFormat,
			Backups:    true,
		},
		Settings:        make(map[string]string),
		sessionSettings: make(map[string]string),
	}
}

// Default returns a configuration with every default applied
func Default() *Config {
	return defaultConfig()
}

// GetConfigDir returns the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, ".config", "sermonedit"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	configDir, err := GetConfigDir()
	if err != nil {
		return err
	}

	return os.MkdirAll(configDir, 0755)
}

// Set sets a session configuration value
func (c *Config) Set(key, value string) {
	if c.sessionSettings == nil {
		c.sessionSettings = make(map[string]string)
	}
	c.sessionSettings[key] = value
}

// Get retrieves a configuration value, checking session settings first (which override persisted settings)
// Returns empty string if not found in either source
func (c *Config) Get(key string) string {
	if c.sessionSettings != nil {
		if val, ok := c.sessionSettings[key]; ok {
			return val
		}
	}

	if c.Settings != nil {
		if val, ok := c.Settings[key]; ok {
			return val
		}
	}

	return ""
}

// GetAll returns all configuration values (both persisted and session)
// Session settings override persisted settings with the same key
func (c *Config) GetAll() map[string]string {
	result := make(map[string]string)

	for k, v := range c.Settings {
		result[k] = v
	}
	for k, v := range c.sessionSettings {
		result[k] = v
	}

	return result
}

// intSetting returns the setting key as an int, or fallback when it is
// unset or malformed
func (c *Config) intSetting(key string, fallback int) int {
	val := c.Get(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return n
}

// ShowingDepth returns the showing depth a new editor starts with
func (c *Config) ShowingDepth() int {
	return c.intSetting("showing_depth", c.Editor.ShowingDepth)
}

// UndoLimit returns the number of undo steps to keep
func (c *Config) UndoLimit() int {
	limit := c.intSetting("undo_limit", c.Editor.UndoLimit)
	if limit <= 0 {
		return DefaultUndoLimit
	}
	return limit
}

// NameFormat returns the strftime pattern for suggested file names
func (c *Config) NameFormat() string {
	if val := c.Get("name_format"); val != "" {
		return val
	}
	if c.Storage.NameFormat == "" {
		return DefaultNameFormat
	}
	return c.Storage.NameFormat
}

// LogFile returns the path of the log file
func (c *Config) LogFile() string {
	if val := c.Get("log_file"); val != "" {
		return val
	}
	if c.Editor.LogFile == "" {
		return DefaultLogFile
	}
	return c.Editor.LogFile
}

// Save persists the configuration to the TOML file
// Note: This only persists the Settings map, not session settings
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return c.SaveToFile(configPath)
}

// SaveToFile writes the configuration to filePath
func (c *Config) SaveToFile(filePath string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
