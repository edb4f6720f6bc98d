package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultRecentLimit = 20
	DefaultLogLevel    = "info"
)

// Config holds the application configuration. This is the operator-facing
// config (paths, logging, list limits), distinct from the user preferences
// blob kept in the settings store.
type Config struct {
	DataDir     string
	DBPath      string
	ConfigPath  string
	LogLevel    string
	LogFile     string
	RecentLimit int
}

type fileConfig struct {
	Storage struct {
		Path string `toml:"path"`
	} `toml:"storage"`
	Logging struct {
		Level string `toml:"level"`
		File  string `toml:"file"`
	} `toml:"logging"`
	Memories struct {
		RecentLimit int `toml:"recent_limit"`
	} `toml:"memories"`
}

// LoadConfig loads configuration from file, environment variables, and defaults
func LoadConfig() (*Config, error) {
	dataDir, err := DataDir()
	if err != nil {
		return nil, err
	}
	return LoadConfigFrom(dataDir)
}

// LoadConfigFrom loads configuration rooted at the given data directory.
func LoadConfigFrom(dataDir string) (*Config, error) {
	if err := os.MkdirAll(filepath.Join(dataDir, "logs"), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	configPath := filepath.Join(dataDir, "config.toml")

	cfg := &Config{
		DataDir:     dataDir,
		DBPath:      filepath.Join(dataDir, "memocare.sqlite3"),
		ConfigPath:  configPath,
		LogLevel:    DefaultLogLevel,
		LogFile:     filepath.Join(dataDir, "logs", "memocare.log"),
		RecentLimit: DefaultRecentLimit,
	}

	if _, err := os.Stat(configPath); err == nil {
		fileData, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}

		var parsed fileConfig
		if err := toml.Unmarshal(fileData, &parsed); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
		}

		if parsed.Storage.Path != "" {
			cfg.DBPath = parsed.Storage.Path
		}
		if parsed.Logging.Level != "" {
			cfg.LogLevel = parsed.Logging.Level
		}
		if parsed.Logging.File != "" {
			cfg.LogFile = parsed.Logging.File
		}
		if parsed.Memories.RecentLimit != 0 {
			cfg.RecentLimit = parsed.Memories.RecentLimit
		}
	}

	// Environment variable overrides
	if dbPath := os.Getenv("MEMOCARE_DB_PATH"); dbPath != "" {
		cfg.DBPath = dbPath
	}
	if level := os.Getenv("MEMOCARE_LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
	if logFile := os.Getenv("MEMOCARE_LOG_FILE"); logFile != "" {
		cfg.LogFile = logFile
	}
	if limit := os.Getenv("MEMOCARE_RECENT_LIMIT"); limit != "" {
		if parsed, err := strconv.Atoi(limit); err == nil {
			cfg.RecentLimit = parsed
		}
	}

	if !filepath.IsAbs(cfg.LogFile) {
		cfg.LogFile = filepath.Join(dataDir, cfg.LogFile)
	}
	if !filepath.IsAbs(cfg.DBPath) {
		cfg.DBPath = filepath.Join(dataDir, cfg.DBPath)
	}

	return cfg, nil
}

// DataDir resolves the data directory: MEMOCARE_DIR if set, otherwise
// ~/.memocare.
func DataDir() (string, error) {
	if dir := os.Getenv("MEMOCARE_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".memocare"), nil
}

// Validate verifies the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("data directory is empty")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("database path is empty")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error", "off":
	default:
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}
	if c.RecentLimit <= 0 {
		return fmt.Errorf("recent limit must be positive")
	}
	return nil
}
