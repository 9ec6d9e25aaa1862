// Package config loads exporter configuration from the environment and an
// optional global config file. The resulting Config value is constructed
// once at command startup and passed into components; nothing in this
// package is mutable process-wide state.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds everything the exporter needs to talk to Zotero and WebDAV
// storage, plus local paths.
type Config struct {
	APIKey         string `yaml:"api_key"`
	UserID         string `yaml:"user_id"`
	WebDAVURL      string `yaml:"webdav_url"`
	WebDAVUsername string `yaml:"webdav_username"`
	WebDAVPassword string `yaml:"webdav_password"`
	CacheDir       string `yaml:"cache_dir"`

	LogOutput string `yaml:"log_output"`
	LogLevel  string `yaml:"log_level"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "zotero-typst"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
)

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/zotero-typst/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// Load builds a Config from, in order of precedence: a .env file (when
// envFile is non-empty, that path; otherwise ./.env if present), process
// environment variables, and the global YAML config file for any fields
// still empty. Missing files are not errors.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Overload(envFile); err != nil {
			return Config{}, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	} else {
		_ = godotenv.Overload()
	}

	cfg := Config{
		APIKey:         os.Getenv("ZOTERO_API_KEY"),
		UserID:         os.Getenv("ZOTERO_USER_ID"),
		WebDAVURL:      os.Getenv("ZOTERO_WEBDAV_URL"),
		WebDAVUsername: os.Getenv("ZOTERO_WEBDAV_USERNAME"),
		WebDAVPassword: os.Getenv("ZOTERO_WEBDAV_PASSWORD"),
		CacheDir:       os.Getenv("ZOTERO_CACHE_DIR"),
		LogOutput:      os.Getenv("LOG_OUTPUT"),
		LogLevel:       os.Getenv("LOG_LEVEL"),
	}

	if err := cfg.fillFromGlobal(); err != nil {
		return Config{}, err
	}

	if cfg.CacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("failed to get user home directory: %w", err)
		}
		cfg.CacheDir = filepath.Join(home, ".cache", "zotero-typst")
	}

	return cfg, nil
}

// fillFromGlobal fills empty fields from the global YAML config file.
// The file is optional; only a malformed file is an error.
func (c *Config) fillFromGlobal() error {
	path := GlobalConfigPath()
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read global config %s: %w", path, err)
	}

	var global Config
	if err := yaml.Unmarshal(data, &global); err != nil {
		return fmt.Errorf("failed to parse global config %s: %w", path, err)
	}

	if c.APIKey == "" {
		c.APIKey = global.APIKey
	}
	if c.UserID == "" {
		c.UserID = global.UserID
	}
	if c.WebDAVURL == "" {
		c.WebDAVURL = global.WebDAVURL
	}
	if c.WebDAVUsername == "" {
		c.WebDAVUsername = global.WebDAVUsername
	}
	if c.WebDAVPassword == "" {
		c.WebDAVPassword = global.WebDAVPassword
	}
	if c.CacheDir == "" {
		c.CacheDir = global.CacheDir
	}
	if c.LogOutput == "" {
		c.LogOutput = global.LogOutput
	}
	if c.LogLevel == "" {
		c.LogLevel = global.LogLevel
	}
	return nil
}

// ValidateAPI checks the fields every command needs.
func (c Config) ValidateAPI() error {
	if c.APIKey == "" {
		return fmt.Errorf("ZOTERO_API_KEY is required")
	}
	if c.UserID == "" {
		return fmt.Errorf("ZOTERO_USER_ID is required")
	}
	return nil
}

// ValidateWebDAV checks the fields needed by commands that fetch PDF
// attachments from WebDAV storage.
func (c Config) ValidateWebDAV() error {
	if c.WebDAVURL == "" {
		return fmt.Errorf("ZOTERO_WEBDAV_URL is required")
	}
	if c.WebDAVUsername == "" || c.WebDAVPassword == "" {
		return fmt.Errorf("ZOTERO_WEBDAV_USERNAME and ZOTERO_WEBDAV_PASSWORD are required")
	}
	return nil
}
