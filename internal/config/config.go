package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/vilaca/issue-archive/internal/domain"
)

// placeholderToken is the token shipped in the sample config.
const placeholderToken = "ghp_your_token_here"

const (
	DefaultConfigPath     = "config.toml"
	DefaultGitHubURL      = "https://api.github.com"
	DefaultOutputDir      = "site"
	DefaultPort           = 8080
	DefaultRefreshMinutes = 30
)

var (
	// ErrConfigNotFound is returned when the config file does not exist.
	ErrConfigNotFound = errors.New("config file not found")
	// ErrInvalidConfig wraps every validation failure.
	ErrInvalidConfig = errors.New("invalid config")
)

// Config holds application configuration.
// Follows Single Responsibility - only holds configuration data.
type Config struct {
	GitHub   GitHubConfig   `yaml:"github" toml:"github"`
	Database DatabaseConfig `yaml:"database" toml:"database"`
	Repos    ReposConfig    `yaml:"repos" toml:"repos"`
	Output   OutputConfig   `yaml:"output" toml:"output"`
	Server   ServerConfig   `yaml:"server" toml:"server"`
}

// GitHubConfig is the [github] section.
type GitHubConfig struct {
	Token string `yaml:"token" toml:"token"`
	URL   string `yaml:"url" toml:"url"`
}

// DatabaseConfig is the [database] section.
type DatabaseConfig struct {
	Path string `yaml:"path" toml:"path"`
}

// ReposConfig is the [repos] section.
// Format: owner/name (e.g., "facebook/react").
type ReposConfig struct {
	Repositories []string `yaml:"repositories" toml:"repositories"`
}

// OutputConfig is the [output] section.
type OutputConfig struct {
	Dir string `yaml:"dir" toml:"dir"`
}

// ServerConfig is the [server] section, used by serve mode.
type ServerConfig struct {
	Port           int `yaml:"port" toml:"port"`
	RefreshMinutes int `yaml:"refresh_minutes" toml:"refresh_minutes"`
}

// Load reads the config file at path, applies environment overrides and
// validates the result. A .env file in the working directory is honored
// when present.
func Load(path string) (*Config, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOffline reads the config for commands that never contact GitHub or
// the database, such as rendering from a data file. A missing file yields
// the defaults and only the repository format is validated.
func LoadOffline(path string) (*Config, error) {
	cfg, err := read(path)
	if errors.Is(err, ErrConfigNotFound) {
		cfg = &Config{}
		cfg.applyEnv()
		cfg.applyDefaults()
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.validateRepositories(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func read(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}
	// Missing .env is fine; variables already set win.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

// Parse decodes config data. ext selects the format: ".yaml" and ".yml"
// are YAML, anything else is TOML.
func Parse(data []byte, ext string) (*Config, error) {
	cfg := &Config{}
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	default:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.GitHub.Token = getEnvOrDefault("GITHUB_TOKEN", c.GitHub.Token)
	c.GitHub.URL = getEnvOrDefault("GITHUB_URL", c.GitHub.URL)
	c.Database.Path = getEnvOrDefault("ISSUE_ARCHIVE_DB", c.Database.Path)
	c.Output.Dir = getEnvOrDefault("ISSUE_ARCHIVE_OUTPUT", c.Output.Dir)

	if portStr := os.Getenv("PORT"); portStr != "" {
		if p, err := strconv.Atoi(portStr); err == nil {
			c.Server.Port = p
		}
	}
}

func (c *Config) applyDefaults() {
	if c.GitHub.URL == "" {
		c.GitHub.URL = DefaultGitHubURL
	}
	if c.Output.Dir == "" {
		c.Output.Dir = DefaultOutputDir
	}
	if c.Server.Port <= 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.RefreshMinutes <= 0 {
		c.Server.RefreshMinutes = DefaultRefreshMinutes
	}
}

// Validate checks the required fields.
func (c *Config) Validate() error {
	switch {
	case c.GitHub.Token == "":
		return fmt.Errorf("%w: GitHub token is required in [github] section", ErrInvalidConfig)
	case c.GitHub.Token == placeholderToken:
		return fmt.Errorf("%w: please add your actual GitHub token", ErrInvalidConfig)
	case c.Database.Path == "":
		return fmt.Errorf("%w: database path is required in [database] section", ErrInvalidConfig)
	case len(c.Repos.Repositories) == 0:
		return fmt.Errorf("%w: no repositories specified, add at least one repo", ErrInvalidConfig)
	}

	return c.validateRepositories()
}

func (c *Config) validateRepositories() error {
	for _, repo := range c.Repos.Repositories {
		if _, err := domain.ParseRepository(repo); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}

// Repositories returns the configured repositories with owner and name trimmed.
func (c *Config) Repositories() []domain.Repository {
	result := make([]domain.Repository, 0, len(c.Repos.Repositories))
	for _, s := range c.Repos.Repositories {
		repo, err := domain.ParseRepository(s)
		if err != nil {
			continue
		}
		result = append(result, repo)
	}
	return result
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
