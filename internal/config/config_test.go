package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vilaca/issue-archive/internal/domain"
)

const validTOML = `
[github]
token = "ghp_real"

[database]
path = "data/issues.db"

[repos]
repositories = ["acme/widgets", " globex / gadgets "]
`

const validYAML = `
github:
  token: ghp_real
  url: https://ghe.example.com/api/v3
database:
  path: data/issues.db
repos:
  repositories:
    - acme/widgets
output:
  dir: public
server:
  port: 9000
  refresh_minutes: 5
`

// clearEnv isolates tests from the developer's environment.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"GITHUB_TOKEN", "GITHUB_URL", "ISSUE_ARCHIVE_DB", "ISSUE_ARCHIVE_OUTPUT", "PORT"} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// TestLoad_TOML tests loading a TOML config with defaults applied.
// Follows AAA (Arrange, Act, Assert) pattern.
func TestLoad_TOML(t *testing.T) {
	// Arrange
	clearEnv(t)
	path := writeConfig(t, "config.toml", validTOML)

	// Act
	cfg, err := Load(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "ghp_real", cfg.GitHub.Token)
	assert.Equal(t, DefaultGitHubURL, cfg.GitHub.URL)
	assert.Equal(t, "data/issues.db", cfg.Database.Path)
	assert.Equal(t, DefaultOutputDir, cfg.Output.Dir)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, DefaultRefreshMinutes, cfg.Server.RefreshMinutes)
	assert.Equal(t, []domain.Repository{
		{Owner: "acme", Name: "widgets"},
		{Owner: "globex", Name: "gadgets"},
	}, cfg.Repositories())
}

func TestLoad_YAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "config.yaml", validYAML)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "https://ghe.example.com/api/v3", cfg.GitHub.URL)
	assert.Equal(t, "public", cfg.Output.Dir)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Server.RefreshMinutes)
}

// TestLoad_EnvOverrides tests that environment variables win over the file.
func TestLoad_EnvOverrides(t *testing.T) {
	// Arrange
	clearEnv(t)
	t.Setenv("GITHUB_TOKEN", "ghp_env")
	t.Setenv("ISSUE_ARCHIVE_DB", "/tmp/other.db")
	t.Setenv("ISSUE_ARCHIVE_OUTPUT", "/tmp/site")
	t.Setenv("PORT", "3000")
	path := writeConfig(t, "config.toml", validTOML)

	// Act
	cfg, err := Load(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "ghp_env", cfg.GitHub.Token)
	assert.Equal(t, "/tmp/other.db", cfg.Database.Path)
	assert.Equal(t, "/tmp/site", cfg.Output.Dir)
	assert.Equal(t, 3000, cfg.Server.Port)
}

// TestLoad_InvalidPort tests that invalid port falls back to default.
func TestLoad_InvalidPort(t *testing.T) {
	// Arrange
	clearEnv(t)
	t.Setenv("PORT", "invalid")
	path := writeConfig(t, "config.toml", validTOML)

	// Act
	cfg, err := Load(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))

	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestLoad_MalformedFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "config.toml", "[github\ntoken=")

	_, err := Load(path)

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrConfigNotFound)
}

func TestLoadOffline_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("ISSUE_ARCHIVE_OUTPUT", "public")

	cfg, err := LoadOffline(filepath.Join(t.TempDir(), "nope.toml"))

	require.NoError(t, err)
	assert.Equal(t, "public", cfg.Output.Dir)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Empty(t, cfg.GitHub.Token)
}

func TestLoadOffline_NoTokenOrRepos(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "config.toml", "[github]\ntoken = \"ghp_your_token_here\"\n\n[output]\ndir = \"out\"\n")

	cfg, err := LoadOffline(path)

	require.NoError(t, err)
	assert.Equal(t, "out", cfg.Output.Dir)

	_, err = Load(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadOffline_RejectsMalformedRepository(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "config.toml", "[repos]\nrepositories = [\"not-a-repo\"]\n")

	_, err := LoadOffline(path)

	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			GitHub:   GitHubConfig{Token: "ghp_real"},
			Database: DatabaseConfig{Path: "issues.db"},
			Repos:    ReposConfig{Repositories: []string{"acme/widgets"}},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing token", func(c *Config) { c.GitHub.Token = "" }, "GitHub token is required"},
		{"placeholder token", func(c *Config) { c.GitHub.Token = "ghp_your_token_here" }, "actual GitHub token"},
		{"missing db path", func(c *Config) { c.Database.Path = "" }, "database path is required"},
		{"no repos", func(c *Config) { c.Repos.Repositories = nil }, "no repositories specified"},
		{"bad repo", func(c *Config) { c.Repos.Repositories = []string{"acme"} }, "invalid repo format: acme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()

			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}
