package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
//
// It carries only curation constants. Secrets come from the environment, see [CredentialsFromEnv].
type Config struct {
	Playlist PlaylistConfig `toml:"playlist"`
	Curation CurationConfig `toml:"curation"`
	Client   ClientConfig   `toml:"client"`
	Cache    CacheConfig    `toml:"cache"`
}

// PlaylistConfig describes the target playlist.
type PlaylistConfig struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
	Public      bool   `toml:"public"`
}

// CurationConfig contains the episode selection policy.
type CurationConfig struct {
	Market      string   `toml:"market"`
	FreshHours  int      `toml:"fresh_hours"`
	MaxEpisodes int      `toml:"max_episodes"`
	NewsShows   []string `toml:"news_shows"`
	SportsShows []string `toml:"sports_shows"`
}

// ClientConfig contains HTTP client and pacing settings.
type ClientConfig struct {
	TimeoutSeconds int `toml:"timeout_seconds"`
	PageSize       int `toml:"page_size"`
	PauseMS        int `toml:"pause_ms"`
	RecentLimit    int `toml:"recent_limit"`
}

// CacheConfig contains show-resolution cache settings.
type CacheConfig struct {
	Enabled      bool   `toml:"enabled"`
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ShowQueries returns all configured show queries in curation order (news first, then sports).
func (c CurationConfig) ShowQueries() []string {
	queries := make([]string, 0, len(c.NewsShows)+len(c.SportsShows))
	queries = append(queries, c.NewsShows...)
	queries = append(queries, c.SportsShows...)
	return queries
}

// FreshWindow returns the freshness window as a [time.Duration].
func (c CurationConfig) FreshWindow() time.Duration {
	return time.Duration(c.FreshHours) * time.Hour
}

// Timeout returns the per-request timeout as a [time.Duration].
func (c ClientConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Pause returns the inter-show pause as a [time.Duration].
func (c ClientConfig) Pause() time.Duration {
	return time.Duration(c.PauseMS) * time.Millisecond
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMissingConfig, path, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, ErrInvalidArgument)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
