package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	t.Run("Playlist Defaults", func(t *testing.T) {
		if config.Playlist.Name != "Notícias do Dia (Auto)" {
			t.Errorf("unexpected playlist name %q", config.Playlist.Name)
		}
		if config.Playlist.Public {
			t.Error("expected a private playlist by default")
		}
	})

	t.Run("Curation Defaults", func(t *testing.T) {
		if config.Curation.Market != "BR" {
			t.Errorf("unexpected market %q", config.Curation.Market)
		}
		if config.Curation.FreshHours != 36 {
			t.Errorf("unexpected freshness window %d", config.Curation.FreshHours)
		}
		if config.Curation.MaxEpisodes != 20 {
			t.Errorf("unexpected episode cap %d", config.Curation.MaxEpisodes)
		}
		if len(config.Curation.NewsShows) != 4 {
			t.Errorf("expected 4 news shows, got %d", len(config.Curation.NewsShows))
		}
		if len(config.Curation.SportsShows) != 2 {
			t.Errorf("expected 2 sports shows, got %d", len(config.Curation.SportsShows))
		}
	})

	t.Run("Client Defaults", func(t *testing.T) {
		if config.Client.TimeoutSeconds != 20 {
			t.Errorf("unexpected timeout %d", config.Client.TimeoutSeconds)
		}
		if config.Client.PageSize != 50 {
			t.Errorf("unexpected page size %d", config.Client.PageSize)
		}
		if config.Client.PauseMS != 250 {
			t.Errorf("unexpected pause %d", config.Client.PauseMS)
		}
		if config.Client.RecentLimit != 3 {
			t.Errorf("unexpected recent limit %d", config.Client.RecentLimit)
		}
	})

	t.Run("Cache Disabled By Default", func(t *testing.T) {
		if config.Cache.Enabled {
			t.Error("expected cache disabled by default")
		}
	})
}

func TestConfigHelpers(t *testing.T) {
	t.Run("ShowQueries Orders News Before Sports", func(t *testing.T) {
		curation := CurationConfig{
			NewsShows:   []string{"news-a", "news-b"},
			SportsShows: []string{"sports-a"},
		}

		queries := curation.ShowQueries()
		expected := []string{"news-a", "news-b", "sports-a"}
		if len(queries) != len(expected) {
			t.Fatalf("expected %d queries, got %d", len(expected), len(queries))
		}
		for i, q := range expected {
			if queries[i] != q {
				t.Errorf("position %d: expected %s, got %s", i, q, queries[i])
			}
		}
	})

	t.Run("Duration Conversions", func(t *testing.T) {
		curation := CurationConfig{FreshHours: 36}
		if curation.FreshWindow() != 36*time.Hour {
			t.Errorf("unexpected window %v", curation.FreshWindow())
		}

		client := ClientConfig{TimeoutSeconds: 20, PauseMS: 250}
		if client.Timeout() != 20*time.Second {
			t.Errorf("unexpected timeout %v", client.Timeout())
		}
		if client.Pause() != 250*time.Millisecond {
			t.Errorf("unexpected pause %v", client.Pause())
		}
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("Valid File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := `
[playlist]
name = "Custom List"

[curation]
market = "US"
fresh_hours = 48
news_shows = ["one show"]
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if config.Playlist.Name != "Custom List" {
			t.Errorf("unexpected name %q", config.Playlist.Name)
		}
		if config.Curation.Market != "US" || config.Curation.FreshHours != 48 {
			t.Errorf("unexpected curation: %+v", config.Curation)
		}
	})

	t.Run("Missing File", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
		if !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("Malformed File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.toml")
		if err := os.WriteFile(path, []byte("not [valid toml"), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		if _, err := LoadConfig(path); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestCreateConfigFile(t *testing.T) {
	t.Run("Writes Example Config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := CreateConfigFile(path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("written config failed to parse: %v", err)
		}
		if config.Curation.Market != "BR" {
			t.Errorf("unexpected market %q", config.Curation.Market)
		}
	})

	t.Run("Refuses To Overwrite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := CreateConfigFile(path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := CreateConfigFile(path); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}
