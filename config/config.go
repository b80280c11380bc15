// Package config manages application configuration: service credentials
// from the environment and announcement sources from a JSON file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"ytannounce/announce"
)

// Environment variables holding the required credentials.
const (
	EnvYouTubeAPIKey            = "YOUTUBE_API_KEY"
	EnvTwitterConsumerKey       = "TWITTER_CONSUMER_KEY"
	EnvTwitterConsumerSecret    = "TWITTER_CONSUMER_SECRET"
	EnvTwitterAccessTokenKey    = "TWITTER_ACCESS_TOKEN_KEY"
	EnvTwitterAccessTokenSecret = "TWITTER_ACCESS_TOKEN_SECRET"
	EnvTwitterAccountName       = "TWITTER_ACCOUNT_NAME"
)

// Config holds all application configuration.
type Config struct {
	// YouTubeAPIKey authenticates catalog queries.
	YouTubeAPIKey string

	// Twitter OAuth credentials and the announcing account's name.
	TwitterConsumerKey       string
	TwitterConsumerSecret    string
	TwitterAccessTokenKey    string
	TwitterAccessTokenSecret string
	TwitterAccountName       string

	// Cooldown is the wait between successive announcements.
	Cooldown time.Duration
}

// DefaultConfig returns configuration with safe defaults. Credentials
// have no defaults; Validate reports them when missing.
func DefaultConfig() *Config {
	return &Config{
		Cooldown: 1 * time.Second,
	}
}

// Load reads configuration from the environment and validates it.
// Validation happens before any network call is made.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	cfg.YouTubeAPIKey = os.Getenv(EnvYouTubeAPIKey)
	cfg.TwitterConsumerKey = os.Getenv(EnvTwitterConsumerKey)
	cfg.TwitterConsumerSecret = os.Getenv(EnvTwitterConsumerSecret)
	cfg.TwitterAccessTokenKey = os.Getenv(EnvTwitterAccessTokenKey)
	cfg.TwitterAccessTokenSecret = os.Getenv(EnvTwitterAccessTokenSecret)
	cfg.TwitterAccountName = os.Getenv(EnvTwitterAccountName)

	if v := os.Getenv("YTANNOUNCE_COOLDOWN"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse YTANNOUNCE_COOLDOWN: %w", err)
		}
		cfg.Cooldown = d
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MissingKeysError lists every required configuration key that is absent,
// so the operator can fix them all in one pass.
type MissingKeysError struct {
	Keys []string
}

func (e *MissingKeysError) Error() string {
	return "missing required configuration: " + strings.Join(e.Keys, ", ")
}

// Validate checks configuration validity. All missing credential keys
// are collected and reported together.
func (c *Config) Validate() error {
	required := []struct {
		key   string
		value string
	}{
		{EnvYouTubeAPIKey, c.YouTubeAPIKey},
		{EnvTwitterConsumerKey, c.TwitterConsumerKey},
		{EnvTwitterConsumerSecret, c.TwitterConsumerSecret},
		{EnvTwitterAccessTokenKey, c.TwitterAccessTokenKey},
		{EnvTwitterAccessTokenSecret, c.TwitterAccessTokenSecret},
		{EnvTwitterAccountName, c.TwitterAccountName},
	}

	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.key)
		}
	}
	if len(missing) > 0 {
		return &MissingKeysError{Keys: missing}
	}

	if c.Cooldown < 0 {
		return fmt.Errorf("cooldown must be non-negative")
	}
	return nil
}

// sourcesFile mirrors the sources JSON document.
type sourcesFile struct {
	Channels []sourceEntry `json:"channels"`
	Videos   []sourceEntry `json:"videos"`
}

type sourceEntry struct {
	ID      string `json:"id"`
	Twitter string `json:"twitter"`
}

// LoadSources reads the configured channels and videos from a JSON file.
// Channels come first in the returned slice, then single videos, each
// preserving file order.
func LoadSources(path string) ([]announce.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources: %w", err)
	}

	var file sourcesFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	var sources []announce.Source
	for _, ch := range file.Channels {
		if ch.ID == "" {
			return nil, fmt.Errorf("parse %s: channel entry without id", path)
		}
		sources = append(sources, announce.Source{ChannelID: ch.ID, Mention: ch.Twitter})
	}
	for _, v := range file.Videos {
		if v.ID == "" {
			return nil, fmt.Errorf("parse %s: video entry without id", path)
		}
		sources = append(sources, announce.Source{VideoID: v.ID, Mention: v.Twitter})
	}
	return sources, nil
}
