package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func setAllCredentials(t *testing.T) {
	t.Helper()
	t.Setenv(EnvYouTubeAPIKey, "yt-key")
	t.Setenv(EnvTwitterConsumerKey, "ck")
	t.Setenv(EnvTwitterConsumerSecret, "cs")
	t.Setenv(EnvTwitterAccessTokenKey, "atk")
	t.Setenv(EnvTwitterAccessTokenSecret, "ats")
	t.Setenv(EnvTwitterAccountName, "announcer")
}

func TestLoad_AllCredentialsPresent(t *testing.T) {
	setAllCredentials(t)
	t.Setenv("YTANNOUNCE_COOLDOWN", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.TwitterAccountName != "announcer" {
		t.Errorf("TwitterAccountName = %q, want announcer", cfg.TwitterAccountName)
	}
	if cfg.Cooldown != 1*time.Second {
		t.Errorf("Cooldown = %v, want default 1s", cfg.Cooldown)
	}
}

func TestLoad_ListsEveryMissingKey(t *testing.T) {
	setAllCredentials(t)
	t.Setenv(EnvYouTubeAPIKey, "")
	t.Setenv(EnvTwitterAccountName, "")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() error = nil, want missing-keys error")
	}

	var missing *MissingKeysError
	if !errors.As(err, &missing) {
		t.Fatalf("Load() error = %T, want *MissingKeysError", err)
	}
	if len(missing.Keys) != 2 {
		t.Errorf("missing keys = %v, want both absent keys listed", missing.Keys)
	}
	for _, key := range []string{EnvYouTubeAPIKey, EnvTwitterAccountName} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error %q does not name %s", err.Error(), key)
		}
	}
}

func TestLoad_CooldownOverride(t *testing.T) {
	setAllCredentials(t)
	t.Setenv("YTANNOUNCE_COOLDOWN", "2500ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Cooldown != 2500*time.Millisecond {
		t.Errorf("Cooldown = %v, want 2.5s", cfg.Cooldown)
	}
}

func TestLoad_BadCooldown(t *testing.T) {
	setAllCredentials(t)
	t.Setenv("YTANNOUNCE_COOLDOWN", "soon")

	if _, err := Load(); err == nil {
		t.Error("Load() error = nil, want parse error")
	}
}

func writeSources(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sources.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadSources(t *testing.T) {
	path := writeSources(t, `{
		"channels": [
			{"id": "UCone", "twitter": "acme"},
			{"id": "UCtwo"}
		],
		"videos": [
			{"id": "abc123", "twitter": "solo"}
		]
	}`)

	sources, err := LoadSources(path)
	if err != nil {
		t.Fatalf("LoadSources() error = %v", err)
	}
	if len(sources) != 3 {
		t.Fatalf("LoadSources() returned %d sources, want 3", len(sources))
	}

	if sources[0].ChannelID != "UCone" || sources[0].Mention != "acme" {
		t.Errorf("sources[0] = %+v, want channel UCone with mention acme", sources[0])
	}
	if sources[1].ChannelID != "UCtwo" || sources[1].Mention != "" {
		t.Errorf("sources[1] = %+v, want channel UCtwo without mention", sources[1])
	}
	if sources[2].VideoID != "abc123" || sources[2].Mention != "solo" {
		t.Errorf("sources[2] = %+v, want video abc123 with mention solo", sources[2])
	}
}

func TestLoadSources_EmptyDocument(t *testing.T) {
	path := writeSources(t, `{}`)

	sources, err := LoadSources(path)
	if err != nil {
		t.Fatalf("LoadSources() error = %v", err)
	}
	if len(sources) != 0 {
		t.Errorf("LoadSources() returned %d sources, want 0", len(sources))
	}
}

func TestLoadSources_MissingFile(t *testing.T) {
	if _, err := LoadSources(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("LoadSources() error = nil, want error")
	}
}

func TestLoadSources_EntryWithoutID(t *testing.T) {
	path := writeSources(t, `{"channels": [{"twitter": "acme"}]}`)

	if _, err := LoadSources(path); err == nil {
		t.Error("LoadSources() error = nil, want error for channel without id")
	}
}

func TestLoadSources_MalformedJSON(t *testing.T) {
	path := writeSources(t, `{"channels": [`)

	if _, err := LoadSources(path); err == nil {
		t.Error("LoadSources() error = nil, want parse error")
	}
}
