package common

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	if config.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", config.Server.Port)
	}
	if config.Clients.Gemini.Model != "gemini-2.5-flash" {
		t.Errorf("unexpected default model %q", config.Clients.Gemini.Model)
	}
	if config.Calendar.WindowDays != 30 || config.Calendar.Exchange != "Nasdaq" {
		t.Errorf("unexpected calendar defaults: %+v", config.Calendar)
	}
	if config.Calendar.RefreshCron != "0 */12 * * *" {
		t.Errorf("unexpected refresh cron %q", config.Calendar.RefreshCron)
	}
	if config.IsProduction() {
		t.Error("default environment must not be production")
	}
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pulse.toml")
	content := `
environment = "production"

[server]
port = 9090

[calendar]
exchange = "NYSE"
window_days = 14

[clients.gemini]
model = "gemini-2.5-pro"
timeout = "45s"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if !config.IsProduction() {
		t.Error("expected production environment")
	}
	if config.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", config.Server.Port)
	}
	if config.Calendar.Exchange != "NYSE" || config.Calendar.WindowDays != 14 {
		t.Errorf("unexpected calendar config: %+v", config.Calendar)
	}
	if config.Clients.Gemini.GetTimeout() != 45*time.Second {
		t.Errorf("expected 45s timeout, got %v", config.Clients.Gemini.GetTimeout())
	}
	// Untouched sections keep their defaults.
	if config.Server.Host != "0.0.0.0" {
		t.Errorf("expected default host, got %q", config.Server.Host)
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if config.Server.Port != 8080 {
		t.Errorf("expected defaults for missing file, got port %d", config.Server.Port)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PULSE_ENV", "production")
	t.Setenv("PULSE_PORT", "7070")
	t.Setenv("PULSE_WINDOW_DAYS", "7")
	t.Setenv("PULSE_REFRESH_CRON", "30 */6 * * *")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if !config.IsProduction() || config.Server.Port != 7070 {
		t.Errorf("env overrides not applied: %+v", config)
	}
	if config.Calendar.WindowDays != 7 || config.Calendar.RefreshCron != "30 */6 * * *" {
		t.Errorf("calendar env overrides not applied: %+v", config.Calendar)
	}
}

func TestGeminiConfig_GetTimeoutFallback(t *testing.T) {
	c := GeminiConfig{Timeout: "not-a-duration"}
	if c.GetTimeout() != 30*time.Second {
		t.Errorf("expected 30s fallback, got %v", c.GetTimeout())
	}
}

type fakeSettings struct {
	values map[string]string
}

func (s *fakeSettings) Get(_ context.Context, key string) (string, error) {
	if value, ok := s.values[key]; ok {
		return value, nil
	}
	return "", fmt.Errorf("setting '%s' not found", key)
}

func (s *fakeSettings) Set(_ context.Context, key, value string) error {
	s.values[key] = value
	return nil
}

func (s *fakeSettings) Delete(_ context.Context, key string) error {
	delete(s.values, key)
	return nil
}

func TestResolveAPIKey_EnvTakesPriority(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "from-env")

	store := &fakeSettings{values: map[string]string{"gemini_api_key": "from-store"}}
	key, err := ResolveAPIKey(context.Background(), store, "gemini_api_key", "from-config")
	if err != nil {
		t.Fatalf("ResolveAPIKey failed: %v", err)
	}
	if key != "from-env" {
		t.Errorf("expected env to win, got %q", key)
	}
}

func TestResolveAPIKey_StoreThenFallback(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("PULSE_GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	store := &fakeSettings{values: map[string]string{"gemini_api_key": "from-store"}}
	key, err := ResolveAPIKey(context.Background(), store, "gemini_api_key", "from-config")
	if err != nil || key != "from-store" {
		t.Errorf("expected store value, got %q, %v", key, err)
	}

	key, err = ResolveAPIKey(context.Background(), &fakeSettings{values: map[string]string{}}, "gemini_api_key", "from-config")
	if err != nil || key != "from-config" {
		t.Errorf("expected config fallback, got %q, %v", key, err)
	}

	if _, err := ResolveAPIKey(context.Background(), &fakeSettings{values: map[string]string{}}, "gemini_api_key", ""); err == nil {
		t.Error("expected error when key is nowhere")
	}
}
