package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
app:
  name: helpme-test
store:
  path: "test.db"
api:
  enabled: true
  auth:
    api_keys:
      - key: "k1"
        extra: "e1"
        name: "frontend"
admins:
  - admin
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.App.Name != "helpme-test" {
		t.Errorf("expected app name helpme-test, got %s", cfg.App.Name)
	}
	if cfg.Store.Path != "test.db" {
		t.Errorf("expected store path test.db, got %s", cfg.Store.Path)
	}

	// Defaults applied when the API is enabled.
	if cfg.API.HTTP.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.API.HTTP.Port)
	}
	if !cfg.API.HTTP.Enabled || !cfg.API.Auth.Enabled {
		t.Errorf("expected http and auth enabled by default when api is enabled")
	}
	if cfg.API.Auth.HeaderAPIKey != "x-api-key" || cfg.API.Auth.HeaderExtra != "x-api-extra" {
		t.Errorf("unexpected default auth headers: %+v", cfg.API.Auth)
	}
	if cfg.Share.BaseURL == "" || cfg.Export.Path == "" || cfg.Redis.KeyPrefix == "" {
		t.Errorf("expected share, export and redis defaults to be set")
	}
}

func TestLoadConfigExpandsEnv(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	t.Setenv("TEST_STORE_PATH", "from-env.db")

	yamlContent := `
store:
  path: "${TEST_STORE_PATH}"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Store.Path != "from-env.db" {
		t.Errorf("expected env-expanded store path, got %s", cfg.Store.Path)
	}
}

func TestValidateConfig(t *testing.T) {
	t.Run("MissingStorePath", func(t *testing.T) {
		cfg := Config{}
		if err := cfg.Validate(); err == nil {
			t.Errorf("expected error for missing store path")
		}
	})

	t.Run("DuplicateAPIKeys", func(t *testing.T) {
		cfg := Config{
			Store: StoreConfig{Path: "test.db"},
			API: APIConfig{
				HTTP: APIHTTPConfig{Port: 8080},
				Auth: APIAuthConfig{APIKeys: []APIClientKey{
					{Key: "same", Name: "a"},
					{Key: "same", Name: "b"},
				}},
			},
		}
		if err := cfg.Validate(); err == nil {
			t.Errorf("expected error for duplicate api keys")
		}
	})

	t.Run("EmptyAPIKey", func(t *testing.T) {
		cfg := Config{
			Store: StoreConfig{Path: "test.db"},
			API: APIConfig{
				HTTP: APIHTTPConfig{Port: 8080},
				Auth: APIAuthConfig{APIKeys: []APIClientKey{{Key: "", Name: "a"}}},
			},
		}
		if err := cfg.Validate(); err == nil {
			t.Errorf("expected error for empty api key")
		}
	})
}

func TestIsAdmin(t *testing.T) {
	cfg := Config{Admins: []string{"admin", "moderator"}}

	if !cfg.IsAdmin("admin") {
		t.Errorf("expected admin to be an admin")
	}
	if cfg.IsAdmin("alice") {
		t.Errorf("expected alice not to be an admin")
	}
}
