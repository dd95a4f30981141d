package config

import (
	"os"
	"testing"
	"time"
)

func TestRequireEnv(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		shouldSet bool
		wantPanic bool
	}{
		{
			name:      "variable set",
			key:       "TEST_VAR",
			value:     "test_value",
			shouldSet: true,
			wantPanic: false,
		},
		{
			name:      "variable not set",
			key:       "TEST_VAR_MISSING",
			shouldSet: false,
			wantPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.shouldSet {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("requireEnv() should have panicked")
					}
				}()
			}

			result := requireEnv(tt.key)
			if !tt.wantPanic && result != tt.value {
				t.Errorf("requireEnv() = %v, want %v", result, tt.value)
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{
			name:     "valid duration",
			key:      "TEST_DURATION",
			value:    "5s",
			def:      1 * time.Second,
			expected: 5 * time.Second,
		},
		{
			name:     "invalid duration uses default",
			key:      "TEST_DURATION_INVALID",
			value:    "invalid",
			def:      10 * time.Second,
			expected: 10 * time.Second,
		},
		{
			name:     "missing variable uses default",
			key:      "TEST_DURATION_MISSING",
			value:    "",
			def:      15 * time.Second,
			expected: 15 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			result := mustDuration(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      bool
		expected bool
	}{
		{
			name:     "true value",
			key:      "TEST_BOOL",
			value:    "true",
			def:      false,
			expected: true,
		},
		{
			name:     "false value",
			key:      "TEST_BOOL_FALSE",
			value:    "false",
			def:      true,
			expected: false,
		},
		{
			name:     "invalid value uses default",
			key:      "TEST_BOOL_INVALID",
			value:    "invalid",
			def:      true,
			expected: true,
		},
		{
			name:     "missing variable uses default",
			key:      "TEST_BOOL_MISSING",
			value:    "",
			def:      false,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			result := mustBool(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustBool() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty", input: "", expected: nil},
		{name: "single", input: "links.domain.ext", expected: []string{"links.domain.ext"}},
		{name: "spaces and quotes", input: ` "a.ext", 'b.ext' ,c.ext`, expected: []string{"a.ext", "b.ext", "c.ext"}},
		{name: "blank entries dropped", input: "a,, ,b", expected: []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitAndTrim(tt.input)
			if len(result) != len(tt.expected) {
				t.Fatalf("splitAndTrim() = %v, want %v", result, tt.expected)
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("splitAndTrim()[%d] = %v, want %v", i, result[i], tt.expected[i])
				}
			}
		})
	}
}

// clearEnv blanks every key Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LINKVAULT_LISTEN_PORT", "LINKVAULT_SHUTDOWN_TIMEOUT", "LINKVAULT_REQUEST_TIMEOUT",
		"LINKVAULT_LOG_LEVEL", "LINKVAULT_PRETTY_LOG", "LINKVAULT_STORAGE", "LINKVAULT_DATA_DIR",
		"LINKVAULT_SQLITE_DSN", "LINKVAULT_DATABASE_URL", "LINKVAULT_REDIS_ADDR",
		"LINKVAULT_REDIS_USERNAME", "LINKVAULT_REDIS_PASSWORD", "LINKVAULT_REDIS_PASSWORD_REQUIRED",
		"LINKVAULT_REDIS_DB", "LINKVAULT_GEMINI_API_KEY", "API_KEY", "LINKVAULT_GEMINI_MODEL",
		"LINKVAULT_ENRICH_TIMEOUT", "LINKVAULT_BOOKMARK_FILE", "LINKVAULT_SERVICES_FILE",
		"LINKVAULT_IMPORT_INTERVAL", "LINKVAULT_ALLOWED_HOSTS", "LINKVAULT_ALLOWED_CIDRS",
		"LINKVAULT_TRUST_PROXY", "LINKVAULT_CORS_ORIGINS", "LINKVAULT_UNLOCK_BURST",
		"LINKVAULT_UNLOCK_PER_MIN",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.ListenPort != ":8080" {
		t.Errorf("ListenPort = %q, want :8080", cfg.ListenPort)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want 30s", cfg.RequestTimeout)
	}
	if cfg.Storage != StorageFile || cfg.DataDir != "./data" {
		t.Errorf("storage = %q in %q, want file in ./data", cfg.Storage, cfg.DataDir)
	}
	if cfg.EnrichTimeout != 20*time.Second {
		t.Errorf("EnrichTimeout = %v, want 20s", cfg.EnrichTimeout)
	}
	if cfg.GeminiAPIKey != "" {
		t.Errorf("GeminiAPIKey = %q, want empty", cfg.GeminiAPIKey)
	}
	if cfg.ImportEnabled() {
		t.Error("ImportEnabled() = true without any homepage file")
	}
	if cfg.TrustProxy {
		t.Error("TrustProxy should default to false")
	}
}

func TestLoadGeminiKeyFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_KEY", "fallback")

	if got := Load().GeminiAPIKey; got != "fallback" {
		t.Errorf("GeminiAPIKey = %q, want fallback", got)
	}

	t.Setenv("LINKVAULT_GEMINI_API_KEY", "primary")
	if got := Load().GeminiAPIKey; got != "primary" {
		t.Errorf("GeminiAPIKey = %q, want primary", got)
	}
}

func TestLoadSQLiteDefaultsIntoDataDir(t *testing.T) {
	clearEnv(t)
	t.Setenv("LINKVAULT_STORAGE", "SQLite")
	t.Setenv("LINKVAULT_DATA_DIR", "/var/lib/linkvault")

	cfg := Load()
	if cfg.Storage != StorageSQLite {
		t.Errorf("Storage = %q, want sqlite", cfg.Storage)
	}
	if cfg.SQLiteDSN != "/var/lib/linkvault/linkvault.db" {
		t.Errorf("SQLiteDSN = %q", cfg.SQLiteDSN)
	}
}

func TestLoadPanicsOnBadStorage(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown backend", env: map[string]string{"LINKVAULT_STORAGE": "floppy"}},
		{name: "redis without address", env: map[string]string{"LINKVAULT_STORAGE": "redis"}},
		{name: "redis password required", env: map[string]string{
			"LINKVAULT_STORAGE":                 "redis",
			"LINKVAULT_REDIS_ADDR":              "localhost:6379",
			"LINKVAULT_REDIS_PASSWORD_REQUIRED": "true",
		}},
		{name: "postgres without url", env: map[string]string{"LINKVAULT_STORAGE": "postgres"}},
		{name: "zero unlock burst", env: map[string]string{"LINKVAULT_UNLOCK_BURST": "0"}},
		{name: "zero import interval", env: map[string]string{"LINKVAULT_IMPORT_INTERVAL": "0s"}},
		{name: "negative import interval", env: map[string]string{"LINKVAULT_IMPORT_INTERVAL": "-1h"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			defer func() {
				if r := recover(); r == nil {
					t.Errorf("Load() should have panicked")
				}
			}()
			Load()
		})
	}
}

func TestRedactedHidesSecrets(t *testing.T) {
	cfg := &Config{
		RedisPassword: "hunter2",
		GeminiAPIKey:  "key",
		DatabaseURL:   "postgres://u:p@db/linkvault",
		SQLiteDSN:     "libsql://db.turso.io?authToken=abc",
	}

	r := cfg.redacted()
	for _, v := range []string{r.RedisPassword, r.GeminiAPIKey, r.DatabaseURL} {
		if v != "***REDACTED***" {
			t.Errorf("secret not redacted: %q", v)
		}
	}
	if r.SQLiteDSN != "libsql://db.turso.io?***REDACTED***" {
		t.Errorf("SQLiteDSN = %q", r.SQLiteDSN)
	}
	if cfg.RedisPassword != "hunter2" {
		t.Error("redacted() must not modify the original")
	}
}
