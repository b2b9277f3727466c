package config

import (
	"testing"
	"time"
)

func TestRequireEnv(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		wantPanic bool
	}{
		{
			name:      "variable set",
			key:       "TEST_VAR",
			value:     "test_value",
			wantPanic: false,
		},
		{
			name:      "variable not set",
			key:       "TEST_VAR_MISSING",
			wantPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(envPrefix+tt.key, tt.value)
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

func TestRequireEnvSlice(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		expected  []string
		wantPanic bool
	}{
		{
			name:     "single value",
			key:      "TEST_SLICE",
			value:    "value1",
			expected: []string{"value1"},
		},
		{
			name:     "multiple values with quotes",
			key:      "TEST_SLICE_MULTI",
			value:    `value1, "value2", 'value3'`,
			expected: []string{"value1", "value2", "value3"},
		},
		{
			name:      "only separators",
			key:       "TEST_SLICE_EMPTY",
			value:     " , ,",
			wantPanic: true,
		},
		{
			name:      "missing variable",
			key:       "TEST_SLICE_MISSING",
			wantPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(envPrefix+tt.key, tt.value)
			}

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("requireEnvSlice() should have panicked")
					}
				}()
			}

			result := requireEnvSlice(tt.key)
			if !tt.wantPanic {
				if len(result) != len(tt.expected) {
					t.Fatalf("requireEnvSlice() length = %v, want %v", len(result), len(tt.expected))
				}
				for i := range result {
					if result[i] != tt.expected[i] {
						t.Errorf("requireEnvSlice()[%d] = %v, want %v", i, result[i], tt.expected[i])
					}
				}
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
			def:      15 * time.Second,
			expected: 15 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(envPrefix+tt.key, tt.value)
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
		{name: "true value", key: "TEST_BOOL", value: "true", def: false, expected: true},
		{name: "false value", key: "TEST_BOOL_FALSE", value: "false", def: true, expected: false},
		{name: "invalid value uses default", key: "TEST_BOOL_INVALID", value: "invalid", def: true, expected: true},
		{name: "missing variable uses default", key: "TEST_BOOL_MISSING", def: false, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(envPrefix+tt.key, tt.value)
			}

			result := mustBool(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustBool() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestGetenvInt(t *testing.T) {
	t.Setenv(envPrefix+"TEST_INT", "42")
	t.Setenv(envPrefix+"TEST_INT_INVALID", "forty-two")

	if got := getenvInt("TEST_INT", 1); got != 42 {
		t.Errorf("getenvInt() = %v, want 42", got)
	}
	if got := getenvInt("TEST_INT_INVALID", 7); got != 7 {
		t.Errorf("getenvInt() invalid = %v, want default 7", got)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv(envPrefix+"FALLBACK_URL", "https://home.domain.ext")
	t.Setenv(envPrefix+"ALLOWED_HOSTS", "links.domain.ext")
	t.Setenv(envPrefix+"LINKS_DIR", "/srv/links")
	t.Setenv(envPrefix+"ALLOWED_CIDRS", "10.0.0.0/8, 192.168.1.10")
	t.Setenv(envPrefix+"REDIS_ADDR", "")

	cfg := Load()

	if cfg.LinksDir != "/srv/links" {
		t.Errorf("LinksDir = %v, want /srv/links", cfg.LinksDir)
	}
	if cfg.FallbackURL != "https://home.domain.ext" {
		t.Errorf("FallbackURL = %v", cfg.FallbackURL)
	}
	if cfg.RedisEnabled() {
		t.Error("RedisEnabled() = true without an address")
	}
	if len(cfg.AllowedCIDRS) != 2 {
		t.Errorf("AllowedCIDRS = %v, want 2 entries", cfg.AllowedCIDRS)
	}
	if cfg.ReloadInterval != time.Minute || cfg.RateLimitBurst != 20 {
		t.Errorf("defaults not applied: reload=%v burst=%v", cfg.ReloadInterval, cfg.RateLimitBurst)
	}
}

func TestLoadRedisPasswordRequired(t *testing.T) {
	t.Setenv(envPrefix+"FALLBACK_URL", "https://home.domain.ext")
	t.Setenv(envPrefix+"ALLOWED_HOSTS", "links.domain.ext")
	t.Setenv(envPrefix+"REDIS_ADDR", "localhost:6379")
	t.Setenv(envPrefix+"REDIS_PASSWORD", "")

	defer func() {
		if r := recover(); r == nil {
			t.Error("Load() should panic when a required Redis password is missing")
		}
	}()
	Load()
}

func TestRedacted(t *testing.T) {
	cfg := &Config{RedisUser: "default", RedisPassword: "secret"}
	red := cfg.Redacted()

	if red.RedisPassword == "secret" || red.RedisUser == "default" {
		t.Errorf("Redacted() leaked credentials: %+v", red)
	}
	if cfg.RedisPassword != "secret" {
		t.Error("Redacted() modified the original")
	}
}
