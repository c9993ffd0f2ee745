package envconf

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

type innerConf struct {
	Limit int64 `env:"ENVCONF_TEST_LIMIT" default:"7"`
}

type testConf struct {
	Port     uint16        `env:"ENVCONF_TEST_PORT"`
	Level    slog.Level    `env:"ENVCONF_TEST_LEVEL" default:"INFO"`
	Timeout  time.Duration `env:"ENVCONF_TEST_TIMEOUT" default:"2s"`
	Enabled  bool          `env:"ENVCONF_TEST_ENABLED" default:"false"`
	Origins  []string      `env:"ENVCONF_TEST_ORIGINS" default:"*"`
	Inner    innerConf
	Optional *innerConf
	skipped  string
}

//nolint:paralleltest // t.Setenv
func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		check   func(t *testing.T, c testConf)
		wantErr error
	}{
		{
			name: "defaults_fill_unset",
			env:  map[string]string{"ENVCONF_TEST_PORT": "8080"},
			check: func(t *testing.T, c testConf) {
				if c.Port != 8080 {
					t.Fatalf("port: want 8080, got %d", c.Port)
				}
				if c.Level != slog.LevelInfo {
					t.Fatalf("level: want INFO, got %v", c.Level)
				}
				if c.Timeout != 2*time.Second {
					t.Fatalf("timeout: want 2s, got %v", c.Timeout)
				}
				if len(c.Origins) != 1 || c.Origins[0] != "*" {
					t.Fatalf("origins: want [*], got %v", c.Origins)
				}
				if c.Inner.Limit != 7 || c.Optional == nil || c.Optional.Limit != 7 {
					t.Fatalf("nested defaults not applied: %+v %+v", c.Inner, c.Optional)
				}
			},
		},
		{
			name: "env_overrides_default",
			env: map[string]string{
				"ENVCONF_TEST_PORT":    "9000",
				"ENVCONF_TEST_LEVEL":   "DEBUG",
				"ENVCONF_TEST_TIMEOUT": "150ms",
				"ENVCONF_TEST_ENABLED": "true",
				"ENVCONF_TEST_ORIGINS": "https://a.example, https://b.example,",
				"ENVCONF_TEST_LIMIT":   "1000000",
			},
			check: func(t *testing.T, c testConf) {
				if c.Level != slog.LevelDebug || c.Timeout != 150*time.Millisecond || !c.Enabled {
					t.Fatalf("overrides not applied: %+v", c)
				}
				if len(c.Origins) != 2 || c.Origins[1] != "https://b.example" {
					t.Fatalf("origins: got %v", c.Origins)
				}
				if c.Inner.Limit != 1_000_000 {
					t.Fatalf("limit: want 1000000, got %d", c.Inner.Limit)
				}
			},
		},
		{
			name:    "missing_required",
			env:     map[string]string{},
			wantErr: ErrMissingRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			var c testConf
			err := Load(&c)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("want %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			tt.check(t, c)
		})
	}
}

//nolint:paralleltest // t.Setenv
func TestLoad_BadValue(t *testing.T) {
	t.Setenv("ENVCONF_TEST_PORT", "not-a-port")

	var c testConf
	err := Load(&c)
	if err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoad_RejectsNonPointer(t *testing.T) {
	t.Parallel()

	if err := Load(testConf{}); err == nil {
		t.Fatal("expected error for non-pointer destination")
	}
	if err := Load(nil); err == nil {
		t.Fatal("expected error for nil destination")
	}
}
