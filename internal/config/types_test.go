package config_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/g5becks/groupnames/internal/config"
)

func validConfig(sources map[string]config.Source) *config.Config {
	cfg := config.Default()
	cfg.Sources = sources
	return cfg
}

func TestConfigValidate(t *testing.T) {
	testCases := []struct {
		name            string
		cfg             *config.Config
		wantErrContains string
	}{
		{
			name: "valid url source",
			cfg: validConfig(map[string]config.Source{
				"q8": {Type: "url", URL: "https://people.maths.bris.ac.uk/~matyd/GroupNames/1/Q8.html"},
			}),
		},
		{
			name: "valid file source",
			cfg: validConfig(map[string]config.Source{
				"saved": {Type: "file", Path: "pages"},
			}),
		},
		{
			name: "no sources",
			cfg:  validConfig(nil),
		},
		{
			name: "missing url",
			cfg: validConfig(map[string]config.Source{
				"bad": {Type: "url"},
			}),
			wantErrContains: "missing url",
		},
		{
			name: "invalid url",
			cfg: validConfig(map[string]config.Source{
				"bad": {Type: "url", URL: "not a url"},
			}),
			wantErrContains: "invalid url",
		},
		{
			name: "missing path",
			cfg: validConfig(map[string]config.Source{
				"bad": {Type: "file"},
			}),
			wantErrContains: "missing path",
		},
		{
			name: "missing type",
			cfg: validConfig(map[string]config.Source{
				"bad": {Path: "pages"},
			}),
			wantErrContains: "missing type",
		},
		{
			name: "unknown source type",
			cfg: validConfig(map[string]config.Source{
				"bad": {Type: "github", Path: "docs"},
			}),
			wantErrContains: "unknown source type",
		},
		{
			name: "zero parallel",
			cfg: func() *config.Config {
				cfg := validConfig(nil)
				cfg.Parallel = 0
				return cfg
			}(),
			wantErrContains: `"parallel" is out of range`,
		},
		{
			name: "zero max depth",
			cfg: func() *config.Config {
				cfg := validConfig(nil)
				cfg.Math.MaxDepth = 0
				return cfg
			}(),
			wantErrContains: `"math.max_depth" is out of range`,
		},
		{
			name: "zero max records",
			cfg: func() *config.Config {
				cfg := validConfig(nil)
				cfg.MaxRecords = 0
				return cfg
			}(),
			wantErrContains: `"max_records" is out of range`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErrContains == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Fatalf("Validate() error = nil, want message containing %q", tc.wantErrContains)
			}

			if !strings.Contains(err.Error(), tc.wantErrContains) {
				t.Fatalf("Validate() error = %q, expected %q", err.Error(), tc.wantErrContains)
			}
		})
	}
}

func TestApplyDefaultsPatterns(t *testing.T) {
	cfg := &config.Config{
		Sources: map[string]config.Source{
			"saved":  {Type: "file", Path: "pages"},
			"custom": {Type: "file", Path: "pages", Patterns: []string{"*.htm"}},
			"remote": {Type: "url", URL: "https://example.com/Q8.html"},
		},
	}

	cfg.ApplyDefaults()

	if cfg.Output != config.DefaultOutput {
		t.Fatalf("Output = %q, want %q", cfg.Output, config.DefaultOutput)
	}

	if got := cfg.Sources["saved"].Patterns; len(got) != len(config.DefaultPatterns()) {
		t.Fatalf("saved Patterns = %v, want defaults", got)
	}

	if got := cfg.Sources["custom"].Patterns; len(got) != 1 || got[0] != "*.htm" {
		t.Fatalf("custom Patterns = %v, want [*.htm]", got)
	}

	if got := cfg.Sources["remote"].Patterns; len(got) != 0 {
		t.Fatalf("remote Patterns = %v, want none", got)
	}
}

func TestSourcePath(t *testing.T) {
	cfg := &config.Config{ConfigDir: "/tmp/project"}

	if got := cfg.SourcePath(config.Source{Path: "pages"}); got != filepath.Join("/tmp/project", "pages") {
		t.Fatalf("SourcePath(relative) = %q", got)
	}

	if got := cfg.SourcePath(config.Source{Path: "/srv/pages"}); got != "/srv/pages" {
		t.Fatalf("SourcePath(absolute) = %q", got)
	}
}
