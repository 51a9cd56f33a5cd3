package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/spigell/jobrank/internal/store"
)

func validConfig() *Config {
	return &Config{
		Candidate: "alice",
		Store: StoreConfig{
			Driver:       store.DriverFile,
			ResumesDir:   "resumes",
			PostingsFile: "postings.json",
			StatusFile:   "statuses.json",
		},
		Ranking: RankingConfig{Timeout: time.Second},
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.Store.Driver = "mysql" },
			wantErr: "oneof",
		},
		{
			name:    "postgres without dsn",
			mutate:  func(c *Config) { c.Store.Driver = store.DriverPostgres },
			wantErr: "dsn-file",
		},
		{
			name: "sqlite without path",
			mutate: func(c *Config) {
				c.Store.Driver = store.DriverSQLite
				c.Store.Path = ""
			},
			wantErr: "store.path",
		},
		{
			name:    "file driver without postings source",
			mutate:  func(c *Config) { c.Store.PostingsFile = "" },
			wantErr: "postings-file",
		},
		{
			name: "jobs api replaces postings file",
			mutate: func(c *Config) {
				c.Store.PostingsFile = ""
				c.JobsAPI = &JobsAPIConfig{URL: "https://jobs.example.com"}
			},
		},
		{
			name:    "jobs api url",
			mutate:  func(c *Config) { c.JobsAPI = &JobsAPIConfig{URL: "not a url"} },
			wantErr: "URL",
		},
		{
			name:    "semantic policy",
			mutate:  func(c *Config) { c.Matching.SemanticPolicy = "sometimes" },
			wantErr: "SemanticPolicy",
		},
		{
			name:    "negative workers",
			mutate:  func(c *Config) { c.Ranking.Workers = -1 },
			wantErr: "Workers",
		},
		{
			name:    "since date",
			mutate:  func(c *Config) { c.Query.Since = "May 2024" },
			wantErr: "Since",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSetDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if c.Store.Driver != store.DriverFile {
		t.Fatalf("expected file driver, got %q", c.Store.Driver)
	}
	if c.Ranking.Timeout != 30*time.Second {
		t.Fatalf("expected 30s timeout, got %s", c.Ranking.Timeout)
	}
	if c.Matching.SemanticPolicy != "short-circuit" {
		t.Fatalf("unexpected policy %q", c.Matching.SemanticPolicy)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}
