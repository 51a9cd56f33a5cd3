package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/spigell/jobrank/internal/matching"
	"github.com/spigell/jobrank/internal/postings"
	"github.com/spigell/jobrank/internal/ranking"
	"github.com/spigell/jobrank/internal/store"
)

type Config struct {
	Candidate   string         `mapstructure:"candidate"`
	JobTitle    string         `mapstructure:"job-title"`
	Query       postings.Query `mapstructure:"query"`
	ExcludeFile string         `mapstructure:"exclude-file"`
	Exclude     struct {
		Companies []string `mapstructure:"companies"`
	} `mapstructure:"exclude"`
	Store       StoreConfig    `mapstructure:"store"`
	JobsAPI     *JobsAPIConfig `mapstructure:"jobs-api" validate:"omitempty"`
	Matching    MatchingConfig `mapstructure:"matching"`
	Ranking     RankingConfig  `mapstructure:"ranking"`
	MetricsFile string         `mapstructure:"metrics-file"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=file sqlite postgres"`
	// Path is the sqlite database file.
	Path         string `mapstructure:"path"`
	DSNFile      string `mapstructure:"dsn-file"`
	ResumesDir   string `mapstructure:"resumes-dir"`
	PostingsFile string `mapstructure:"postings-file"`
	StatusFile   string `mapstructure:"status-file"`
}

// JobsAPIConfig replaces the store as the posting source when set.
type JobsAPIConfig struct {
	URL       string        `mapstructure:"url" validate:"required,url"`
	TokenFile string        `mapstructure:"token-file"`
	UserAgent string        `mapstructure:"user-agent"`
	PageDelay time.Duration `mapstructure:"page-delay" validate:"gte=0"`
}

type MatchingConfig struct {
	SemanticPolicy string `mapstructure:"semantic-policy" validate:"omitempty,oneof=short-circuit always"`
	VectorsFile    string `mapstructure:"vectors-file"`
	Entities       struct {
		Enabled  bool     `mapstructure:"enabled"`
		ModelDir string   `mapstructure:"model-dir"`
		Labels   []string `mapstructure:"labels"`
	} `mapstructure:"entities"`
}

type RankingConfig struct {
	Workers int           `mapstructure:"workers" validate:"gte=0"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("candidate", "")
	v.SetDefault("job-title", "")
	v.SetDefault("exclude-file", "")
	v.SetDefault("store.driver", store.DriverFile)
	v.SetDefault("store.path", app+".db")
	v.SetDefault("store.dsn-file", "")
	v.SetDefault("store.resumes-dir", "resumes")
	v.SetDefault("store.postings-file", "postings.json")
	v.SetDefault("store.status-file", "statuses.json")
	v.SetDefault("matching.semantic-policy", string(matching.SemanticShortCircuit))
	v.SetDefault("matching.vectors-file", "")
	v.SetDefault("ranking.workers", 0)
	v.SetDefault("ranking.timeout", ranking.DefaultTimeout)
	v.SetDefault("metrics-file", "")
}

// Validate checks field constraints and the settings each store driver needs.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}

	switch c.Store.Driver {
	case store.DriverPostgres:
		if c.Store.DSNFile == "" {
			return errors.New("store.dsn-file is required for the postgres driver")
		}
	case store.DriverSQLite:
		if c.Store.Path == "" {
			return errors.New("store.path is required for the sqlite driver")
		}
	case store.DriverFile:
		if c.Store.ResumesDir == "" || c.Store.StatusFile == "" {
			return errors.New("store.resumes-dir and store.status-file are required for the file driver")
		}
		if c.Store.PostingsFile == "" && c.JobsAPI == nil {
			return errors.New("store.postings-file or jobs-api is required for the file driver")
		}
	}

	return nil
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config == nil {
		return nil, errors.New("config is required")
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}
