package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/jobrank/internal/filtering"
	"github.com/spigell/jobrank/internal/jobsapi"
	"github.com/spigell/jobrank/internal/ranking"
	"github.com/spigell/jobrank/internal/secrets"
	"github.com/spigell/jobrank/internal/store"
	"github.com/spigell/jobrank/internal/store/filestore"
	"github.com/spigell/jobrank/internal/store/postgres"
	"github.com/spigell/jobrank/internal/store/sqlite"
)

// statusStore is what the commands need from an application status backend.
type statusStore interface {
	ranking.StatusProvider
	filtering.AppliedLister
	SetStatus(ctx context.Context, candidateID, postingID, status string) error
}

var (
	_ statusStore = (*filestore.Store)(nil)
	_ statusStore = (*sqlite.Store)(nil)
	_ statusStore = (*postgres.DB)(nil)
)

type backend struct {
	profiles ranking.ProfileProvider
	postings ranking.PostingProvider
	statuses statusStore
	close    func()
}

// openBackend opens the configured store and, when configured, swaps the
// posting source for the jobs API.
func openBackend(ctx context.Context, config *Config, logger *zap.Logger) (*backend, error) {
	b := &backend{close: func() {}}

	switch config.Store.Driver {
	case store.DriverFile:
		s := filestore.New(filestore.Config{
			ResumesDir:   config.Store.ResumesDir,
			PostingsFile: config.Store.PostingsFile,
			StatusFile:   config.Store.StatusFile,
		}, logger)
		b.profiles, b.postings, b.statuses = s, s, s

	case store.DriverSQLite:
		s, err := sqlite.Open(ctx, config.Store.Path)
		if err != nil {
			return nil, err
		}
		b.profiles, b.postings, b.statuses = s, s, s
		b.close = func() {
			if err := s.Close(); err != nil {
				logger.Warn("closing sqlite store", zap.Error(err))
			}
		}

	case store.DriverPostgres:
		dsn, err := secrets.Load(secrets.Source{
			Name: "postgres dsn",
			File: config.Store.DSNFile,
			Env:  envPrefix + "_DATABASE_URL",
		})
		if err != nil {
			return nil, err
		}
		db, err := postgres.Connect(ctx, dsn)
		if err != nil {
			return nil, err
		}
		b.profiles, b.postings, b.statuses = db, db, db
		b.close = db.Close

	default:
		return nil, fmt.Errorf("unknown store driver %q", config.Store.Driver)
	}

	if config.JobsAPI != nil {
		client, err := newJobsAPIClient(config.JobsAPI, logger)
		if err != nil {
			b.close()
			return nil, err
		}
		b.postings = client
	}

	return b, nil
}

func newJobsAPIClient(config *JobsAPIConfig, logger *zap.Logger) (*jobsapi.Client, error) {
	var token string
	if config.TokenFile != "" {
		var err error
		token, err = secrets.Load(secrets.Source{
			Name: "jobs api token",
			File: config.TokenFile,
		})
		if err != nil {
			return nil, err
		}
	}

	client := jobsapi.New(logger, config.URL, token)
	if config.UserAgent != "" {
		client.UserAgent = config.UserAgent
	}
	client.PageDelay = config.PageDelay

	return client, nil
}
