package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gofrs/flock"
	"go.uber.org/zap"

	"github.com/spigell/jobrank/internal/postings"
	"github.com/spigell/jobrank/internal/schemas"
	"github.com/spigell/jobrank/internal/store"
)

// statusFile maps candidate -> posting -> status.
type statusFile struct {
	Statuses map[string]map[string]string `json:"statuses"`
}

// Status returns the recorded status or store.ErrNotFound.
func (s *Store) Status(ctx context.Context, candidateID, postingID string) (string, error) {
	statuses, err := s.readStatuses(ctx)
	if err != nil {
		return "", err
	}

	status, ok := statuses.Statuses[candidateID][postingID]
	if !ok {
		return "", store.ErrNotFound
	}
	return status, nil
}

// Applied returns the sorted IDs of postings with a non-pending status.
func (s *Store) Applied(ctx context.Context, candidateID string) ([]string, error) {
	statuses, err := s.readStatuses(ctx)
	if err != nil {
		return nil, err
	}

	var ids []string
	for id, status := range statuses.Statuses[candidateID] {
		if status != postings.StatusPending {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	return ids, nil
}

// SetStatus records status under an exclusive file lock.
func (s *Store) SetStatus(ctx context.Context, candidateID, postingID, status string) error {
	if s.config.StatusFile == "" {
		return fmt.Errorf("status file is not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	lock := flock.New(s.config.StatusFile + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock status file: %w", err)
	}
	defer lock.Unlock()

	statuses, err := s.load()
	if err != nil {
		return err
	}
	if statuses.Statuses[candidateID] == nil {
		statuses.Statuses[candidateID] = map[string]string{}
	}
	statuses.Statuses[candidateID][postingID] = status

	if err := s.write(statuses); err != nil {
		return err
	}

	s.logger.Debug("recorded application status",
		zap.String("candidate_id", candidateID),
		zap.String("posting_id", postingID),
		zap.String("status", status),
	)
	return nil
}

func (s *Store) readStatuses(_ context.Context) (*statusFile, error) {
	if s.config.StatusFile == "" {
		return &statusFile{Statuses: map[string]map[string]string{}}, nil
	}

	lock := flock.New(s.config.StatusFile + ".lock")
	if err := lock.RLock(); err != nil {
		return nil, fmt.Errorf("lock status file: %w", err)
	}
	defer lock.Unlock()

	return s.load()
}

func (s *Store) load() (*statusFile, error) {
	statuses := &statusFile{Statuses: map[string]map[string]string{}}

	raw, err := os.ReadFile(s.config.StatusFile)
	if errors.Is(err, os.ErrNotExist) || (err == nil && len(raw) == 0) {
		return statuses, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read status file: %w", err)
	}

	if err := schemas.ValidateBytes(schemas.Statuses, raw); err != nil {
		return nil, fmt.Errorf("status file %s: %w", s.config.StatusFile, err)
	}
	if err := json.Unmarshal(raw, statuses); err != nil {
		return nil, fmt.Errorf("parse status file: %w", err)
	}
	if statuses.Statuses == nil {
		statuses.Statuses = map[string]map[string]string{}
	}

	return statuses, nil
}

// write replaces the status file atomically.
func (s *Store) write(statuses *statusFile) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.config.StatusFile), ".statuses-*.json")
	if err != nil {
		return fmt.Errorf("create temp status file: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(statuses); err != nil {
		tmp.Close()
		return fmt.Errorf("encode status file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp status file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.config.StatusFile); err != nil {
		return fmt.Errorf("replace status file: %w", err)
	}
	return nil
}
