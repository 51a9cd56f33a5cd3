// Package filestore reads resumes and postings from local JSON or YAML files
// and keeps application statuses in a locked JSON file.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/spigell/jobrank/internal/postings"
	"github.com/spigell/jobrank/internal/profile"
	"github.com/spigell/jobrank/internal/schemas"
	"github.com/spigell/jobrank/internal/store"
)

var resumeExtensions = []string{".json", ".yaml", ".yml"}

type Config struct {
	ResumesDir   string
	PostingsFile string
	StatusFile   string
}

type Store struct {
	config Config
	logger *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{config: cfg, logger: logger}
}

// Resume loads <ResumesDir>/<candidateID>.{json,yaml,yml}.
func (s *Store) Resume(_ context.Context, candidateID string) (*profile.Resume, error) {
	if err := checkID(candidateID); err != nil {
		return nil, err
	}

	for _, ext := range resumeExtensions {
		path := filepath.Join(s.config.ResumesDir, candidateID+ext)
		doc, err := readDocument(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}

		if err := schemas.Validate(schemas.Resume, doc); err != nil {
			return nil, fmt.Errorf("resume %s: %w", path, err)
		}

		var resume profile.Resume
		if err := decode(doc, &resume); err != nil {
			return nil, fmt.Errorf("decode resume %s: %w", path, err)
		}

		s.logger.Debug("loaded resume", zap.String("path", path))
		return &resume, nil
	}

	return nil, fmt.Errorf("resume for %q: %w", candidateID, store.ErrNotFound)
}

// Postings loads the postings file and applies q.
func (s *Store) Postings(_ context.Context, q postings.Query) (*postings.Postings, error) {
	if s.config.PostingsFile == "" {
		return nil, fmt.Errorf("postings file is not configured")
	}

	doc, err := readDocument(s.config.PostingsFile)
	if err != nil {
		return nil, err
	}

	if err := schemas.Validate(schemas.Postings, doc); err != nil {
		return nil, fmt.Errorf("postings %s: %w", s.config.PostingsFile, err)
	}

	var all postings.Postings
	if err := decode(doc, &all); err != nil {
		return nil, fmt.Errorf("decode postings %s: %w", s.config.PostingsFile, err)
	}

	return &postings.Postings{Items: q.Apply(all.Items)}, nil
}

// readDocument decodes a JSON or YAML file, chosen by extension, into plain
// maps and slices.
func readDocument(path string) (any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &doc)
	default:
		err = json.Unmarshal(raw, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return doc, nil
}

func decode(input, target any) error {
	cfg := &mapstructure.DecoderConfig{
		Metadata: nil,
		Result:   target,
		TagName:  "json",
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

func checkID(id string) error {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return fmt.Errorf("invalid candidate id %q", id)
	}
	return nil
}
