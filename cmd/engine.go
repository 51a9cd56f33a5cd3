package cmd

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/jobrank/internal/extract"
	"github.com/spigell/jobrank/internal/matching"
	"github.com/spigell/jobrank/internal/ranking"
	"github.com/spigell/jobrank/internal/similarity"
	"github.com/spigell/jobrank/internal/textnorm"
)

// newEngine wires the normalizer, extractors and similarity scorer.
func newEngine(config MatchingConfig, logger *zap.Logger) (*matching.Engine, error) {
	policy, err := matching.ParsePolicy(config.SemanticPolicy)
	if err != nil {
		return nil, err
	}

	normalizer, err := textnorm.New()
	if err != nil {
		return nil, fmt.Errorf("building normalizer: %w", err)
	}

	extractorOpts := []extract.Option{extract.WithLogger(logger)}
	if config.Entities.Enabled {
		logger.Debug("entity recognition enabled",
			zap.String("model_dir", config.Entities.ModelDir),
			zap.Strings("labels", config.Entities.Labels),
		)
		extractorOpts = append(extractorOpts,
			extract.WithRecognizer(extract.NewProseRecognizer(config.Entities.ModelDir), config.Entities.Labels...),
		)
	}

	var embedder similarity.Embedder
	if config.VectorsFile != "" {
		vectors, err := similarity.LoadWordVectors(config.VectorsFile)
		if err != nil {
			return nil, fmt.Errorf("loading word vectors: %w", err)
		}
		logger.Info("loaded word vectors",
			zap.String("file", config.VectorsFile),
			zap.Int("words", vectors.Len()),
			zap.Int("dimensions", vectors.Dimensions()),
		)
		embedder = vectors
	} else {
		logger.Warn("no word vectors configured, semantic similarity falls back to hashed token features")
	}

	return matching.New(
		extract.NewSkillExtractor(nil, extractorOpts...),
		similarity.New(normalizer, embedder),
		matching.WithPolicy(policy),
	), nil
}

func newRanker(config *Config, engine ranking.Matcher, statuses ranking.StatusProvider, recorder ranking.Recorder, logger *zap.Logger) *ranking.Ranker {
	return ranking.New(engine,
		ranking.WithWorkers(config.Ranking.Workers),
		ranking.WithTimeout(config.Ranking.Timeout),
		ranking.WithStatusProvider(statuses),
		ranking.WithRecorder(recorder),
		ranking.WithLogger(logger),
	)
}
