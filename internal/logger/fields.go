package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Shared structured field keys.
const (
	FieldRunID       = "run_id"
	FieldCandidateID = "candidate_id"
	FieldPostingID   = "posting_id"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts key/value pairs into zap fields, trimming whitespace
// and omitting entries with an empty key or value.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		value := strings.TrimSpace(field.Value)
		if key == "" || value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches fields to logger, falling back to a no-op logger when
// logger is nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// RunFields identifies one ranking run.
func RunFields(runID, candidateID string) []zap.Field {
	return StringFields(
		StringField{Key: FieldRunID, Value: runID},
		StringField{Key: FieldCandidateID, Value: candidateID},
	)
}

// WithRun attaches the run fields to logger.
func WithRun(logger *zap.Logger, runID, candidateID string) *zap.Logger {
	return WithFields(logger, RunFields(runID, candidateID)...)
}

// Posting returns the field naming a posting.
func Posting(id string) zap.Field {
	return zap.String(FieldPostingID, id)
}
