package extract

import (
	"fmt"

	"github.com/jdkato/prose/v2"
)

// ProseRecognizer runs the prose named-entity chunker. The bundled model only
// knows PERSON and GPE; pass a model trained with ORG/PRODUCT labels to get
// useful skill entities.
type ProseRecognizer struct {
	model *prose.Model
}

// NewProseRecognizer returns a recognizer using the model stored in modelDir,
// or the bundled model when modelDir is empty.
func NewProseRecognizer(modelDir string) *ProseRecognizer {
	r := &ProseRecognizer{}
	if modelDir != "" {
		r.model = prose.ModelFromDisk(modelDir)
	}
	return r
}

// Entities implements EntityRecognizer.
func (r *ProseRecognizer) Entities(text string) ([]Entity, error) {
	opts := []prose.DocOpt{prose.WithSegmentation(false)}
	if r.model != nil {
		opts = append(opts, prose.UsingModel(r.model))
	}

	doc, err := prose.NewDocument(text, opts...)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	found := doc.Entities()
	out := make([]Entity, 0, len(found))
	for _, e := range found {
		out = append(out, Entity{Text: e.Text, Label: e.Label})
	}

	return out, nil
}
