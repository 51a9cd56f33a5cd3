// Package similarity scores how close two texts are, lexically and
// semantically.
package similarity

import (
	"math"
	"sort"
	"unicode/utf8"

	"gonum.org/v1/gonum/floats"

	"github.com/spigell/jobrank/internal/textnorm"
	"github.com/spigell/jobrank/internal/utils"
)

// semanticWindow is the number of raw runes of each text that are embedded.
const semanticWindow = 5000

// Scorer computes TF-IDF and embedding similarities. It is safe for
// concurrent use when its Embedder is.
type Scorer struct {
	normalizer *textnorm.Normalizer
	embedder   Embedder
}

// New returns a Scorer. A nil embedder selects a HashingEmbedder.
func New(normalizer *textnorm.Normalizer, embedder Embedder) *Scorer {
	if embedder == nil {
		embedder = NewHashingEmbedder(DefaultDimensions)
	}
	return &Scorer{normalizer: normalizer, embedder: embedder}
}

// TFIDF returns the cosine similarity of the TF-IDF vectors of a and b, with
// the vectorizer fitted on the two texts only.
func (s *Scorer) TFIDF(a, b string) float64 {
	docA := lexicalTokens(s.normalizer.Tokens(a))
	docB := lexicalTokens(s.normalizer.Tokens(b))

	vecA, vecB := tfidfVectors(docA, docB)
	return clamp(Cosine(vecA, vecB))
}

// Semantic returns the clamped cosine similarity of the embeddings of a and b.
// Only the first few thousand runes of each text are considered.
func (s *Scorer) Semantic(a, b string) float64 {
	vecA := s.embedder.Embed(s.normalizer.Tokens(utils.TruncateRunes(a, semanticWindow)))
	vecB := s.embedder.Embed(s.normalizer.Tokens(utils.TruncateRunes(b, semanticWindow)))
	return clamp(Cosine(vecA, vecB))
}

// Cosine returns the cosine similarity of a and b, or 0 when either has zero
// norm or their lengths differ.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	na, nb := floats.Norm(a, 2), floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}

	return floats.Dot(a, b) / (na * nb)
}

// lexicalTokens keeps tokens of at least two runes.
func lexicalTokens(tokens []string) []string {
	out := tokens[:0:0]
	for _, t := range tokens {
		if utf8.RuneCountInString(t) >= 2 {
			out = append(out, t)
		}
	}
	return out
}

// tfidfVectors uses raw term counts weighted by the smoothed inverse document
// frequency ln((1+n)/(1+df))+1, each vector L2-normalized.
func tfidfVectors(docs ...[]string) ([]float64, []float64) {
	counts := make([]map[string]float64, len(docs))
	df := make(map[string]int)
	for i, doc := range docs {
		counts[i] = make(map[string]float64)
		for _, t := range doc {
			counts[i][t]++
		}
		for t := range counts[i] {
			df[t]++
		}
	}

	vocab := make([]string, 0, len(df))
	for t := range df {
		vocab = append(vocab, t)
	}
	sort.Strings(vocab)

	n := float64(len(docs))
	vectors := make([][]float64, len(docs))
	for i := range docs {
		vec := make([]float64, len(vocab))
		for j, t := range vocab {
			idf := math.Log((1+n)/(1+float64(df[t]))) + 1
			vec[j] = counts[i][t] * idf
		}
		if norm := floats.Norm(vec, 2); norm > 0 {
			floats.Scale(1/norm, vec)
		}
		vectors[i] = vec
	}

	return vectors[0], vectors[1]
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
