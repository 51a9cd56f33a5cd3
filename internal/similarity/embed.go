package similarity

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// DefaultDimensions is the width of HashingEmbedder vectors.
const DefaultDimensions = 256

// Embedder maps normalized tokens to a dense vector. Implementations must
// return vectors of a fixed length.
type Embedder interface {
	Embed(tokens []string) []float64
}

// HashingEmbedder projects tokens and their character trigrams into a fixed
// number of signed hash buckets.
type HashingEmbedder struct {
	dims int
}

// NewHashingEmbedder returns a HashingEmbedder with dims buckets.
func NewHashingEmbedder(dims int) *HashingEmbedder {
	if dims <= 0 {
		dims = DefaultDimensions
	}
	return &HashingEmbedder{dims: dims}
}

// Embed implements Embedder.
func (h *HashingEmbedder) Embed(tokens []string) []float64 {
	vec := make([]float64, h.dims)
	for _, token := range tokens {
		h.add(vec, token, 1)

		padded := []rune("#" + token + "#")
		for i := 0; i+3 <= len(padded); i++ {
			h.add(vec, string(padded[i:i+3]), 0.5)
		}
	}
	return vec
}

func (h *HashingEmbedder) add(vec []float64, feature string, weight float64) {
	sum := xxhash.Sum64String(feature)
	if sum>>63 == 1 {
		weight = -weight
	}
	vec[sum%uint64(h.dims)] += weight
}

// WordVectors embeds documents as the mean of pre-trained word vectors.
type WordVectors struct {
	dims    int
	vectors map[string][]float64
}

// Dimensions returns the vector width.
func (w *WordVectors) Dimensions() int {
	return w.dims
}

// Len returns the vocabulary size.
func (w *WordVectors) Len() int {
	return len(w.vectors)
}

// Embed implements Embedder. Unknown tokens are ignored; a document without
// known tokens embeds to the zero vector.
func (w *WordVectors) Embed(tokens []string) []float64 {
	vec := make([]float64, w.dims)
	known := 0
	for _, token := range tokens {
		v, ok := w.vectors[token]
		if !ok {
			continue
		}
		for i := range vec {
			vec[i] += v[i]
		}
		known++
	}

	if known > 0 {
		for i := range vec {
			vec[i] /= float64(known)
		}
	}
	return vec
}

// LoadWordVectors reads vectors in the GloVe text format ("word v1 v2 ...").
// A word2vec header line ("count dims") is skipped when present.
func LoadWordVectors(path string) (*WordVectors, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word vectors: %w", err)
	}
	defer f.Close()

	w := &WordVectors{vectors: make(map[string][]float64)}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if line == 1 && isHeader(fields) {
			continue
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("word vectors line %d: no components", line)
		}

		vec := make([]float64, len(fields)-1)
		for i, raw := range fields[1:] {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("word vectors line %d: %w", line, err)
			}
			vec[i] = v
		}

		if w.dims == 0 {
			w.dims = len(vec)
		}
		if len(vec) != w.dims {
			return nil, fmt.Errorf("word vectors line %d: got %d components, want %d", line, len(vec), w.dims)
		}
		w.vectors[strings.ToLower(fields[0])] = vec
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read word vectors: %w", err)
	}
	if len(w.vectors) == 0 {
		return nil, fmt.Errorf("word vectors %s: empty", path)
	}

	return w, nil
}

func isHeader(fields []string) bool {
	if len(fields) != 2 {
		return false
	}
	for _, f := range fields {
		if _, err := strconv.Atoi(f); err != nil {
			return false
		}
	}
	return true
}
