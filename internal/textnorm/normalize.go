// Package textnorm turns free text into a canonical token stream used by the
// similarity scorers.
package textnorm

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"unicode"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxPasses bounds the re-normalization of lemmas.
const maxPasses = 4

// Lemmatizer reduces a lower-case word to its dictionary form.
type Lemmatizer interface {
	Lemma(word string) string
}

// Normalizer lower-cases text, strips punctuation, removes stop words and
// lemmatizes the remaining tokens. Results are memoized by raw input for the
// lifetime of the Normalizer. A Normalizer is safe for concurrent use.
type Normalizer struct {
	lemmatizer Lemmatizer
	cache      sync.Map
	size       atomic.Int64
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithLemmatizer replaces the default English dictionary lemmatizer.
func WithLemmatizer(l Lemmatizer) Option {
	return func(n *Normalizer) {
		if l != nil {
			n.lemmatizer = l
		}
	}
}

// New creates a Normalizer. Unless a lemmatizer is supplied the golem English
// dictionary is loaded, which takes a noticeable amount of time and memory, so
// callers should share one Normalizer per process.
func New(opts ...Option) (*Normalizer, error) {
	n := &Normalizer{}
	for _, opt := range opts {
		opt(n)
	}

	if n.lemmatizer == nil {
		lemmatizer, err := golem.New(en.New())
		if err != nil {
			return nil, fmt.Errorf("load english lemmatizer: %w", err)
		}
		n.lemmatizer = lemmatizer
	}

	return n, nil
}

// Normalize returns the canonical form of text. Normalize(Normalize(x)) is
// always equal to Normalize(x).
func (n *Normalizer) Normalize(text string) string {
	if cached, ok := n.cache.Load(text); ok {
		return cached.(string)
	}

	out := n.pass(text)
	for i := 1; i < maxPasses; i++ {
		next := n.pass(out)
		if next == out {
			break
		}
		out = next
	}

	if _, loaded := n.cache.LoadOrStore(text, out); !loaded {
		n.size.Add(1)
	}
	return out
}

// Tokens returns the normalized tokens of text.
func (n *Normalizer) Tokens(text string) []string {
	return strings.Fields(n.Normalize(text))
}

// Len returns the number of memoized inputs.
func (n *Normalizer) Len() int {
	return int(n.size.Load())
}

func (n *Normalizer) pass(text string) string {
	tokens := split(foldDiacritics(strings.ToLower(text)))

	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if IsStopWord(token) {
			continue
		}

		lemma := strings.ToLower(n.lemmatizer.Lemma(token))
		for _, part := range split(lemma) {
			if IsStopWord(part) {
				continue
			}
			out = append(out, part)
		}
	}

	return strings.Join(out, " ")
}

// split breaks text on every rune that is not a letter or a digit.
func split(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func foldDiacritics(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return folded
}
