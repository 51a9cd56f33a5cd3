// Package catalog holds the static skill taxonomy used to recognize skills in
// free text.
package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
)

var (
	// ErrEmpty is returned when a catalog is built without any skill.
	ErrEmpty = errors.New("skill catalog is empty")

	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Category is a named group of canonical skills.
type Category struct {
	Name   string
	Skills []string
}

// Catalog is an immutable skill taxonomy with one precompiled matcher per
// canonical skill. It is safe for concurrent use.
type Catalog struct {
	categories []Category
	skills     []string
	matchers   []*regexp.Regexp
	owners     map[string]string
}

// Default returns the built-in catalog. It is built once per process.
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCatalog = MustNew(defaultCategories)
	})
	return defaultCatalog
}

// MustNew is like New but panics if the catalog cannot be built.
func MustNew(categories []Category) *Catalog {
	c, err := New(categories)
	if err != nil {
		panic(fmt.Sprintf("catalog: %v", err))
	}
	return c
}

// New builds a catalog from the given categories. Skills are case-folded and
// trimmed; a skill listed in several categories is matched once and belongs to
// the first category it appears in.
func New(categories []Category) (*Catalog, error) {
	c := &Catalog{
		categories: make([]Category, 0, len(categories)),
		owners:     make(map[string]string),
	}

	for _, category := range categories {
		name := strings.TrimSpace(category.Name)
		if name == "" {
			return nil, fmt.Errorf("category without a name")
		}

		skills := make([]string, 0, len(category.Skills))
		for _, raw := range category.Skills {
			skill := strings.ToLower(strings.TrimSpace(raw))
			if skill == "" {
				continue
			}
			skills = append(skills, skill)

			if _, ok := c.owners[skill]; ok {
				continue
			}

			matcher, err := compileMatcher(skill)
			if err != nil {
				return nil, fmt.Errorf("compile matcher for %q: %w", skill, err)
			}

			c.owners[skill] = name
			c.skills = append(c.skills, skill)
			c.matchers = append(c.matchers, matcher)
		}

		c.categories = append(c.categories, Category{Name: name, Skills: skills})
	}

	if len(c.skills) == 0 {
		return nil, ErrEmpty
	}

	return c, nil
}

// compileMatcher builds a word-boundary pattern for a skill. Boundaries are
// only required on the sides that start or end with a word character, so
// terms like "c++" or ".net" still match.
func compileMatcher(skill string) (*regexp.Regexp, error) {
	var b strings.Builder
	if isWordByte(skill[0]) {
		b.WriteString(`\b`)
	}
	b.WriteString(regexp.QuoteMeta(skill))
	if isWordByte(skill[len(skill)-1]) {
		b.WriteString(`\b`)
	}
	return regexp.Compile(b.String())
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// Categories returns a copy of the catalog categories in their original order.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	for i, category := range c.categories {
		out[i] = Category{Name: category.Name, Skills: append([]string(nil), category.Skills...)}
	}
	return out
}

// Skills returns every distinct canonical skill in catalog order.
func (c *Catalog) Skills() []string {
	return append([]string(nil), c.skills...)
}

// Len returns the number of distinct skills.
func (c *Catalog) Len() int {
	return len(c.skills)
}

// CategoryOf returns the category a skill belongs to.
func (c *Catalog) CategoryOf(skill string) (string, bool) {
	name, ok := c.owners[strings.ToLower(strings.TrimSpace(skill))]
	return name, ok
}

// Match returns the canonical skills found in text. The text is expected to be
// case-folded already. Results follow catalog order.
func (c *Catalog) Match(text string) []string {
	if text == "" {
		return nil
	}

	var found []string
	for i, matcher := range c.matchers {
		if matcher.MatchString(text) {
			found = append(found, c.skills[i])
		}
	}
	return found
}
