// internal/words/words.go
//
// Word pool management for the hangman engine.
//
// Responsibilities:
//   - Parse a categorized word list (from WORDS_FILE or the embedded default).
//   - Keep categories in file order and words deduplicated per category.
//   - Supply uniform random selection per category or over the whole pool.
//
// File format:
//
//	# comment
//	[fruits]
//	apple
//	banana
//
// Constraints:
//   • Words are trimmed, lowercased and must be ASCII letters only; other lines are
//     skipped with a warning.
//   • Words listed before any header belong to the "general" category.
//   • A category with no usable words, or an empty pool, is a configuration error.
//   • A Pool is never mutated after construction, so it can be shared freely.

package words

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/apps/go-server/assets"
)

// DefaultCategory receives words that appear before any [category] header.
const DefaultCategory = "general"

var (
	// ErrEmptyWordPool is returned at load time when a category (or the whole pool)
	// has no words.
	ErrEmptyWordPool = errors.New("words: empty word pool")
	// ErrUnknownCategory is returned when a requested category is not in the pool.
	ErrUnknownCategory = errors.New("words: unknown category")
)

// Category is one named group of candidate words.
type Category struct {
	Name  string
	Words []string
}

// entry is a word in the union view, tagged with the category it was first seen in.
type entry struct {
	word     string
	category string
}

// Pool maps category names to ordered candidate words.
type Pool struct {
	order []string            // categories, insertion order
	byCat map[string][]string // category -> words
	all   []entry             // union of all words, first occurrence wins
}

// NewPool validates and indexes the given categories.
// Words are normalized to lowercase; invalid words are dropped.
func NewPool(cats []Category) (*Pool, error) {
	p := &Pool{byCat: make(map[string][]string, len(cats))}
	seenAll := make(map[string]struct{})

	for _, c := range cats {
		name := strings.TrimSpace(c.Name)
		if _, dup := p.byCat[name]; dup {
			return nil, fmt.Errorf("words: duplicate category %q", name)
		}
		seen := make(map[string]struct{}, len(c.Words))
		list := make([]string, 0, len(c.Words))
		for _, raw := range c.Words {
			w := normalize(raw)
			if !isAlpha(w) {
				log.Warn().Str("category", name).Str("word", raw).Msg("skipping invalid word")
				continue
			}
			if _, ok := seen[w]; ok {
				continue
			}
			seen[w] = struct{}{}
			list = append(list, w)
			if _, ok := seenAll[w]; !ok {
				seenAll[w] = struct{}{}
				p.all = append(p.all, entry{word: w, category: name})
			}
		}
		if len(list) == 0 {
			return nil, fmt.Errorf("%w: category %q has no words", ErrEmptyWordPool, name)
		}
		p.order = append(p.order, name)
		p.byCat[name] = list
	}

	if len(p.all) == 0 {
		return nil, ErrEmptyWordPool
	}
	return p, nil
}

// Parse reads the sectioned word list format described in the package comment.
func Parse(r io.Reader) (*Pool, error) {
	var cats []Category
	index := make(map[string]int)
	current := -1

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			name := strings.TrimSpace(line[1 : len(line)-1])
			if name == "" {
				return nil, errors.New("words: empty category header")
			}
			if _, dup := index[name]; dup {
				return nil, fmt.Errorf("words: duplicate category %q", name)
			}
			index[name] = len(cats)
			cats = append(cats, Category{Name: name})
			current = index[name]
			continue
		}
		if current < 0 {
			i, ok := index[DefaultCategory]
			if !ok {
				i = len(cats)
				index[DefaultCategory] = i
				cats = append(cats, Category{Name: DefaultCategory})
			}
			current = i
		}
		cats[current].Words = append(cats[current].Words, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return NewPool(cats)
}

// Load reads a word pool from path, or the embedded default when path is empty.
func Load(path string) (*Pool, error) {
	var (
		rc  io.ReadCloser
		err error
	)
	if path == "" {
		rc, err = assets.DefaultWords()
	} else {
		rc, err = os.Open(path)
	}
	if err != nil {
		return nil, fmt.Errorf("words: open pool: %w", err)
	}
	defer rc.Close()
	return Parse(rc)
}

// Categories returns category names in file order.
func (p *Pool) Categories() []string {
	return append([]string(nil), p.order...)
}

// Words returns a copy of the words in category.
func (p *Pool) Words(category string) ([]string, bool) {
	list, ok := p.byCat[category]
	if !ok {
		return nil, false
	}
	return append([]string(nil), list...), true
}

// Len is the number of distinct words across all categories.
func (p *Pool) Len() int { return len(p.all) }

// At returns the i-th word of the union view and its category.
func (p *Pool) At(i int) (word, category string) {
	e := p.all[i]
	return e.word, e.category
}

// Pick selects a word uniformly at random. An empty category means the whole pool.
// The returned category is the one the word belongs to.
func (p *Pool) Pick(category string, pick Picker) (word, cat string, err error) {
	if category == "" {
		word, cat = p.At(pick.Intn(len(p.all)))
		return word, cat, nil
	}
	list, ok := p.byCat[category]
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	return list[pick.Intn(len(list))], category, nil
}

// Stats returns counts of loaded data: (categories, distinct words).
func (p *Pool) Stats() (categories int, total int) {
	return len(p.order), len(p.all)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// isAlpha reports whether s is non-empty and all lowercase ASCII letters.
func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
