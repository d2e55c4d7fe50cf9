// Package vocabulary holds the fixed catalogue of technical terms the
// recognizer matches against: ordered categories, their surface forms, the
// stop-word list used by keyword extraction and a synonym table.
//
// A Table is immutable once built and safe to share between goroutines.
// Reloading swaps a whole new Table into a Holder.
package vocabulary

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	ierrors "github.com/Alishbarana/InnoLearn/internal/errors"
)

// Category is one canonical concept and the phrases that denote it
type Category struct {
	ID           string   // canonical identifier, e.g. "binary_tree"
	DisplayName  string   // human label, e.g. "Binary Tree"
	Topic        string   // topic group, e.g. "Data Structures"
	SurfaceForms []string // ordered; order drives tie-breaks
}

// Entry is a flattened (surface form, category) pair
type Entry struct {
	SurfaceForm string
	Category    string
}

// Table is an immutable vocabulary
type Table struct {
	categories []Category
	byID       map[string]int
	flat       []Entry

	stopList []string
	stopSet  map[string]struct{}

	synonyms    map[string][]string
	synonymKeys []string
}

// New validates and builds a Table. Category IDs must be non-empty and
// unique and every category needs at least one non-empty surface form.
// The same surface form may appear under several categories; lookups return
// the first in declaration order.
func New(categories []Category, stopWords []string, synonyms map[string][]string) (*Table, error) {
	if len(categories) == 0 {
		return nil, ierrors.NewVocabularyError("", "", errors.New("at least one category is required"))
	}

	t := &Table{
		categories: make([]Category, 0, len(categories)),
		byID:       make(map[string]int, len(categories)),
		stopSet:    make(map[string]struct{}, len(stopWords)),
		synonyms:   make(map[string][]string, len(synonyms)),
	}

	for _, c := range categories {
		id := strings.TrimSpace(c.ID)
		if id == "" {
			return nil, ierrors.NewVocabularyError("", "", errors.New("category id must not be empty"))
		}
		if _, dup := t.byID[id]; dup {
			return nil, ierrors.NewVocabularyError("", id, errors.New("duplicate category id"))
		}

		forms := make([]string, 0, len(c.SurfaceForms))
		for _, f := range c.SurfaceForms {
			if strings.TrimSpace(f) == "" {
				return nil, ierrors.NewVocabularyError("", id, errors.New("surface form must not be empty"))
			}
			forms = append(forms, f)
		}
		if len(forms) == 0 {
			return nil, ierrors.NewVocabularyError("", id, errors.New("category has no surface forms"))
		}

		display := c.DisplayName
		if display == "" {
			display = displayNameFromID(id)
		}

		t.byID[id] = len(t.categories)
		t.categories = append(t.categories, Category{
			ID:           id,
			DisplayName:  display,
			Topic:        c.Topic,
			SurfaceForms: forms,
		})
		for _, f := range forms {
			t.flat = append(t.flat, Entry{SurfaceForm: f, Category: id})
		}
	}

	for _, w := range stopWords {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, seen := t.stopSet[w]; seen {
			continue
		}
		t.stopSet[w] = struct{}{}
		t.stopList = append(t.stopList, w)
	}

	for key, alts := range synonyms {
		t.synonyms[key] = append([]string(nil), alts...)
	}
	t.synonymKeys = sortedKeys(t.synonyms)

	return t, nil
}

// Len returns the number of categories
func (t *Table) Len() int {
	return len(t.categories)
}

// Categories returns the category IDs in declaration order
func (t *Table) Categories() []string {
	ids := make([]string, len(t.categories))
	for i, c := range t.categories {
		ids[i] = c.ID
	}
	return ids
}

// Category returns a copy of the category with the given ID
func (t *Table) Category(id string) (Category, bool) {
	i, ok := t.byID[id]
	if !ok {
		return Category{}, false
	}
	c := t.categories[i]
	c.SurfaceForms = append([]string(nil), c.SurfaceForms...)
	return c, true
}

// TermsForCategory returns the ordered surface forms of a category. Unknown
// categories yield an empty slice.
func (t *Table) TermsForCategory(id string) []string {
	i, ok := t.byID[id]
	if !ok {
		return []string{}
	}
	return append([]string(nil), t.categories[i].SurfaceForms...)
}

// CategoryForSurfaceForm returns the first category owning a registered
// surface form that contains form, compared case-insensitively. The query
// must be a substring of the registered phrase, not the other way round.
func (t *Table) CategoryForSurfaceForm(form string) (string, bool) {
	query := strings.ToLower(form)
	for _, c := range t.categories {
		for _, registered := range c.SurfaceForms {
			if strings.Contains(strings.ToLower(registered), query) {
				return c.ID, true
			}
		}
	}
	return "", false
}

// AllSurfaceFormsFlat returns every (surface form, category) pair in
// declaration order
func (t *Table) AllSurfaceFormsFlat() []Entry {
	return append([]Entry(nil), t.flat...)
}

// DisplayName returns the human label for a category, or the ID itself
func (t *Table) DisplayName(id string) string {
	if i, ok := t.byID[id]; ok {
		return t.categories[i].DisplayName
	}
	return id
}

// Topic returns the topic group of a category
func (t *Table) Topic(id string) string {
	if i, ok := t.byID[id]; ok {
		return t.categories[i].Topic
	}
	return ""
}

// StopWords returns the stop words in declaration order
func (t *Table) StopWords() []string {
	return append([]string(nil), t.stopList...)
}

// IsStopWord reports whether w (already lower-cased) is a stop word
func (t *Table) IsStopWord(w string) bool {
	_, ok := t.stopSet[w]
	return ok
}

// Synonyms returns a copy of the synonym table. The matcher does not consume
// it; it is carried as reference data for callers.
func (t *Table) Synonyms() map[string][]string {
	out := make(map[string][]string, len(t.synonyms))
	for k, v := range t.synonyms {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// SynonymKeys returns the synonym table keys, sorted
func (t *Table) SynonymKeys() []string {
	return append([]string(nil), t.synonymKeys...)
}

// String implements fmt.Stringer
func (t *Table) String() string {
	return fmt.Sprintf("Table{categories: %d, surfaceForms: %d, stopWords: %d}",
		len(t.categories), len(t.flat), len(t.stopList))
}

func displayNameFromID(id string) string {
	parts := strings.Split(id, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

func sortedKeys(m map[string][]string) []string {
	return slices.Sorted(maps.Keys(m))
}
