package semantic

import (
	"strings"

	"github.com/Alishbarana/InnoLearn/internal/vocabulary"
)

// indexEntry is one surface form with everything the stages need precomputed
type indexEntry struct {
	Category string
	Form     string
	Lower    string
	Keywords []string
	Stems    []string // equal to Keywords when stemming is off
}

// Index is the vocabulary flattened in declaration order, with lower-cased
// forms and their keywords extracted once
type Index struct {
	table   *vocabulary.Table
	entries []indexEntry
}

// NewIndex builds an index over t
func NewIndex(t *vocabulary.Table, stemmer *Stemmer) *Index {
	flat := t.AllSurfaceFormsFlat()
	idx := &Index{
		table:   t,
		entries: make([]indexEntry, len(flat)),
	}
	for i, e := range flat {
		kw := ExtractKeywords(e.SurfaceForm, t)
		idx.entries[i] = indexEntry{
			Category: e.Category,
			Form:     e.SurfaceForm,
			Lower:    strings.ToLower(e.SurfaceForm),
			Keywords: kw,
			Stems:    stemmer.StemAll(kw),
		}
	}
	return idx
}

// Table returns the vocabulary the index was built from
func (idx *Index) Table() *vocabulary.Table {
	return idx.table
}

// Len returns the number of indexed surface forms
func (idx *Index) Len() int {
	return len(idx.entries)
}
