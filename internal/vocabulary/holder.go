package vocabulary

import "sync/atomic"

// Holder publishes the current Table. Readers never block; a reload replaces
// the whole table in one atomic store.
type Holder struct {
	current atomic.Pointer[Table]
}

// NewHolder creates a holder seeded with t, or the default table when t is nil
func NewHolder(t *Table) *Holder {
	if t == nil {
		t = Default()
	}
	h := &Holder{}
	h.current.Store(t)
	return h
}

// Current returns the table in effect
func (h *Holder) Current() *Table {
	return h.current.Load()
}

// Swap installs t and returns the previous table. A nil t is ignored.
func (h *Holder) Swap(t *Table) *Table {
	if t == nil {
		return h.Current()
	}
	return h.current.Swap(t)
}
