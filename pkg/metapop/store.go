package metapop

import "sort"

// Metapopulation is the ordered multiset of scored trees forming the
// working population of the search. It is sorted by weighted score
// descending; "already contained" is decided by structural equality of
// Tree via TreeOps, not Go's built-in equality, since Tree is opaque.
//
// The store is single-writer: all mutation happens on the driver's
// goroutine, after any parallel phase of a cycle has joined. It carries
// no internal locking.
type Metapopulation struct {
	ops     TreeOps
	k       float64 // complexity weight used to order entries
	entries []*Entry
	index   map[uint64][]*Entry // auxiliary hash index keyed by TreeOps.Hash(T)
}

// NewMetapopulation creates an empty store ordered under the given
// complexity weight.
func NewMetapopulation(ops TreeOps, complexityWeight float64) *Metapopulation {
	return &Metapopulation{
		ops:   ops,
		k:     complexityWeight,
		index: make(map[uint64][]*Entry),
	}
}

// Len returns the number of entries in the store.
func (m *Metapopulation) Len() int { return len(m.entries) }

// Empty reports whether the store has no entries.
func (m *Metapopulation) Empty() bool { return len(m.entries) == 0 }

// Entries returns the in-order (w-descending) slice of entries. Callers
// must not mutate the returned slice.
func (m *Metapopulation) Entries() []*Entry { return m.entries }

// Head returns the highest-weighted entry, or nil if the store is empty.
func (m *Metapopulation) Head() *Entry {
	if len(m.entries) == 0 {
		return nil
	}
	return m.entries[0]
}

func (m *Metapopulation) weight(e *Entry) float64 { return WeightedScore(e.C, m.k) }

// FindByTree looks up the entry for a given tree in O(1) average time via
// the auxiliary hash index, confirming collisions with TreeOps.Equals.
func (m *Metapopulation) FindByTree(t Tree) (*Entry, bool) {
	h := m.ops.Hash(t)
	for _, e := range m.index[h] {
		if m.ops.Equals(e.Tree, t) {
			return e, true
		}
	}
	return nil, false
}

// Insert adds an entry, keeping the store w-descending. The insertion
// point is found by binary search in O(log n), but shifting the backing
// slice makes the insert itself O(n). If an
// entry with the same Tree already exists, the incoming entry replaces it
// iff its weighted score is strictly greater; otherwise Insert is a no-op.
// Returns true iff the store changed.
func (m *Metapopulation) Insert(e *Entry) bool {
	if existing, ok := m.FindByTree(e.Tree); ok {
		if m.weight(e) <= m.weight(existing) {
			return false
		}
		m.removeEntry(existing)
	}
	m.insertSorted(e)
	m.indexAdd(e)
	return true
}

func (m *Metapopulation) insertSorted(e *Entry) {
	w := m.weight(e)
	i := sort.Search(len(m.entries), func(i int) bool {
		return m.weight(m.entries[i]) < w
	})
	m.entries = append(m.entries, nil)
	copy(m.entries[i+1:], m.entries[i:])
	m.entries[i] = e
}

func (m *Metapopulation) indexAdd(e *Entry) {
	h := m.ops.Hash(e.Tree)
	m.index[h] = append(m.index[h], e)
}

func (m *Metapopulation) indexRemove(e *Entry) {
	h := m.ops.Hash(e.Tree)
	bucket := m.index[h]
	for i, cand := range bucket {
		if cand == e {
			m.index[h] = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	if len(m.index[h]) == 0 {
		delete(m.index, h)
	}
}

// position returns the slice index of e, or -1 if absent. O(n); used only
// by the (rare) direct-entry erase paths.
func (m *Metapopulation) position(e *Entry) int {
	for i, cand := range m.entries {
		if cand == e {
			return i
		}
	}
	return -1
}

func (m *Metapopulation) removeEntry(e *Entry) {
	if i := m.position(e); i >= 0 {
		m.entries = append(m.entries[:i], m.entries[i+1:]...)
	}
	m.indexRemove(e)
}

// EraseAt removes the entry at slice index i.
func (m *Metapopulation) EraseAt(i int) {
	if i < 0 || i >= len(m.entries) {
		return
	}
	e := m.entries[i]
	m.entries = append(m.entries[:i], m.entries[i+1:]...)
	m.indexRemove(e)
}

// EraseRange removes entries in [from, len) — a tail trim. Used by the
// weighted-score cut in size-cap eviction.
func (m *Metapopulation) EraseRange(from int) {
	if from < 0 || from >= len(m.entries) {
		return
	}
	for _, e := range m.entries[from:] {
		m.indexRemove(e)
	}
	m.entries = m.entries[:from]
}

// Erase removes a specific entry by identity, wherever it currently sits.
func (m *Metapopulation) Erase(e *Entry) {
	m.removeEntry(e)
}

// resort re-establishes w-descending order after entries' diversity
// penalties have been mutated in place (selector diversity pass). The
// hash index is unaffected since no entry's Tree or identity changes.
func (m *Metapopulation) resort() {
	sort.SliceStable(m.entries, func(i, j int) bool {
		return m.weight(m.entries[i]) > m.weight(m.entries[j])
	})
}
