package metapop

// VisitedSet tracks trees already used as exemplars during a run. It is
// write-only (aside from the Revisit-triggered Clear) and written only by
// the driver's goroutine; when Jobs > 1, candidate extraction workers read
// it concurrently while no write is in progress.
type VisitedSet struct {
	seen map[uint64][]Tree
}

// NewVisitedSet returns an empty visited set.
func NewVisitedSet() *VisitedSet {
	return &VisitedSet{seen: make(map[uint64][]Tree)}
}

// Contains reports whether t has already been visited.
func (v *VisitedSet) Contains(ops TreeOps, t Tree) bool {
	h := ops.Hash(t)
	for _, cand := range v.seen[h] {
		if ops.Equals(cand, t) {
			return true
		}
	}
	return false
}

// Add marks t as visited.
func (v *VisitedSet) Add(ops TreeOps, t Tree) {
	if v.Contains(ops, t) {
		return
	}
	h := ops.Hash(t)
	v.seen[h] = append(v.seen[h], t)
}

// Clear empties the visited set, used once when Revisit is enabled and
// the selector has exhausted every tree.
func (v *VisitedSet) Clear() {
	v.seen = make(map[uint64][]Tree)
}

// Len returns the number of distinct visited trees.
func (v *VisitedSet) Len() int {
	n := 0
	for _, bucket := range v.seen {
		n += len(bucket)
	}
	return n
}
