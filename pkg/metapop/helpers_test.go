package metapop

import (
	"context"
	"hash/fnv"
)

// stringTreeOps is a minimal TreeOps over plain strings, used throughout
// this package's tests in place of a real expression-tree representation.
type stringTreeOps struct{}

func (stringTreeOps) Reduce(ctx context.Context, t Tree) (Tree, error) { return t, nil }
func (stringTreeOps) Complexity(t Tree) int                            { return len(t.(string)) }
func (stringTreeOps) Equals(a, b Tree) bool                            { return a.(string) == b.(string) }
func (stringTreeOps) Hash(t Tree) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(t.(string)))
	return h.Sum64()
}

func newEntry(tree string, s float64, c int) *Entry {
	return &Entry{Tree: tree, C: Composite{S: s, C: c}}
}

func newEntryB(tree string, b BScore) *Entry {
	return &Entry{Tree: tree, B: b}
}
