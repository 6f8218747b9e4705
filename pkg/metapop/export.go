package metapop

import (
	"bufio"
	"fmt"
	"os"

	"github.com/apache/arrow/go/v13/arrow"
	"github.com/apache/arrow/go/v13/arrow/array"
	"github.com/apache/arrow/go/v13/arrow/ipc"
	"github.com/apache/arrow/go/v13/arrow/memory"
)

// TreeRenderer renders a Tree to its canonical operator-name text form,
// supplied by the caller since tree representation is an external
// collaborator this package never inspects directly.
type TreeRenderer func(Tree) string

// DumpText writes a plain-text human-inspection dump: one candidate per
// line, "<score> <complexity> <tree>", in the store's current
// w-descending order.
func DumpText(path string, m *Metapopulation, render TreeRenderer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dump text: create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, e := range m.Entries() {
		if _, err := fmt.Fprintf(w, "%g %d %s\n", e.C.S, e.C.C, render(e.Tree)); err != nil {
			return fmt.Errorf("dump text: write entry %s: %w", e.ID, err)
		}
	}
	return w.Flush()
}

// snapshotSchema describes one row per store entry: id, raw score,
// complexity, diversity penalty, weighted score, and the behavioral
// score vector. This is the columnar counterpart to DumpText's plain-text
// dump, for external analysis tooling that wants a structured format
// instead of a human-readable one.
var snapshotSchema = arrow.NewSchema([]arrow.Field{
	{Name: "id", Type: arrow.BinaryTypes.String},
	{Name: "score", Type: arrow.PrimitiveTypes.Float64},
	{Name: "complexity", Type: arrow.PrimitiveTypes.Int64},
	{Name: "diversity", Type: arrow.PrimitiveTypes.Float64},
	{Name: "weighted", Type: arrow.PrimitiveTypes.Float64},
	{Name: "behavioral_score", Type: arrow.ListOf(arrow.PrimitiveTypes.Float64)},
}, nil)

// DumpSnapshot writes the current store as a single Arrow record batch to
// an IPC file, one row per entry, ordered as the store currently is
// (w-descending).
func DumpSnapshot(path string, m *Metapopulation, complexityWeight float64) error {
	mem := memory.NewGoAllocator()

	idB := array.NewStringBuilder(mem)
	defer idB.Release()
	scoreB := array.NewFloat64Builder(mem)
	defer scoreB.Release()
	complexityB := array.NewInt64Builder(mem)
	defer complexityB.Release()
	diversityB := array.NewFloat64Builder(mem)
	defer diversityB.Release()
	weightedB := array.NewFloat64Builder(mem)
	defer weightedB.Release()
	bscoreB := array.NewListBuilder(mem, arrow.PrimitiveTypes.Float64)
	defer bscoreB.Release()
	bscoreValueB := bscoreB.ValueBuilder().(*array.Float64Builder)

	for _, e := range m.Entries() {
		idB.Append(e.ID.String())
		scoreB.Append(e.C.S)
		complexityB.Append(int64(e.C.C))
		diversityB.Append(e.C.D)
		weightedB.Append(WeightedScore(e.C, complexityWeight))

		bscoreB.Append(true)
		for _, v := range e.B {
			bscoreValueB.Append(v)
		}
	}

	idArr := idB.NewArray()
	defer idArr.Release()
	scoreArr := scoreB.NewArray()
	defer scoreArr.Release()
	complexityArr := complexityB.NewArray()
	defer complexityArr.Release()
	diversityArr := diversityB.NewArray()
	defer diversityArr.Release()
	weightedArr := weightedB.NewArray()
	defer weightedArr.Release()
	bscoreArr := bscoreB.NewArray()
	defer bscoreArr.Release()

	record := array.NewRecord(snapshotSchema, []arrow.Array{idArr, scoreArr, complexityArr, diversityArr, weightedArr, bscoreArr}, int64(m.Len()))
	defer record.Release()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dump snapshot: create %s: %w", path, err)
	}
	defer f.Close()

	writer, err := ipc.NewFileWriter(f, ipc.WithSchema(snapshotSchema), ipc.WithAllocator(mem))
	if err != nil {
		return fmt.Errorf("dump snapshot: new writer: %w", err)
	}
	defer writer.Close()

	if err := writer.Write(record); err != nil {
		return fmt.Errorf("dump snapshot: write record: %w", err)
	}
	return nil
}
