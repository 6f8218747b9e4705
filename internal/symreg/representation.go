package symreg

import (
	"context"

	"github.com/opencog-go/metapop-search/pkg/metapop"
)

// Representation is the local neighborhood of Expr variants generated
// around one exemplar. Its knob space is flat: one field per variant,
// instance = the variant's index.
type Representation struct {
	variants []Expr
	fields   []metapop.Field
}

func (r *Representation) Fields() []metapop.Field { return r.fields }

func (r *Representation) Candidate(ctx context.Context, instance metapop.Instance, reduce bool) (metapop.Tree, error) {
	idx := instance.(int)
	e := r.variants[idx]
	if reduce {
		return e, nil // Ops.Reduce is the identity for this grammar.
	}
	return e, nil
}

// Builder generates a Representation by applying a fixed set of local
// mutations to the exemplar: wrapping in sin, and combining it with the
// free variable or small constants via add/sub/mul. Variants whose
// generating operator name is in ignoredOps are skipped.
type Builder struct {
	ExtraConstants []float64
}

func NewBuilder() *Builder {
	return &Builder{ExtraConstants: []float64{-1, 1, 2, 0.5}}
}

func (b *Builder) Build(ctx context.Context, exemplar metapop.Tree, ignoredOps map[string]struct{}) (metapop.Representation, error) {
	e := exemplar.(Expr)
	var variants []Expr
	var fields []metapop.Field

	add := func(name string, v Expr) {
		if _, skip := ignoredOps[name]; skip {
			return
		}
		variants = append(variants, v)
		fields = append(fields, metapop.Field{Name: name, Type: "mutation", Size: 1})
	}

	add("sin", Sin{X: e})
	add("add_var", Add{L: e, R: Var{}})
	add("sub_var", Sub{L: e, R: Var{}})
	add("mul_var", Mul{L: e, R: Var{}})
	for _, c := range b.ExtraConstants {
		add("add_const", Add{L: e, R: Const{V: c}})
		add("mul_const", Mul{L: e, R: Const{V: c}})
	}
	if bin, ok := asBinary(e); ok {
		add("swap_to_add", Add{L: bin.l, R: bin.r})
		add("swap_to_sub", Sub{L: bin.l, R: bin.r})
		add("swap_to_mul", Mul{L: bin.l, R: bin.r})
	}

	if len(variants) == 0 {
		return nil, nil
	}
	return &Representation{variants: variants, fields: fields}, nil
}

type binaryView struct{ l, r Expr }

func asBinary(e Expr) (binaryView, bool) {
	switch v := e.(type) {
	case Add:
		return binaryView{v.L, v.R}, true
	case Sub:
		return binaryView{v.L, v.R}, true
	case Mul:
		return binaryView{v.L, v.R}, true
	default:
		return binaryView{}, false
	}
}
