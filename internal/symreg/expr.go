// Package symreg implements a toy symbolic-regression domain over a fixed
// arithmetic grammar, used by cmd/metapop-search to run the metapopulation
// engine end-to-end without an external optimiser or scorer (the same
// grammar shape genetic-programming symbolic regression systems typically
// use, trimmed to a single real-valued variable x).
package symreg

import (
	"fmt"
	"math"
)

// Expr is an arithmetic expression tree over one free variable, x.
type Expr interface {
	Eval(x float64) float64
	String() string
}

// Const is a numeric literal.
type Const struct{ V float64 }

func (c Const) Eval(x float64) float64 { return c.V }
func (c Const) String() string         { return fmt.Sprintf("%g", c.V) }

// Var is the free variable x.
type Var struct{}

func (Var) Eval(x float64) float64 { return x }
func (Var) String() string         { return "x" }

// Add is L + R.
type Add struct{ L, R Expr }

func (a Add) Eval(x float64) float64 { return a.L.Eval(x) + a.R.Eval(x) }
func (a Add) String() string         { return fmt.Sprintf("(%s + %s)", a.L, a.R) }

// Sub is L - R.
type Sub struct{ L, R Expr }

func (s Sub) Eval(x float64) float64 { return s.L.Eval(x) - s.R.Eval(x) }
func (s Sub) String() string         { return fmt.Sprintf("(%s - %s)", s.L, s.R) }

// Mul is L * R.
type Mul struct{ L, R Expr }

func (m Mul) Eval(x float64) float64 { return m.L.Eval(x) * m.R.Eval(x) }
func (m Mul) String() string         { return fmt.Sprintf("(%s * %s)", m.L, m.R) }

// Sin is sin(X).
type Sin struct{ X Expr }

func (s Sin) Eval(x float64) float64 { return math.Sin(s.X.Eval(x)) }
func (s Sin) String() string         { return fmt.Sprintf("sin(%s)", s.X) }

// Seed returns the starting exemplar every run begins from: the bare
// variable x, complexity 1.
func Seed() Expr { return Var{} }

// Complexity counts the number of nodes in the tree, the complexity
// measure the MOSES original and this engine both use for the c term of
// the composite score.
func Complexity(e Expr) int {
	switch v := e.(type) {
	case Const, Var:
		return 1
	case Add:
		return 1 + Complexity(v.L) + Complexity(v.R)
	case Sub:
		return 1 + Complexity(v.L) + Complexity(v.R)
	case Mul:
		return 1 + Complexity(v.L) + Complexity(v.R)
	case Sin:
		return 1 + Complexity(v.X)
	default:
		return 1
	}
}

// Equal reports structural equality. Two expressions with the same shape
// but floating-point-close constants are still distinct trees; this
// engine treats constants as opaque literals rather than mutable knobs.
func Equal(a, b Expr) bool {
	return a.String() == b.String()
}
