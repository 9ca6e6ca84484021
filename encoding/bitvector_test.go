package encoding

import (
	"testing"

	"github.com/hartshard/cdclsat/internal/sat"
)

// bvVars allocates an n-bit literal vector (LSB first) of fresh decision
// variables in s whose value can be pinned via assumptions, used to
// exhaustively check every comparison encoding against plain integer
// arithmetic.
func bvVars(s *sat.Solver, n int) []Literal {
	v := make([]Literal, n)
	for i := range v {
		v[i] = s.NewVariable(true)
	}
	return v
}

func bvAssumptions(v []Literal, val int) []sat.Literal {
	a := make([]sat.Literal, len(v))
	for i, l := range v {
		if val&(1<<i) != 0 {
			a[i] = l
		} else {
			a[i] = l.Opposite()
		}
	}
	return a
}

// checkRelation exhaustively solves the 2-bit x 2-bit cross product under a
// constraint added once, comparing against want(va, vb).
func checkRelation(t *testing.T, name string, addConstraint func(enc *Encoder, a, b []Literal) error, want func(va, vb int) bool) {
	t.Helper()
	s := sat.NewDefaultSolver()
	enc := NewEncoder(s)
	a := bvVars(s, 2)
	b := bvVars(s, 2)
	if err := addConstraint(enc, a, b); err != nil {
		t.Fatalf("%s: addConstraint: %v", name, err)
	}

	for va := 0; va < 4; va++ {
		for vb := 0; vb < 4; vb++ {
			assumptions := append(bvAssumptions(a, va), bvAssumptions(b, vb)...)
			got := s.Solve(assumptions, 0) == sat.True
			if got != want(va, vb) {
				t.Errorf("%s: a=%d b=%d: Solve() sat=%v, want %v", name, va, vb, got, want(va, vb))
			}
		}
	}
}

func TestAddEq(t *testing.T) {
	checkRelation(t, "AddEq",
		func(enc *Encoder, a, b []Literal) error { return enc.AddEq(a, b) },
		func(va, vb int) bool { return va == vb })
}

func TestAddNe(t *testing.T) {
	checkRelation(t, "AddNe",
		func(enc *Encoder, a, b []Literal) error { return enc.AddNe(a, b) },
		func(va, vb int) bool { return va != vb })
}

func TestAddLt(t *testing.T) {
	checkRelation(t, "AddLt",
		func(enc *Encoder, a, b []Literal) error { return enc.AddLt(a, b) },
		func(va, vb int) bool { return va < vb })
}

func TestAddLe(t *testing.T) {
	checkRelation(t, "AddLe",
		func(enc *Encoder, a, b []Literal) error { return enc.AddLe(a, b) },
		func(va, vb int) bool { return va <= vb })
}

func TestAddGt(t *testing.T) {
	checkRelation(t, "AddGt",
		func(enc *Encoder, a, b []Literal) error { return enc.AddGt(a, b) },
		func(va, vb int) bool { return va > vb })
}

func TestAddGe(t *testing.T) {
	checkRelation(t, "AddGe",
		func(enc *Encoder, a, b []Literal) error { return enc.AddGe(a, b) },
		func(va, vb int) bool { return va >= vb })
}

// TestAddLtConst pins B to a fixed constant instead of a second vector.
func TestAddLtConst(t *testing.T) {
	s := sat.NewDefaultSolver()
	enc := NewEncoder(s)
	a := bvVars(s, 2)
	if err := enc.AddLtConst(a, 2); err != nil {
		t.Fatalf("AddLtConst: %v", err)
	}

	for va := 0; va < 4; va++ {
		got := s.Solve(bvAssumptions(a, va), 0) == sat.True
		want := va < 2
		if got != want {
			t.Errorf("a=%d: Solve() sat=%v, want %v", va, got, want)
		}
	}
}

// TestAddEq_DifferentLength checks that a short vector is treated as
// zero-extended rather than rejected.
func TestAddEq_DifferentLength(t *testing.T) {
	s := sat.NewDefaultSolver()
	enc := NewEncoder(s)
	a := bvVars(s, 1) // A in {0,1}
	b := bvVars(s, 2) // B in {0,1,2,3}
	if err := enc.AddEq(a, b); err != nil {
		t.Fatalf("AddEq: %v", err)
	}

	for va := 0; va < 2; va++ {
		for vb := 0; vb < 4; vb++ {
			assumptions := append(bvAssumptions(a, va), bvAssumptions(b, vb)...)
			got := s.Solve(assumptions, 0) == sat.True
			want := va == vb
			if got != want {
				t.Errorf("a=%d b=%d: Solve() sat=%v, want %v", va, vb, got, want)
			}
		}
	}
}
