// Package encoding provides linear-translation helpers (Tseitin gates,
// bit-vector comparisons, and cardinality constraints) on top of the CDCL
// core. Every function here only calls NewVariable/AddClause/Solve on the
// wrapped Solver and introduces no new solver invariants of its own,
// grounded on original_source/c++-src/SatTseitinEnc.cc, SatBvEnc.cc,
// SatCountEnc.cc, and SatOrderedSet.cc (the ym-sat library's own
// "collaborator" layer built strictly on top of its core).
package encoding

import (
	"fmt"

	"github.com/hartshard/cdclsat/internal/sat"
)

// Literal re-exports sat.Literal so callers of this package never need to
// import internal/sat directly.
type Literal = sat.Literal

// InvalidLiteral re-exports sat.InvalidLiteral, returned alongside errors
// from this package's allocating helpers.
const InvalidLiteral = sat.InvalidLiteral

// Encoder wraps a Solver and adds gate/constraint helpers that expand to
// plain clauses over the solver's own literals.
type Encoder struct {
	s *sat.Solver

	trueLit Literal
	hasTrue bool
}

// NewEncoder returns an Encoder backed by s.
func NewEncoder(s *sat.Solver) *Encoder {
	return &Encoder{s: s}
}

// TrueLiteral returns a literal forced True by a unit clause, allocating and
// asserting it on first use. It backs the constant-vector overloads of
// bit-vector comparisons (SatBvEnc.cc builds equivalent constant literals
// from the solver's own "one" and "zero" rather than special-casing them).
func (e *Encoder) TrueLiteral() (Literal, error) {
	if !e.hasTrue {
		e.trueLit = e.NewVariable()
		if err := e.s.AddClause1(e.trueLit); err != nil {
			return InvalidLiteral, err
		}
		e.hasTrue = true
	}
	return e.trueLit, nil
}

// FalseLiteral returns a literal forced False, the negation of TrueLiteral.
func (e *Encoder) FalseLiteral() (Literal, error) {
	t, err := e.TrueLiteral()
	if err != nil {
		return InvalidLiteral, err
	}
	return t.Opposite(), nil
}

// NewVariable allocates an auxiliary (non-decision) variable, matching
// how the original's Tseitin helpers introduce gate-output variables that
// the search should never branch on directly.
func (e *Encoder) NewVariable() Literal {
	return e.s.NewVariable(false)
}

// AddBuffGate asserts lit1 == lit2 (SatTseitinEnc::add_buffgate).
func (e *Encoder) AddBuffGate(lit1, lit2 Literal) error {
	if err := e.s.AddClause2(lit1.Opposite(), lit2); err != nil {
		return err
	}
	return e.s.AddClause2(lit1, lit2.Opposite())
}

// AddNotGate asserts lit1 == ~lit2 (SatTseitinEnc::add_notgate).
func (e *Encoder) AddNotGate(lit1, lit2 Literal) error {
	return e.AddBuffGate(lit1.Opposite(), lit2)
}

// AddAndGate asserts olit == AND(in...), grounded on
// SatTseitinEnc::add_andgate's n-input form.
func (e *Encoder) AddAndGate(olit Literal, in ...Literal) error {
	if len(in) == 0 {
		return fmt.Errorf("encoding: AddAndGate needs at least one input")
	}
	tmp := make([]Literal, len(in)+1)
	for i, l := range in {
		tmp[i] = l.Opposite()
		if err := e.s.AddClause2(l, olit.Opposite()); err != nil {
			return err
		}
	}
	tmp[len(in)] = olit
	return e.s.AddClause(tmp)
}

// AddOrGate asserts olit == OR(in...), grounded on
// SatTseitinEnc::add_orgate's n-input form.
func (e *Encoder) AddOrGate(olit Literal, in ...Literal) error {
	if len(in) == 0 {
		return fmt.Errorf("encoding: AddOrGate needs at least one input")
	}
	tmp := make([]Literal, len(in)+1)
	for i, l := range in {
		if err := e.s.AddClause2(l.Opposite(), olit); err != nil {
			return err
		}
		tmp[i] = l
	}
	tmp[len(in)] = olit.Opposite()
	return e.s.AddClause(tmp)
}

// AddNandGate asserts olit == NAND(in...).
func (e *Encoder) AddNandGate(olit Literal, in ...Literal) error {
	return e.AddAndGate(olit.Opposite(), in...)
}

// AddNorGate asserts olit == NOR(in...).
func (e *Encoder) AddNorGate(olit Literal, in ...Literal) error {
	return e.AddOrGate(olit.Opposite(), in...)
}

// AddXorGate asserts olit == XOR(in...) by enumerating every input
// assignment, matching SatTseitinEnc::add_xorgate. This is exponential in
// len(in) and is only intended for small gate fan-in, exactly as in the
// original.
func (e *Encoder) AddXorGate(olit Literal, in ...Literal) error {
	n := len(in)
	if n == 0 {
		return fmt.Errorf("encoding: AddXorGate needs at least one input")
	}
	tmp := make([]Literal, n+1)
	for p := 0; p < (1 << n); p++ {
		parity := 0
		for i, l := range in {
			if p&(1<<i) != 0 {
				tmp[i] = l.Opposite()
				parity++
			} else {
				tmp[i] = l
			}
		}
		if parity%2 == 1 {
			tmp[n] = olit
		} else {
			tmp[n] = olit.Opposite()
		}
		if err := e.s.AddClause(tmp); err != nil {
			return err
		}
	}
	return nil
}

// AddXnorGate asserts olit == XNOR(in...).
func (e *Encoder) AddXnorGate(olit Literal, in ...Literal) error {
	return e.AddXorGate(olit.Opposite(), in...)
}

// AndGate allocates a fresh auxiliary literal asserted equal to AND(in...).
func (e *Encoder) AndGate(in ...Literal) (Literal, error) {
	o := e.NewVariable()
	return o, e.AddAndGate(o, in...)
}

// OrGate allocates a fresh auxiliary literal asserted equal to OR(in...).
func (e *Encoder) OrGate(in ...Literal) (Literal, error) {
	o := e.NewVariable()
	return o, e.AddOrGate(o, in...)
}

// XorGate allocates a fresh auxiliary literal asserted equal to XOR(in...).
func (e *Encoder) XorGate(in ...Literal) (Literal, error) {
	o := e.NewVariable()
	return o, e.AddXorGate(o, in...)
}

// XnorGate allocates a fresh auxiliary literal asserted equal to XNOR(in...).
func (e *Encoder) XnorGate(in ...Literal) (Literal, error) {
	o := e.NewVariable()
	return o, e.AddXnorGate(o, in...)
}

// AddHalfAdder asserts slit == a XOR b and olit == a AND b
// (SatTseitinEnc::add_half_adder).
func (e *Encoder) AddHalfAdder(a, b, slit, olit Literal) error {
	if err := e.AddXorGate(slit, a, b); err != nil {
		return err
	}
	return e.AddAndGate(olit, a, b)
}

// AddFullAdder asserts slit == a XOR b XOR cin and olit == majority(a, b,
// cin) (SatTseitinEnc::add_full_adder).
func (e *Encoder) AddFullAdder(a, b, cin, slit, olit Literal) error {
	if err := e.AddXorGate(slit, a, b, cin); err != nil {
		return err
	}
	// olit == (a AND b) OR (a AND cin) OR (b AND cin)
	ab, err := e.AndGate(a, b)
	if err != nil {
		return err
	}
	ac, err := e.AndGate(a, cin)
	if err != nil {
		return err
	}
	bc, err := e.AndGate(b, cin)
	if err != nil {
		return err
	}
	return e.AddOrGate(olit, ab, ac, bc)
}
