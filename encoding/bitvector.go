package encoding

import "fmt"

// BitVector comparisons treat a []Literal, indexed from the least
// significant bit, as an unsigned binary integer, grounded on
// original_source/include/ym/SatBvEnc.h and SatBvEnc.cc. Vectors of
// differing length are zero-extended at their high end rather than
// rejected, matching the original's own documented behavior.

// align pads a and b with FalseLiteral to a common length, matching
// SatBvEnc.cc's "短い方の上位ビットを0と仮定する" (assume the shorter
// vector's high bits are 0) rule.
func (e *Encoder) align(a, b []Literal) ([]Literal, []Literal, error) {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	zero, err := e.FalseLiteral()
	if err != nil {
		return nil, nil, err
	}
	pad := func(v []Literal) []Literal {
		if len(v) == n {
			return v
		}
		out := make([]Literal, n)
		copy(out, v)
		for i := len(v); i < n; i++ {
			out[i] = zero
		}
		return out
	}
	return pad(a), pad(b), nil
}

// constVector returns a bit vector of at least width bits (widened as
// needed to hold every set bit of val) whose literals are forced to the
// binary representation of val, used to implement the int-constant
// overloads of add_eq/add_ne/add_lt/.../add_ge in terms of the vector-vs-
// vector forms.
func (e *Encoder) constVector(val, width int) ([]Literal, error) {
	if val < 0 {
		return nil, fmt.Errorf("encoding: bit-vector constant must be non-negative, got %d", val)
	}
	for val>>width != 0 {
		width++
	}
	t, err := e.TrueLiteral()
	if err != nil {
		return nil, err
	}
	f, err := e.FalseLiteral()
	if err != nil {
		return nil, err
	}
	out := make([]Literal, width)
	for i := range out {
		if val&(1<<i) != 0 {
			out[i] = t
		} else {
			out[i] = f
		}
	}
	return out, nil
}

// AddEq asserts A == B, treating a_vec and b_vec as unsigned binary
// integers (SatBvEnc::add_eq).
func (e *Encoder) AddEq(aVec, bVec []Literal) error {
	a, b, err := e.align(aVec, bVec)
	if err != nil {
		return err
	}
	for i := range a {
		if err := e.AddBuffGate(a[i], b[i]); err != nil {
			return err
		}
	}
	return nil
}

// AddEqConst asserts A == bVal (SatBvEnc::add_eq with an int constant).
func (e *Encoder) AddEqConst(aVec []Literal, bVal int) error {
	b, err := e.constVector(bVal, len(aVec))
	if err != nil {
		return err
	}
	return e.AddEq(aVec, b)
}

// AddNe asserts A != B (SatBvEnc::add_ne): at least one bit position must
// differ, encoded as a clause over one XOR-gate output per bit.
func (e *Encoder) AddNe(aVec, bVec []Literal) error {
	a, b, err := e.align(aVec, bVec)
	if err != nil {
		return err
	}
	diffs := make([]Literal, len(a))
	for i := range a {
		d, err := e.XorGate(a[i], b[i])
		if err != nil {
			return err
		}
		diffs[i] = d
	}
	return e.s.AddClause(diffs)
}

// AddNeConst asserts A != bVal (SatBvEnc::add_ne with an int constant).
func (e *Encoder) AddNeConst(aVec []Literal, bVal int) error {
	b, err := e.constVector(bVal, len(aVec))
	if err != nil {
		return err
	}
	return e.AddNe(aVec, b)
}

// addCompare builds, for aligned equal-length vectors a and b, the literal
// asserting A < B when strict is true or A <= B when strict is false, by
// recursing from the most significant bit down: A is less than B either
// because some higher bit already decided it, or every higher bit is equal
// and the current bit makes it so (~a[i] AND b[i]). This mirrors the
// recursive bit-by-bit structure of SatBvEnc::add_lt/add_le without the
// original's hand-unrolled literal bookkeeping.
func (e *Encoder) addCompare(a, b []Literal, strict bool) (Literal, error) {
	n := len(a)
	if n == 0 {
		if strict {
			return e.FalseLiteral()
		}
		return e.TrueLiteral()
	}

	// lessAt[i] asserts the comparison is decided in A's favor exactly at
	// bit i, with all higher bits equal. eqAbove is updated after each bit
	// so that, once the loop completes, it holds full vector equality.
	eqAbove, err := e.TrueLiteral() // vacuously true above the top bit
	if err != nil {
		return InvalidLiteral, err
	}

	var decided []Literal
	for i := n - 1; i >= 0; i-- {
		lessAt, err := e.AndGate(eqAbove, a[i].Opposite(), b[i])
		if err != nil {
			return InvalidLiteral, err
		}
		decided = append(decided, lessAt)

		eqBit, err := e.XnorGate(a[i], b[i])
		if err != nil {
			return InvalidLiteral, err
		}
		eqAbove, err = e.AndGate(eqAbove, eqBit)
		if err != nil {
			return InvalidLiteral, err
		}
	}

	lt, err := e.OrGate(decided...)
	if err != nil {
		return InvalidLiteral, err
	}
	if strict {
		return lt, nil
	}
	return e.OrGate(lt, eqAbove)
}

// AddLt asserts A < B (SatBvEnc::add_lt).
func (e *Encoder) AddLt(aVec, bVec []Literal) error {
	a, b, err := e.align(aVec, bVec)
	if err != nil {
		return err
	}
	lt, err := e.addCompare(a, b, true)
	if err != nil {
		return err
	}
	return e.s.AddClause1(lt)
}

// AddLtConst asserts A < bVal (SatBvEnc::add_lt with an int constant).
func (e *Encoder) AddLtConst(aVec []Literal, bVal int) error {
	b, err := e.constVector(bVal, len(aVec))
	if err != nil {
		return err
	}
	return e.AddLt(aVec, b)
}

// AddLe asserts A <= B (SatBvEnc::add_le).
func (e *Encoder) AddLe(aVec, bVec []Literal) error {
	a, b, err := e.align(aVec, bVec)
	if err != nil {
		return err
	}
	le, err := e.addCompare(a, b, false)
	if err != nil {
		return err
	}
	return e.s.AddClause1(le)
}

// AddLeConst asserts A <= bVal (SatBvEnc::add_le with an int constant).
func (e *Encoder) AddLeConst(aVec []Literal, bVal int) error {
	b, err := e.constVector(bVal, len(aVec))
	if err != nil {
		return err
	}
	return e.AddLe(aVec, b)
}

// AddGt asserts A > B, delegating to AddLt(B, A) exactly as
// SatBvEnc::add_gt does.
func (e *Encoder) AddGt(aVec, bVec []Literal) error {
	return e.AddLt(bVec, aVec)
}

// AddGtConst asserts A > bVal (SatBvEnc::add_gt with an int constant).
func (e *Encoder) AddGtConst(aVec []Literal, bVal int) error {
	b, err := e.constVector(bVal, len(aVec))
	if err != nil {
		return err
	}
	return e.AddLt(b, aVec)
}

// AddGe asserts A >= B, delegating to AddLe(B, A) exactly as
// SatBvEnc::add_ge does.
func (e *Encoder) AddGe(aVec, bVec []Literal) error {
	return e.AddLe(bVec, aVec)
}

// AddGeConst asserts A >= bVal (SatBvEnc::add_ge with an int constant).
func (e *Encoder) AddGeConst(aVec []Literal, bVal int) error {
	b, err := e.constVector(bVal, len(aVec))
	if err != nil {
		return err
	}
	return e.AddLe(b, aVec)
}
