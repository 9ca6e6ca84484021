package encoding

import "fmt"

// AddAtMostK asserts that at most k of lits are true, via the sequential
// counter encoding (Sinz 2005) built on top of OrderedSet's running-count
// register, grounded on original_source/c++-src/SatCountEnc.cc's
// add_at_most_k.
func AddAtMostK(enc *Encoder, lits []Literal, k int) error {
	if k < 0 {
		return fmt.Errorf("encoding: AddAtMostK: k must be >= 0, got %d", k)
	}
	if k >= len(lits) {
		return nil // constraint is vacuously true
	}
	os, err := NewOrderedSet(enc, k+1)
	if err != nil {
		return err
	}
	if err := os.AddAll(lits); err != nil {
		return err
	}
	overflow, err := os.AtLeast(k + 1)
	if err != nil {
		return err
	}
	return enc.s.AddClause1(overflow.Opposite())
}

// AddAtLeastK asserts that at least k of lits are true, grounded on
// original_source/c++-src/SatCountEnc.cc's add_at_least_k.
func AddAtLeastK(enc *Encoder, lits []Literal, k int) error {
	if k <= 0 {
		return nil // vacuously true
	}
	if k > len(lits) {
		return fmt.Errorf("encoding: AddAtLeastK: k=%d exceeds %d literals", k, len(lits))
	}
	os, err := NewOrderedSet(enc, k)
	if err != nil {
		return err
	}
	if err := os.AddAll(lits); err != nil {
		return err
	}
	atLeastK, err := os.AtLeast(k)
	if err != nil {
		return err
	}
	return enc.s.AddClause1(atLeastK)
}

// AddExactlyK asserts that exactly k of lits are true: the at-most-k and
// at-least-k constraints share a single OrderedSet register over the same
// literals, matching spec.md's "at-most-k + at-least-k added to the same
// literals makes the solver enforce exactly-k".
func AddExactlyK(enc *Encoder, lits []Literal, k int) error {
	if k < 0 || k > len(lits) {
		return fmt.Errorf("encoding: AddExactlyK: k=%d out of range [0,%d]", k, len(lits))
	}
	if k == 0 {
		for _, l := range lits {
			if err := enc.s.AddClause1(l.Opposite()); err != nil {
				return err
			}
		}
		return nil
	}

	cap := k + 1
	if cap > len(lits) {
		cap = len(lits)
	}
	os, err := NewOrderedSet(enc, cap)
	if err != nil {
		return err
	}
	if err := os.AddAll(lits); err != nil {
		return err
	}

	atLeastK, err := os.AtLeast(k)
	if err != nil {
		return err
	}
	if err := enc.s.AddClause1(atLeastK); err != nil {
		return err
	}
	if k < cap {
		overflow, err := os.AtLeast(k + 1)
		if err != nil {
			return err
		}
		if err := enc.s.AddClause1(overflow.Opposite()); err != nil {
			return err
		}
	}
	return nil
}

// AddAtMostOne is the common k=1 case of AddAtMostK, grounded on
// SatCountEnc::add_at_most_one.
func AddAtMostOne(enc *Encoder, lits []Literal) error {
	return AddAtMostK(enc, lits, 1)
}
