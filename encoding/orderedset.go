package encoding

import "fmt"

// OrderedSet maintains a running unary count of how many of the literals
// folded into it via Add have been true, represented as a monotonically
// non-increasing register of literals: Literals()[j] is true iff at least
// j+1 of the literals added so far are true. The register saturates at
// Cap entries, grounded on original_source/c++-src/SatOrderedSet.cc's
// ordered literal array and used by counter.go to build sequential
// at-most-k/at-least-k/exactly-k constraints without duplicating the
// underlying Tseitin gates for a shared set of literals.
type OrderedSet struct {
	enc *Encoder
	cap int
	reg []Literal
}

// NewOrderedSet returns an empty OrderedSet whose register never grows
// past cap entries (cap must be >= 1).
func NewOrderedSet(enc *Encoder, cap int) (*OrderedSet, error) {
	if cap < 1 {
		return nil, fmt.Errorf("encoding: OrderedSet capacity must be >= 1, got %d", cap)
	}
	return &OrderedSet{enc: enc, cap: cap}, nil
}

// Add folds one more input literal into the running count.
func (o *OrderedSet) Add(x Literal) error {
	n := len(o.reg)
	newLen := n + 1
	if newLen > o.cap {
		newLen = o.cap
	}
	next := make([]Literal, newLen)

	// next[0] ("at least 1 so far") = x OR reg[0].
	if n == 0 {
		next[0] = x
	} else {
		l, err := o.enc.OrGate(x, o.reg[0])
		if err != nil {
			return err
		}
		next[0] = l
	}

	// next[j] ("at least j+1 so far") = (x AND reg[j-1]) OR reg[j], for
	// j=1..newLen-1. newLen <= n+1 so reg[j-1] always exists here.
	for j := 1; j < newLen; j++ {
		carried, err := o.enc.AndGate(x, o.reg[j-1])
		if err != nil {
			return err
		}
		if j < n {
			merged, err := o.enc.OrGate(carried, o.reg[j])
			if err != nil {
				return err
			}
			next[j] = merged
		} else {
			next[j] = carried
		}
	}

	o.reg = next
	return nil
}

// AddAll folds every literal in xs into the running count, in order.
func (o *OrderedSet) AddAll(xs []Literal) error {
	for _, x := range xs {
		if err := o.Add(x); err != nil {
			return err
		}
	}
	return nil
}

// AtLeast returns the literal that is true iff the count is >= k, or an
// error if k is below 1 or exceeds the register's current length.
func (o *OrderedSet) AtLeast(k int) (Literal, error) {
	if k < 1 || k > len(o.reg) {
		return 0, fmt.Errorf("encoding: AtLeast(%d) out of range [1,%d]", k, len(o.reg))
	}
	return o.reg[k-1], nil
}

// Literals returns the current register, Literals()[j] true iff the count
// is >= j+1.
func (o *OrderedSet) Literals() []Literal {
	return o.reg
}
