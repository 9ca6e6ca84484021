package sat

import "strings"

// status bit-packs the per-clause flags that spec.md §3 calls "immutable
// literal count and learnt-flag bit-packed", generalized to also carry the
// "protected" bit used by reduce_learnt's locked-clause exemption
// (grounded on the teacher's in-progress rewrite, sat/clauses.go).
type status uint8

const (
	statusLearnt    status = 0b001
	statusDeleted   status = 0b010
	statusProtected status = 0b100
)

// Clause is an immutable-size, mutable-content CNF clause. Positions 0 and
// 1 are always the two watched literals (spec.md §3 invariants); the
// clause is registered in watchers[~lit(0)] and watchers[~lit(1)].
type Clause struct {
	activity float64

	// literals always contains at least two entries for a live clause; it
	// is nil once the clause has been deleted (see Delete).
	literals []Literal

	// prevPos resumes the search for a replacement watch from where the
	// last search left off instead of always restarting at index 2,
	// grounded on the teacher's v2 clause rewrite (sat/clauses.go). Must
	// always be in [2, len(literals)] when valid; out-of-range values are
	// treated as "start over" by Propagate.
	prevPos int

	// lbd is the literal block distance (number of distinct decision
	// levels spanned by the clause at the time it was learnt). It is
	// metadata only: spec.md §4.5's reduce_learnt orders clauses by
	// activity, not LBD.
	lbd uint32

	mask status
}

func (c *Clause) isLearnt() bool { return c.mask&statusLearnt != 0 }

func (c *Clause) isProtected() bool { return c.mask&statusProtected != 0 }

func (c *Clause) setProtected(p bool) {
	if p {
		c.mask |= statusProtected
	} else {
		c.mask &^= statusProtected
	}
}

// Literals returns the clause's current literals. Callers must not retain
// the slice across a backtrack/analysis step, as clauses mutate their
// literal order in place.
func (c *Clause) Literals() []Literal {
	return c.literals
}

func (c *Clause) Len() int { return len(c.literals) }

func (c *Clause) IsLearnt() bool { return c.isLearnt() }

func (c *Clause) LBD() uint32 { return c.lbd }

// NewClause builds a clause from tmpLiterals, applying the root-level
// simplifications of spec.md §4.5 (dedup, drop-False, detect-True) when
// learnt is false. It returns (nil, true) when the clause is trivially
// satisfied or was degenerated to a fact that got enqueued successfully,
// (nil, false) on an empty/contradictory clause, and (clause, true) for a
// genuine size>=2 clause. tmpLiterals may be reordered/truncated in place.
func NewClause(s *Solver, tmpLiterals []Literal, learnt bool) (*Clause, bool) {
	size := len(tmpLiterals)

	if !learnt {
		seen := map[Literal]struct{}{}

		for i := size - 1; i >= 0; i-- {
			// If the opposite literal is already present, the clause is a
			// tautology and trivially satisfied.
			if _, ok := seen[tmpLiterals[i].Opposite()]; ok {
				return nil, true
			}

			if _, ok := seen[tmpLiterals[i]]; ok {
				size--
				tmpLiterals[i], tmpLiterals[size] = tmpLiterals[size], tmpLiterals[i]
				continue
			}
			seen[tmpLiterals[i]] = struct{}{}

			switch s.LitValue(tmpLiterals[i]) {
			case True:
				return nil, true
			case False:
				size--
				tmpLiterals[i], tmpLiterals[size] = tmpLiterals[size], tmpLiterals[i]
			}
		}

		tmpLiterals = tmpLiterals[:size]
	}

	switch size {
	case 0:
		return nil, false
	case 1:
		return nil, s.enqueue(tmpLiterals[0], nil)
	default:
		c := &Clause{
			literals: append([]Literal(nil), tmpLiterals...),
			prevPos:  2,
		}
		if learnt {
			c.mask |= statusLearnt

			// Move the literal with the highest decision level (other
			// than the asserting literal at position 0) into position 1
			// so it becomes the second watch, matching spec.md §4.3's
			// reordering step and the invariant that a learnt clause's
			// watches are its two most-recently-falsified literals.
			maxLevel := -1
			hi := -1
			for i := 1; i < len(c.literals); i++ {
				if lvl := s.level[c.literals[i].VarID()]; lvl > maxLevel {
					maxLevel = lvl
					hi = i
				}
			}
			c.literals[hi], c.literals[1] = c.literals[1], c.literals[hi]

			c.lbd = computeLBD(s, c.literals)
		}

		s.Watch(c, c.literals[0].Opposite(), c.literals[1])
		s.Watch(c, c.literals[1].Opposite(), c.literals[0])

		return c, true
	}
}

// computeLBD returns the number of distinct decision levels represented
// among lits, used only as quality metadata on learnt clauses.
func computeLBD(s *Solver, lits []Literal) uint32 {
	s.lbdSeen.Clear()
	n := uint32(0)
	for _, l := range lits {
		lvl := s.level[l.VarID()]
		if lvl < 0 {
			continue
		}
		if !s.lbdSeen.Contains(lvl) {
			s.lbdSeen.Add(lvl)
			n++
		}
	}
	return n
}

// locked returns true if the clause is currently the reason of its own
// asserting literal (position 0), i.e. removing it would invalidate a
// forced assignment still on the trail (spec.md §3 "Ownership").
func (c *Clause) locked(s *Solver) bool {
	return s.reason[c.literals[0].VarID()] == c
}

// Delete unregisters the clause from both its watch lists and releases its
// literal storage. Callers must have already proven !locked(s), except at
// decision level 0 (Simplify's sweep), where the reasons of level-0
// assignments are never consulted.
func (c *Clause) Delete(s *Solver) {
	c.mask |= statusDeleted
	s.Unwatch(c, c.literals[0].Opposite())
	s.Unwatch(c, c.literals[1].Opposite())
	c.literals = nil
}

// Simplify drops any literal known False and reports whether the clause is
// now satisfied (contains a True literal), for use by reduce_CNF at level
// 0 (spec.md §4.5).
func (c *Clause) Simplify(s *Solver) bool {
	k := 0
	for _, l := range c.literals {
		switch s.LitValue(l) {
		case True:
			return true
		case False:
			// drop
		default:
			c.literals[k] = l
			k++
		}
	}
	c.literals = c.literals[:k]
	return false
}

// Propagate is invoked when the triggering literal l has just become
// True, so that c's watched literal ~l is now False. It restores the two-watched-literal invariant,
// possibly re-registering the watch on a different literal, and returns
// false only if it derived a conflict (c.literals[0] was forced False).
func (c *Clause) Propagate(s *Solver, l Literal) bool {
	opp := l.Opposite()
	if c.literals[0] == opp {
		c.literals[0], c.literals[1] = c.literals[1], c.literals[0]
	}

	if s.LitValue(c.literals[0]) == True {
		s.Watch(c, l, c.literals[0])
		return true
	}

	if c.prevPos < 2 || c.prevPos > len(c.literals) {
		c.prevPos = 2
	}

	if idx, ok := c.findWatchFrom(s, c.prevPos); ok {
		c.adoptWatch(s, l, idx)
		return true
	}
	if idx, ok := c.findWatchFrom(s, 2); ok {
		c.adoptWatch(s, l, idx)
		return true
	}

	// Every other literal is False: literals[0] is forced, or it is
	// already False and this is the conflicting clause.
	s.Watch(c, l, c.literals[0])
	return s.enqueue(c.literals[0], c)
}

// findWatchFrom scans literals[from:] for a non-False literal to adopt as
// the new watch, wrapping the caller's search window.
func (c *Clause) findWatchFrom(s *Solver, from int) (int, bool) {
	for i := from; i < len(c.literals); i++ {
		if s.LitValue(c.literals[i]) != False {
			return i, true
		}
	}
	return 0, false
}

func (c *Clause) adoptWatch(s *Solver, l Literal, idx int) {
	newWatch := c.literals[idx]
	c.literals[idx] = l.Opposite()
	c.literals[1] = newWatch
	c.prevPos = idx
	s.Watch(c, newWatch.Opposite(), c.literals[0])
}

// ExplainConflict appends the negation of every literal of c (the clause
// being conflicting) to dst and returns the result; used by analyze when
// starting from the conflicting clause.
func (c *Clause) ExplainConflict(dst []Literal) []Literal {
	for _, l := range c.literals {
		dst = append(dst, l.Opposite())
	}
	return dst
}

// ExplainAssign appends the negation of every literal but the first
// (the implied one) to dst; used by analyze when the clause is the reason
// of an already-assigned literal.
func (c *Clause) ExplainAssign(dst []Literal) []Literal {
	for _, l := range c.literals[1:] {
		dst = append(dst, l.Opposite())
	}
	return dst
}

func (c *Clause) String() string {
	if len(c.literals) == 0 {
		return "Clause[]"
	}
	sb := strings.Builder{}
	sb.WriteString("Clause[")
	sb.WriteString(c.literals[0].String())
	for _, l := range c.literals[1:] {
		sb.WriteByte(' ')
		sb.WriteString(l.String())
	}
	sb.WriteByte(']')
	return sb.String()
}
