package sat

import "math/rand"

// Selecter picks the next decision literal, applying a polarity heuristic
// (spec.md §4.7). NextDecision returns InvalidLiteral once every
// decision-eligible variable is assigned, signaling that the search has
// completed SAT.
type Selecter interface {
	NextDecision() Literal
}

// newSelecter builds the Selecter named by ops.SelecterKind, defaulting to
// the phase-caching policy ("MS2" in spec.md §4.7 terms).
func newSelecter(s *Solver, ops Options) Selecter {
	switch ops.SelecterKind {
	case "wl_posi":
		return &watcherCountSelecter{s: s, preferMoreWatched: true}
	case "wl_nega":
		return &watcherCountSelecter{s: s, preferMoreWatched: false}
	case "activity":
		return &activitySelecter{s: s}
	default:
		return &phaseCachingSelecter{
			s:           s,
			phaseSaving: ops.PhaseSaving,
			varFreq:     ops.VarFreq,
			rng:         rand.New(rand.NewSource(1)),
		}
	}
}

// popNextUnassigned pops variables off the heap until it finds one that is
// still Unknown (variables can linger in the heap after being assigned by
// propagation rather than decision), or reports that none remain.
func popNextUnassigned(s *Solver) (int, bool) {
	for !s.heap.Empty() {
		v := s.heap.PopTop()
		if s.VarValue(v) == Unknown {
			return v, true
		}
	}
	return 0, false
}

// phaseCachingSelecter implements the "MS2" variant of spec.md §4.7: reuse
// the last known polarity of a variable if one was ever assigned,
// otherwise default to negative polarity; with probability varFreq, pick a
// uniform random eligible variable and random polarity instead
// (the 2%-random-frequency "MS2" combination).
type phaseCachingSelecter struct {
	s           *Solver
	phaseSaving bool
	varFreq     float64
	rng         *rand.Rand
}

func (sel *phaseCachingSelecter) NextDecision() Literal {
	s := sel.s

	if sel.varFreq > 0 && !s.heap.Empty() && sel.rng.Float64() < sel.varFreq {
		v := sel.rng.Intn(s.NumVariables())
		if s.decisionEligible[v] && s.VarValue(v) == Unknown {
			if sel.rng.Float64() < 0.5 {
				return NegativeLiteral(v)
			}
			return PositiveLiteral(v)
		}
	}

	v, ok := popNextUnassigned(s)
	if !ok {
		return InvalidLiteral
	}

	if sel.phaseSaving {
		switch s.previous[PositiveLiteral(v)] {
		case True:
			return PositiveLiteral(v)
		case False:
			return NegativeLiteral(v)
		}
	}
	return NegativeLiteral(v)
}

// watcherCountSelecter implements spec.md §4.7's "WlPosi"/"WlNega"
// policies: pick the polarity whose negation currently has more (WlPosi)
// or fewer (WlNega) watchers. WlPosi bets that falsifying the
// more-watched literal triggers more propagation sooner; WlNega is the
// original's alternative bet that the less-contested polarity is more
// likely to survive without forcing an immediate conflict.
type watcherCountSelecter struct {
	s                 *Solver
	preferMoreWatched bool
}

func (sel *watcherCountSelecter) NextDecision() Literal {
	s := sel.s
	v, ok := popNextUnassigned(s)
	if !ok {
		return InvalidLiteral
	}
	pos := PositiveLiteral(v)
	neg := NegativeLiteral(v)
	negMore := len(s.watchers[neg]) >= len(s.watchers[pos])
	if negMore == sel.preferMoreWatched {
		return neg
	}
	return pos
}

// activitySelecter ignores phase history entirely and always picks the
// positive literal, matching the ymsat1_old fallback path in
// original_source/c++-src/ymsat_old/YmSatMS2.cc where neither phase
// caching nor a watcher heuristic is configured.
type activitySelecter struct {
	s *Solver
}

func (sel *activitySelecter) NextDecision() Literal {
	v, ok := popNextUnassigned(sel.s)
	if !ok {
		return InvalidLiteral
	}
	return PositiveLiteral(v)
}
