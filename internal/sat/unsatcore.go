package sat

import "sort"

// ConflictLiterals returns the minimal (best-effort) subset of the last
// Solve call's assumption literals that already suffice to derive
// unsatisfiability, sorted (spec.md §6, §4.10). Valid only after Solve
// returned False with a non-empty assumption list.
func (s *Solver) ConflictLiterals() []Literal {
	out := append([]Literal(nil), s.finalConflict...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// extractAssumptionCore is called when assigning an assumption literal
// directly contradicts the current assignment (the assumption's negation
// is already forced true). failed is attempted-but-rejected, so it is
// always part of the core in addition to whatever reason chain forced its
// negation (spec.md §4.10).
func (s *Solver) extractAssumptionCore(failed Literal) {
	core := s.coreVars([]int{failed.VarID()})
	s.finalConflict = s.finalConflict[:0]
	s.finalConflict = append(s.finalConflict, failed)
	s.appendCoreLiterals(core)
}

// extractConflictCore is called when propagation after all assumptions
// were pushed found a genuine conflicting clause; it mirrors conflict
// analysis (spec.md §4.3) but stops at assumption literals and
// decision-level-0 facts instead of hunting for a first-UIP.
func (s *Solver) extractConflictCore(confl *Clause) {
	startVars := make([]int, 0, confl.Len())
	for _, l := range confl.Literals() {
		startVars = append(startVars, l.VarID())
	}
	core := s.coreVars(startVars)
	s.finalConflict = s.finalConflict[:0]
	s.appendCoreLiterals(core)
}

func (s *Solver) appendCoreLiterals(core []int) {
	for _, v := range core {
		if s.assigns[PositiveLiteral(v)] == True {
			s.finalConflict = append(s.finalConflict, PositiveLiteral(v))
		} else {
			s.finalConflict = append(s.finalConflict, NegativeLiteral(v))
		}
	}
}

// coreVars walks the reason chain of every variable in startVars (assumed
// currently assigned), collecting the variables whose current value was
// forced directly by an assumption decision (reason == nil at a level
// above 0) rather than by a clause or a level-0 fact.
func (s *Solver) coreVars(startVars []int) []int {
	s.seenVar.Clear()
	var core []int

	queue := append([]int(nil), startVars...)
	for _, v := range queue {
		s.seenVar.Add(v)
	}

	for i := 0; i < len(queue); i++ {
		v := queue[i]
		if s.level[v] <= 0 {
			continue // level-0 facts hold unconditionally, never part of a core
		}
		reason := s.reason[v]
		if reason == nil {
			core = append(core, v) // this variable's value came from an assumption decision
			continue
		}
		for _, premise := range reason.Literals()[1:] {
			pv := premise.VarID()
			if s.seenVar.Contains(pv) {
				continue
			}
			s.seenVar.Add(pv)
			queue = append(queue, pv)
		}
	}

	return core
}
