package sat

// analyze implements first-UIP conflict analysis (spec.md §4.3). Given the
// conflicting clause confl, it walks the trail backwards until exactly one
// literal at the current decision level remains implicated (the UIP),
// producing a learnt clause whose first literal is the negation of the UIP
// and whose remaining literals are each the highest-level "witness" of why
// the UIP had to be chosen. It returns the learnt clause literals (reusing
// s.tmpLearnts) and the level to backtrack to.
func (s *Solver) analyze(confl *Clause) ([]Literal, int) {
	nImplicationPoints := 0

	s.tmpLearnts = s.tmpLearnts[:0]
	s.tmpLearnts = append(s.tmpLearnts, InvalidLiteral) // reserved for the UIP

	nextLiteral := len(s.trail) - 1

	l := InvalidLiteral
	s.seenVar.Clear()
	backtrackLevel := 0

	for {
		for _, q := range s.explain(confl, l) {
			v := q.VarID()
			if s.seenVar.Contains(v) {
				continue
			}
			s.seenVar.Add(v)
			s.BumpVarActivity(q)

			if s.level[v] == s.decisionLevel() {
				nImplicationPoints++
				continue
			}

			s.tmpLearnts = append(s.tmpLearnts, q.Opposite())
			if lvl := s.level[v]; lvl > backtrackLevel {
				backtrackLevel = lvl
			}
		}

		for {
			l = s.trail[nextLiteral]
			nextLiteral--
			v := l.VarID()
			confl = s.reason[v]
			if s.seenVar.Contains(v) {
				break
			}
		}

		nImplicationPoints--
		if nImplicationPoints <= 0 {
			break
		}
	}

	s.tmpLearnts[0] = l.Opposite()

	learnt := s.minimize(s.tmpLearnts)
	s.reorderAssertingSecond(learnt)

	backtrackLevel = 0
	if len(learnt) > 1 {
		backtrackLevel = s.level[learnt[1].VarID()]
	}

	return learnt, backtrackLevel
}

// minimize implements spec.md §4.3 step 4's recursive clause minimization:
// a literal (other than the asserting one at index 0) is redundant if
// every literal in its reason clause's chain is either already marked
// (seen during the main analysis walk, or discovered redundant earlier in
// this same minimization pass), a level-0 fact, or itself implied by such
// literals. A chain that reaches an unmarked literal at a decision level
// with no representative in the learnt clause is rejected at once; that
// per-level quick-reject uses a 64-bit bitmap of "decision level mod 64".
//
// seenVar already marks every variable touched by the main analysis walk
// (and is left in that state on entry); minimize extends those marks as it
// proves sub-chains redundant, and the whole set is discarded by the next
// analyze call's seenVar.Clear().
func (s *Solver) minimize(learnt []Literal) []Literal {
	if len(learnt) <= 1 {
		return learnt
	}

	var levelMask uint64
	for _, lit := range learnt {
		levelMask |= 1 << uint(s.level[lit.VarID()]&63)
	}

	j := 1
	for i := 1; i < len(learnt); i++ {
		lit := learnt[i]
		if s.reason[lit.VarID()] != nil && s.isRedundant(lit.VarID(), levelMask) {
			continue // drop: provably implied by literals already in the clause
		}
		learnt[j] = lit
		j++
	}
	return learnt[:j]
}

// isRedundant walks the reason chain rooted at variable v (whose reason
// clause's literals[1:] are each the negation of a premise literal),
// returning true only if every premise is already marked, a level-0 fact,
// or itself implied by such premises. It returns false as soon as it meets
// a decision (no reason) or an unmarked premise at a decision level absent
// from levelMask. Premises visited by a walk are marked in seenVar only
// when the walk succeeds.
func (s *Solver) isRedundant(v int, levelMask uint64) bool {
	stack := s.minimizeStack[:0]
	stack = append(stack, v)
	visited := map[int]struct{}{}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		reason := s.reason[cur]
		if reason == nil {
			s.minimizeStack = stack
			return false
		}

		for _, premise := range reason.Literals()[1:] {
			pv := premise.VarID()
			if s.seenVar.Contains(pv) {
				continue
			}
			if _, ok := visited[pv]; ok {
				continue
			}
			if s.level[pv] == 0 {
				// Level-0 facts hold unconditionally; they never make a
				// literal non-redundant.
				s.seenVar.Add(pv)
				continue
			}
			if levelMask&(1<<uint(s.level[pv]&63)) == 0 {
				s.minimizeStack = stack
				return false
			}
			visited[pv] = struct{}{}
			stack = append(stack, pv)
		}
	}

	s.minimizeStack = stack
	for pv := range visited {
		s.seenVar.Add(pv)
	}
	return true
}

// reorderAssertingSecond moves the literal with the highest decision level
// (other than the UIP at index 0) into index 1, matching spec.md §4.3
// step 5 so that the learnt clause can be installed directly as a
// two-watched clause with the backtrack-level witness as its second watch.
func (s *Solver) reorderAssertingSecond(learnt []Literal) {
	if len(learnt) <= 1 {
		return
	}
	hi := 1
	hiLevel := s.level[learnt[1].VarID()]
	for i := 2; i < len(learnt); i++ {
		if lvl := s.level[learnt[i].VarID()]; lvl > hiLevel {
			hiLevel = lvl
			hi = i
		}
	}
	learnt[1], learnt[hi] = learnt[hi], learnt[1]
}
