package sat

import "time"

// Stats is a point-in-time snapshot of solver statistics (spec.md §6).
type Stats struct {
	Variables     int
	Constraints   int
	Learnts       int
	Literals      int64
	Restarts      int64
	Decisions     int64
	Conflicts     int64
	Propagations  int64
	ConflictLimit int
	LearntLimit   int
	LBDAverage    float64
	Elapsed       time.Duration
}

// Statistics returns a snapshot of the solver's running statistics
// (spec.md §6).
func (s *Solver) Statistics() Stats {
	st := s.stats
	st.Variables = s.NumVariables()
	st.Constraints = s.NumConstraints()
	st.Learnts = s.NumLearnts()
	st.LBDAverage = s.lbdAvg.val()
	if s.controller != nil {
		st.ConflictLimit = s.controller.ConflictLimit()
		st.LearntLimit = s.controller.LearntLimit()
	}
	if !s.startTime.IsZero() {
		st.Elapsed = time.Since(s.startTime)
	}
	return st
}

// SolveResult is the outcome of a Solve call: True (SAT), False (UNSAT),
// or Unknown (budget/time exhausted, spec.md §6).
type SolveResult = LBool

// Solve attempts to find a model for the clause database under the given
// assumption literals (spec.md §4.9, §6). If timeLimit is positive, it
// bounds the wall-clock duration of this call alone (in addition to any
// standing conflict/propagation budgets set via SetConflictBudget /
// SetPropagationBudget).
func (s *Solver) Solve(assumptions []Literal, timeLimit time.Duration) SolveResult {
	s.startTime = time.Now()
	s.stopFlag.Store(false)
	prevTimeout := s.timeout
	if timeLimit > 0 {
		s.timeout = timeLimit
	}
	defer func() { s.timeout = prevTimeout }()

	s.finalConflict = nil
	s.msg.OnSolve(assumptions)

	if !s.IsSane() {
		s.msg.OnResult(False)
		return False
	}

	s.Simplify()
	if !s.IsSane() {
		s.msg.OnResult(False)
		return False
	}

	for _, a := range assumptions {
		s.trailLim = append(s.trailLim, len(s.trail))
		s.isAssumption[a.VarID()] = true
		if !s.checkAndAssign(a) {
			s.extractAssumptionCore(a)
			s.cancelUntil(0)
			s.msg.OnResult(False)
			return False
		}
	}

	if conflict := s.Propagate(); conflict != nil {
		s.extractConflictCore(conflict)
		s.cancelUntil(0)
		s.msg.OnResult(False)
		return False
	}

	s.rootLevel = s.decisionLevel()
	s.controller.Init(s.NumConstraints())

	status := Unknown
	for status == Unknown {
		status = s.search()
		s.msg.OnProgress(s.Statistics())

		if status != Unknown {
			break
		}
		if s.shouldStop() {
			break
		}
		s.stats.Restarts++
		s.controller.OnRestart(s.stats.Restarts)
	}

	if status == True {
		s.saveModel()
	}
	s.cancelUntil(0)

	s.msg.OnResult(status)
	return status
}

// search runs one restart's worth of the decide/propagate/analyze loop
// (spec.md §4.9), returning True/False when it has a definitive answer or
// Unknown when the restart's conflict budget is exhausted.
func (s *Solver) search() SolveResult {
	conflictCount := 0

	for {
		if s.shouldStop() {
			return Unknown
		}

		if conflict := s.Propagate(); conflict != nil {
			conflictCount++
			s.stats.Conflicts++

			if s.decisionLevel() == s.rootLevel {
				s.extractConflictCore(conflict)
				if s.rootLevel == 0 {
					s.unsat = true
				}
				return False
			}

			learnt, backtrackLevel := s.analyze(conflict)
			if backtrackLevel < s.rootLevel {
				backtrackLevel = s.rootLevel
			}
			s.cancelUntil(backtrackLevel)
			s.record(learnt)

			s.DecayClaActivity()
			s.DecayVarActivity()
			s.controller.OnConflict()
			continue
		}

		if conflictCount >= s.controller.ConflictLimit() {
			s.cancelUntil(s.rootLevel)
			return Unknown
		}

		if s.decisionLevel() == 0 {
			s.Simplify()
			if !s.IsSane() {
				return False
			}
		}

		if len(s.learnts)-s.NumAssigns() >= s.controller.LearntLimit() {
			s.ReduceDB()
		}

		lit := s.order.NextDecision()
		if lit == InvalidLiteral {
			return True
		}

		s.stats.Decisions++
		s.assume(lit)
	}
}
