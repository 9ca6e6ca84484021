// Package sat implements a CDCL (Conflict-Driven Clause-Learning) Boolean
// satisfiability solver: a lazy two-watched-literal propagation engine, a
// first-UIP conflict analyzer with recursive clause minimization, an
// activity-ordered variable heap, and a restart/clause-DB controller.
package sat

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Solver is a single CDCL search engine instance. It is not safe for
// concurrent use except for Stop, which may be called from any goroutine
// (spec.md §5).
type Solver struct {
	// Clause database (spec.md §3 "Clause database").
	constraints []*Clause
	learnts     []*Clause
	clauseInc   float64
	clauseDecay float64
	lbdAvg      ema

	// Variable ordering and control schedule.
	heap       *VarHeap
	order      Selecter
	controller Controller

	// Propagation and watchers.
	watchers  [][]watcher
	propQueue *Queue[Literal]

	// Value currently assigned to each literal (indexed by Literal, not
	// VarID, so that LitValue is branch-free).
	assigns []LBool

	// previous[l] carries the last known value of variable l.VarID() for
	// phase saving (spec.md §4.1, §4.4); only the positive-literal slot
	// per variable is used.
	previous []LBool

	// decisionEligible mirrors VarHeap's flag so a Selecter can check it
	// without indexing into the heap's internals.
	decisionEligible []bool

	// Trail: assignment stack plus per-level start offsets.
	trail    []Literal
	trailLim []int
	reason   []*Clause
	level    []int

	// unsat is true once the solver has proven the formula unsatisfiable
	// at the root level; it is permanent (spec.md §7 "Unsat-state").
	unsat bool

	// Search statistics (spec.md §6 "Statistics snapshot").
	stats     Stats
	startTime time.Time

	// Stop conditions (spec.md §5).
	stopFlag       atomic.Bool
	conflictBudget int64 // <0 disables
	propBudget     int64 // <0 disables
	timeout        time.Duration

	// model is the most recently found satisfying assignment.
	model []bool

	// Assumption handling (spec.md §4.10).
	finalConflict []Literal
	rootLevel     int
	isAssumption  []bool // per-variable: forced True by the current Solve's assumptions?

	// condGuard is the active conditional-literal scope (spec.md §6).
	condGuard []Literal

	// Reusable scratch buffers, shared across calls to avoid per-conflict
	// allocation.
	seenVar     *ResetSet
	lbdSeen     *ResetSet
	tmpWatchers   []watcher
	tmpLearnts    []Literal
	tmpReason     []Literal
	minimizeStack []int

	msg MsgHandler
}

// watcher represents a clause attached to the watch list of a literal.
type watcher struct {
	// clause is the watching clause, awoken when the watched literal it is
	// registered against becomes true.
	clause *Clause

	// guard is one of the clause's other literals. If it currently
	// evaluates to True, the clause is already satisfied and does not
	// need to be revisited; checking guard lets Propagate skip a
	// satisfied clause without touching it, at the cost of visiting
	// clauses in an order that depends on which guard happened to be
	// cached. Correctness never depends on visitation order, only on its
	// determinism given a fixed trail (spec.md §4.2).
	guard Literal
}

// Options configures a Solver's tunable heuristics (spec.md §6's
// `var_decay`/`clause_decay`/`phase_cache` keys and friends). Use Config
// and NewSolverFromConfig to build Options from the full JSON
// configuration object unless wiring the solver up outside of that path.
type Options struct {
	ClauseDecay    float64
	VariableDecay  float64
	PhaseSaving    bool
	VarFreq        float64 // probability in [0,1] of a random decision
	WlPosi         bool
	WlNega         bool
	SelecterKind   string // "phase_cache" (default), "wl_posi", "wl_nega", "activity"
	ControllerKind string // "luby" (default, ymsat2/minisat2), "geometric" (ymsat1/minisat1)
}

// DefaultOptions matches the teacher's MiniSat2-derived defaults.
var DefaultOptions = Options{
	ClauseDecay:    0.999,
	VariableDecay:  0.95,
	PhaseSaving:    true,
	VarFreq:        0.02,
	SelecterKind:   "phase_cache",
	ControllerKind: "luby",
}

// NewDefaultSolver returns a solver configured with DefaultOptions.
func NewDefaultSolver() *Solver {
	return NewSolver(DefaultOptions)
}

// NewSolver builds an empty solver (no variables, no clauses) from ops.
func NewSolver(ops Options) *Solver {
	s := &Solver{
		clauseDecay:    ops.ClauseDecay,
		clauseInc:      1,
		lbdAvg:         newEMA(0.95),
		heap:           NewVarHeap(ops.VariableDecay),
		propQueue:      NewQueue[Literal](128),
		seenVar:        &ResetSet{},
		lbdSeen:        &ResetSet{},
		conflictBudget: -1,
		propBudget:     -1,
		timeout:        -1,
	}
	s.order = newSelecter(s, ops)
	s.controller = newController(ops.ControllerKind)
	s.msg = NoOpMsgHandler{}
	return s
}

func (s *Solver) shouldStop() bool {
	if s.stopFlag.Load() {
		return true
	}
	if s.conflictBudget >= 0 && s.stats.Conflicts >= s.conflictBudget {
		return true
	}
	if s.propBudget >= 0 && s.stats.Propagations >= s.propBudget {
		return true
	}
	if s.timeout >= 0 && s.timeout <= time.Since(s.startTime) {
		return true
	}
	return false
}

// Stop requests that the Solve call in progress return Unknown at the next
// safe point. Solve clears the request when it starts, so a Stop made
// before Solve is called has no effect on it. Safe to call from any
// goroutine (spec.md §5).
func (s *Solver) Stop() {
	s.stopFlag.Store(true)
}

// SetConflictBudget sets the total number of conflicts allowed across all
// restarts of the next Solve call; a negative value disables the budget.
// It returns the previous value.
func (s *Solver) SetConflictBudget(n int64) int64 {
	prev := s.conflictBudget
	s.conflictBudget = n
	return prev
}

// SetPropagationBudget sets the total number of propagations allowed
// across all restarts of the next Solve call; a negative value disables
// the budget. It returns the previous value.
func (s *Solver) SetPropagationBudget(n int64) int64 {
	prev := s.propBudget
	s.propBudget = n
	return prev
}

// RegMsgHandler installs h as the recipient of progress/log events.
func (s *Solver) RegMsgHandler(h MsgHandler) {
	if h == nil {
		h = NoOpMsgHandler{}
	}
	s.msg = h
}

func (s *Solver) NumVariables() int   { return len(s.assigns) / 2 }
func (s *Solver) NumAssigns() int     { return len(s.trail) }
func (s *Solver) NumConstraints() int { return len(s.constraints) }
func (s *Solver) NumLearnts() int     { return len(s.learnts) }

func (s *Solver) VarValue(x int) LBool     { return s.assigns[PositiveLiteral(x)] }
func (s *Solver) LitValue(l Literal) LBool { return s.assigns[l] }

// IsSane reports whether the solver has not (yet) proven the formula
// permanently unsatisfiable (spec.md §7 "Unsat-state").
func (s *Solver) IsSane() bool { return !s.unsat }

// NewVariable allocates a fresh variable and returns its positive literal.
// Variables are numbered 0..N-1 in creation order (spec.md §6). When
// decision is false the variable is never selected by the decision
// procedure (it can still be assigned by propagation or directly via
// AddClause of a unit clause); this is used by encoding helpers for
// Tseitin auxiliary variables they never want branched on.
func (s *Solver) NewVariable(decision bool) Literal {
	s.watchers = append(s.watchers, nil, nil)
	s.reason = append(s.reason, nil)
	s.seenVar.Expand()
	s.lbdSeen.Expand()

	s.assigns = append(s.assigns, Unknown, Unknown)
	s.previous = append(s.previous, Unknown, Unknown)
	s.level = append(s.level, -1)
	s.decisionEligible = append(s.decisionEligible, decision)
	s.isAssumption = append(s.isAssumption, false)

	s.heap.AddVar(decision)

	v := s.NumVariables() - 1
	s.msg.OnNewVariable(v)
	return PositiveLiteral(v)
}

// Watch registers clause c to be awoken when Literal watch becomes true.
func (s *Solver) Watch(c *Clause, watch Literal, guard Literal) {
	s.watchers[watch] = append(s.watchers[watch], watcher{clause: c, guard: guard})
}

// Unwatch removes clause c from the watch list of watch.
func (s *Solver) Unwatch(c *Clause, watch Literal) {
	ws := s.watchers[watch]
	j := 0
	for i := 0; i < len(ws); i++ {
		if ws[i].clause != c {
			ws[j] = ws[i]
			j++
		}
	}
	s.watchers[watch] = ws[:j]
}

// decisionLevel returns the current decision level (spec.md §3).
func (s *Solver) decisionLevel() int { return len(s.trailLim) }

// AddClause adds a permanent clause (spec.md §4.5). It must only be called
// at decision level 0. An empty clause makes the solver permanently unsat.
func (s *Solver) AddClause(lits []Literal) error {
	if s.decisionLevel() != 0 {
		return fmt.Errorf("sat: AddClause called at decision level %d, must be 0", s.decisionLevel())
	}

	lits = s.withGuard(lits)
	s.msg.OnAddClause(lits)

	buf := append([]Literal(nil), lits...)
	c, ok := NewClause(s, buf, false)
	if c != nil {
		s.constraints = append(s.constraints, c)
	}
	if !ok {
		s.unsat = true
	}
	return nil
}

// AddClause1 through AddClause6 are convenience wrappers around AddClause
// for small fixed-arity clauses (spec.md §6).
func (s *Solver) AddClause1(a Literal) error         { return s.AddClause([]Literal{a}) }
func (s *Solver) AddClause2(a, b Literal) error      { return s.AddClause([]Literal{a, b}) }
func (s *Solver) AddClause3(a, b, c Literal) error   { return s.AddClause([]Literal{a, b, c}) }
func (s *Solver) AddClause4(a, b, c, d Literal) error {
	return s.AddClause([]Literal{a, b, c, d})
}
func (s *Solver) AddClause5(a, b, c, d, e Literal) error {
	return s.AddClause([]Literal{a, b, c, d, e})
}
func (s *Solver) AddClause6(a, b, c, d, e, f Literal) error {
	return s.AddClause([]Literal{a, b, c, d, e, f})
}

// ConditionalScope implicitly negates and OR-s a fixed set of guard
// literals into every AddClause call made while the scope is active
// (spec.md §6's "conditional-literal mode"). It is used by Tseitin
// encoders to gate an entire sub-formula behind an activation literal
// without threading the guard through every clause by hand.
type ConditionalScope struct {
	s    *Solver
	prev []Literal
}

// Enter pushes guard literals onto the solver's implicit clause scope.
// Every AddClause/AddClause1..6 call made before Exit will have ~g OR-ed
// in for every g in guard, in addition to any guard already active.
func (s *Solver) Enter(guard ...Literal) *ConditionalScope {
	prev := s.condGuard
	s.condGuard = append(append([]Literal(nil), prev...), guard...)
	return &ConditionalScope{s: s, prev: prev}
}

// Exit restores the clause scope to what it was before the matching
// Enter call.
func (cs *ConditionalScope) Exit() {
	cs.s.condGuard = cs.prev
}

func (s *Solver) withGuard(lits []Literal) []Literal {
	if len(s.condGuard) == 0 {
		return lits
	}
	out := make([]Literal, 0, len(lits)+len(s.condGuard))
	out = append(out, lits...)
	for _, g := range s.condGuard {
		out = append(out, g.Opposite())
	}
	return out
}

// Simplify simplifies the clause database according to the root-level
// assignments, removing clauses satisfied at level 0 (spec.md §4.5
// reduce_CNF). It must only be called at decision level 0; assignments still
// pending in the propagation queue are propagated first.
func (s *Solver) Simplify() bool {
	if s.decisionLevel() != 0 {
		panic(fmt.Sprintf("sat: Simplify called at decision level %d, must be 0", s.decisionLevel()))
	}

	if s.unsat || s.Propagate() != nil {
		s.unsat = true
		return false
	}

	s.sweep(&s.learnts)
	s.sweep(&s.constraints)

	unassigned := make([]int, 0, s.NumVariables())
	for v := 0; v < s.NumVariables(); v++ {
		if s.VarValue(v) == Unknown {
			unassigned = append(unassigned, v)
		}
	}
	s.heap.Rebuild(unassigned)

	return true
}

func (s *Solver) sweep(clausesPtr *[]*Clause) {
	clauses := *clausesPtr
	j := 0
	for i := 0; i < len(clauses); i++ {
		if clauses[i].Simplify(s) {
			clauses[i].Delete(s)
		} else {
			clauses[j] = clauses[i]
			j++
		}
	}
	*clausesPtr = clauses[:j]
}

// ReduceDB discards half the learnt clauses (by lowest activity), keeping
// any clause currently locked as a reason, plus any clause in the upper
// half whose activity is still above the absolute threshold
// clauseInc/|learnts| (spec.md §4.5 reduce_learnt).
func (s *Solver) ReduceDB() {
	if len(s.learnts) == 0 {
		return
	}
	lim := s.clauseInc / float64(len(s.learnts))

	sortClausesByActivity(s.learnts)

	j := 0
	n2 := len(s.learnts) / 2
	for i := 0; i < n2; i++ {
		c := s.learnts[i]
		if c.isProtected() || c.locked(s) {
			s.learnts[j] = c
			j++
		} else {
			c.Delete(s)
		}
	}
	for i := n2; i < len(s.learnts); i++ {
		c := s.learnts[i]
		if c.isProtected() || c.locked(s) || c.activity >= lim {
			s.learnts[j] = c
			j++
		} else {
			c.Delete(s)
		}
	}
	s.learnts = s.learnts[:j]
}

// sortClausesByActivity sorts larger-than-binary clauses with lower
// activity first, ahead of any binary clause (spec.md §4.5: "sort learnt
// clauses so that larger-than-2 clauses with lower activity come first").
func sortClausesByActivity(cs []*Clause) {
	less := func(i, j int) bool {
		a, b := cs[i], cs[j]
		if len(a.literals) <= 2 {
			return false
		}
		if len(b.literals) <= 2 {
			return true
		}
		return a.activity < b.activity
	}
	insertionSort(cs, less)
}

// insertionSort keeps the learnt-clause reorder allocation-free; the
// clause lists reduce_learnt touches between restarts are small enough in
// practice that O(n^2) is not a concern, and it avoids pulling in
// sort.Slice's closure overhead on a hot path.
func insertionSort(cs []*Clause, less func(i, j int) bool) {
	for i := 1; i < len(cs); i++ {
		for j := i; j > 0 && less(j, j-1); j-- {
			cs[j], cs[j-1] = cs[j-1], cs[j]
		}
	}
}

func (s *Solver) BumpClaActivity(c *Clause) {
	c.activity += s.clauseInc
	if c.activity > 1e100 {
		s.clauseInc *= 1e-100
		for _, l := range s.learnts {
			l.activity *= 1e-100
		}
	}
}

func (s *Solver) BumpVarActivity(l Literal) {
	s.heap.Bump(l.VarID())
}

func (s *Solver) DecayClaActivity() { s.clauseInc *= s.clauseDecay }
func (s *Solver) DecayVarActivity() { s.heap.Decay() }

// Propagate drains the propagation queue, enforcing the two-watched-literal
// invariant for every clause as literals are assigned (spec.md §4.2). It
// returns the first conflicting clause, or nil if none was found.
func (s *Solver) Propagate() *Clause {
	for s.propQueue.Size() > 0 {
		l := s.propQueue.Pop()
		s.stats.Propagations++

		s.tmpWatchers = s.tmpWatchers[:0]
		s.tmpWatchers = append(s.tmpWatchers, s.watchers[l]...)
		s.watchers[l] = s.watchers[l][:0]

		for i, w := range s.tmpWatchers {
			if s.LitValue(w.guard) == True {
				s.watchers[l] = append(s.watchers[l], w)
				continue
			}

			if w.clause.Propagate(s, l) {
				continue
			}

			// w.clause is conflicting: requeue the remaining watchers and
			// exit the propagation queue cleanly (spec.md §4.2).
			s.watchers[l] = append(s.watchers[l], s.tmpWatchers[i+1:]...)
			s.propQueue.Clear()
			return s.tmpWatchers[i].clause
		}
	}
	return nil
}

// enqueue tries to assign l to True. It fails (returns false) if l is
// already False; if l is already True it is a no-op success; otherwise it
// records the assignment and appends it to the trail.
func (s *Solver) enqueue(l Literal, from *Clause) bool {
	switch s.LitValue(l) {
	case False:
		return false
	case True:
		return true
	default:
		varID := l.VarID()
		s.assigns[l] = True
		s.assigns[l.Opposite()] = False
		s.level[varID] = s.decisionLevel()
		s.reason[varID] = from
		s.trail = append(s.trail, l)
		s.propQueue.Push(l)
		return true
	}
}

// checkAndAssign implements spec.md §4.4's check_and_assign: succeeds as a
// no-op if l is already True, fails if l is already False, otherwise
// assigns it as a decision-free fact.
func (s *Solver) checkAndAssign(l Literal) bool {
	return s.enqueue(l, nil)
}

func (s *Solver) explain(c *Clause, l Literal) []Literal {
	s.tmpReason = s.tmpReason[:0]
	if l == InvalidLiteral {
		s.tmpReason = c.ExplainConflict(s.tmpReason)
	} else {
		s.tmpReason = c.ExplainAssign(s.tmpReason)
	}
	if c.isLearnt() {
		s.BumpClaActivity(c)
	}
	return s.tmpReason
}

// record installs a freshly learnt clause, matching spec.md §4.5's
// add_learnt_clause: size 1 asserts at level 0, size 2 becomes a binary
// watcher plus an immediate assignment, size>=3 allocates a learnt clause
// and assigns its asserting literal with the clause itself as reason.
func (s *Solver) record(clause []Literal) {
	c, _ := NewClause(s, clause, true)
	s.enqueue(clause[0], c)
	if c != nil {
		s.learnts = append(s.learnts, c)
		s.lbdAvg.add(float64(c.LBD()))
	}
}

func (s *Solver) undoOne() {
	l := s.trail[len(s.trail)-1]
	v := l.VarID()

	s.previous[PositiveLiteral(v)] = s.assigns[PositiveLiteral(v)]

	s.heap.Push(v)

	s.assigns[PositiveLiteral(v)] = Unknown
	s.assigns[NegativeLiteral(v)] = Unknown
	s.reason[v] = nil
	s.level[v] = -1
	s.isAssumption[v] = false

	s.trail = s.trail[:len(s.trail)-1]
}

// assume pushes a new decision level and assigns l as the decision
// literal for it.
func (s *Solver) assume(l Literal) bool {
	s.trailLim = append(s.trailLim, len(s.trail))
	return s.enqueue(l, nil)
}

func (s *Solver) cancel() {
	c := len(s.trail) - s.trailLim[len(s.trailLim)-1]
	for ; c != 0; c-- {
		s.undoOne()
	}
	s.trailLim = s.trailLim[:len(s.trailLim)-1]
}

// cancelUntil backtracks to level, restoring every variable assigned above
// it to Unknown (spec.md §4.4 backtrack).
func (s *Solver) cancelUntil(level int) {
	for s.decisionLevel() > level {
		s.cancel()
	}
}

func (s *Solver) saveModel() {
	model := make([]bool, s.NumVariables())
	for i := range model {
		lb := s.VarValue(i)
		if lb == Unknown {
			panic("sat: saveModel called with an incomplete assignment")
		}
		model[i] = lb == True
	}
	s.model = model
}

// ReadModel returns the three-valued assignment of l in the most recently
// found model (spec.md §6). Valid only after Solve returned True.
func (s *Solver) ReadModel(l Literal) LBool {
	v := s.varValueInModel(l.VarID())
	if !l.IsPositive() {
		v = v.Opposite()
	}
	return v
}

func (s *Solver) varValueInModel(v int) LBool {
	if v >= len(s.model) {
		return Unknown
	}
	return Lift(s.model[v])
}
