package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hartshard/cdclsat/encoding"
	"github.com/hartshard/cdclsat/internal/sat"
	"github.com/hartshard/cdclsat/parsers"
)

// This test suite exercises the CDCL core end to end through its public
// API, covering the concrete scenarios used to validate the solver:
// trivial unsat, a small satisfiable instance enumerated to all of its
// models, a pigeonhole instance both solved to completion and solved under
// a tight conflict budget, assumption-driven unsat with core extraction,
// and an XOR-gate round trip through the encoding helpers.

// model reads the current model into a []bool indexed by variable id.
// Valid only right after Solve returned sat.True.
func model(s *sat.Solver) []bool {
	m := make([]bool, s.NumVariables())
	for i := range m {
		m[i] = s.ReadModel(sat.PositiveLiteral(i)) == sat.True
	}
	return m
}

// solveAll returns every model of the clause database currently loaded in
// s, by repeatedly solving and then adding a clause that forbids the model
// just found.
func solveAll(s *sat.Solver) [][]bool {
	var models [][]bool
	for s.Solve(nil, 0) == sat.True {
		m := model(s)
		models = append(models, m)

		blocking := make([]sat.Literal, len(m))
		for i, b := range m {
			if b { // the blocking clause negates the model just found
				blocking[i] = sat.NegativeLiteral(i)
			} else {
				blocking[i] = sat.PositiveLiteral(i)
			}
		}
		if err := s.AddClause(blocking); err != nil {
			break
		}
	}
	return models
}

func toString(m []bool) string {
	b := make([]byte, len(m))
	for i, v := range m {
		if v {
			b[i] = '1'
		} else {
			b[i] = '0'
		}
	}
	return string(b)
}

func toSet(ms [][]bool) map[string]struct{} {
	set := map[string]struct{}{}
	for _, m := range ms {
		set[toString(m)] = struct{}{}
	}
	return set
}

// TestSolve_TrivialUnsat covers scenario 1 of spec.md §8: (x) and (~x) is
// unsatisfiable.
func TestSolve_TrivialUnsat(t *testing.T) {
	s := sat.NewDefaultSolver()
	x := s.NewVariable(true)

	if err := s.AddClause1(x); err != nil {
		t.Fatalf("AddClause1(x): %v", err)
	}
	if err := s.AddClause1(x.Opposite()); err != nil {
		t.Fatalf("AddClause1(~x): %v", err)
	}

	if got := s.Solve(nil, 0); got != sat.False {
		t.Errorf("Solve() = %s, want False", got)
	}
}

// TestSolveAll_SimpleSat covers scenario 2 of spec.md §8: variables a, b, c
// with clauses (a v b), (~a v c), (b v ~c) are satisfiable, and every model
// returned must satisfy all three clauses. There are exactly three models:
// (F,T,F), (F,T,T) and (T,T,T).
func TestSolveAll_SimpleSat(t *testing.T) {
	s := sat.NewDefaultSolver()
	a := s.NewVariable(true)
	b := s.NewVariable(true)
	c := s.NewVariable(true)

	if err := s.AddClause2(a, b); err != nil {
		t.Fatalf("AddClause2(a, b): %v", err)
	}
	if err := s.AddClause2(a.Opposite(), c); err != nil {
		t.Fatalf("AddClause2(~a, c): %v", err)
	}
	if err := s.AddClause2(b, c.Opposite()); err != nil {
		t.Fatalf("AddClause2(b, ~c): %v", err)
	}

	got := solveAll(s)
	want := [][]bool{
		{false, true, false},
		{false, true, true},
		{true, true, true},
	}

	if !cmp.Equal(toSet(got), toSet(want)) {
		t.Errorf("solveAll() = %v, want %v", got, want)
	}
}

// pigeonhole adds the standard PHP(holes, pigeons) encoding to s: every
// pigeon is assigned at least one hole, and no hole holds two pigeons. It
// returns the pigeon x hole literal matrix.
func pigeonhole(s *sat.Solver, holes, pigeons int) [][]sat.Literal {
	vars := make([][]sat.Literal, pigeons)
	for p := range vars {
		vars[p] = make([]sat.Literal, holes)
		for h := range vars[p] {
			vars[p][h] = s.NewVariable(true)
		}
	}

	for p := 0; p < pigeons; p++ {
		s.AddClause(append([]sat.Literal(nil), vars[p]...))
	}
	for h := 0; h < holes; h++ {
		for p1 := 0; p1 < pigeons; p1++ {
			for p2 := p1 + 1; p2 < pigeons; p2++ {
				s.AddClause2(vars[p1][h].Opposite(), vars[p2][h].Opposite())
			}
		}
	}
	return vars
}

// TestSolve_PigeonholeUnsat covers scenario 3 of spec.md §8: PHP(3,4) (4
// pigeons, 3 holes) is unsatisfiable.
func TestSolve_PigeonholeUnsat(t *testing.T) {
	s := sat.NewDefaultSolver()
	pigeonhole(s, 3, 4)

	if got := s.Solve(nil, 0); got != sat.False {
		t.Errorf("Solve() = %s, want False", got)
	}
}

// TestSolve_AssumptionUnsat covers scenario 4 of spec.md §8: clauses (x)
// and (y); solving under assumption ~x is unsatisfiable with core {~x}.
func TestSolve_AssumptionUnsat(t *testing.T) {
	s := sat.NewDefaultSolver()
	x := s.NewVariable(true)
	y := s.NewVariable(true)

	if err := s.AddClause1(x); err != nil {
		t.Fatalf("AddClause1(x): %v", err)
	}
	if err := s.AddClause1(y); err != nil {
		t.Fatalf("AddClause1(y): %v", err)
	}

	got := s.Solve([]sat.Literal{x.Opposite()}, 0)
	if got != sat.False {
		t.Fatalf("Solve([~x]) = %s, want False", got)
	}

	core := s.ConflictLiterals()
	want := []sat.Literal{x.Opposite()}
	if diff := cmp.Diff(want, core); diff != "" {
		t.Errorf("ConflictLiterals() mismatch (-want +got):\n%s", diff)
	}
}

// TestSolve_BudgetExhaustion covers scenario 5 of spec.md §8: a hard
// pigeonhole instance (21 pigeons, 20 holes) solved under a tight conflict
// budget returns Unknown without exceeding the budget.
func TestSolve_BudgetExhaustion(t *testing.T) {
	s := sat.NewDefaultSolver()
	pigeonhole(s, 20, 21)
	s.SetConflictBudget(1000)

	got := s.Solve(nil, 0)
	if got != sat.Unknown {
		t.Fatalf("Solve() = %s, want Unknown", got)
	}

	stats := s.Statistics()
	if stats.Conflicts > 1000 {
		t.Errorf("Statistics().Conflicts = %d, want <= 1000", stats.Conflicts)
	}
}

// TestSolve_XORChainRoundTrip covers scenario 6 of spec.md §8: an XOR gate
// o = a^b^c^d is asserted via Tseitin encoding; enumerating all 16 input
// patterns via assumptions, o is forced True in exactly the 8 patterns
// with odd parity.
func TestSolve_XORChainRoundTrip(t *testing.T) {
	s := sat.NewDefaultSolver()
	enc := encoding.NewEncoder(s)

	a := s.NewVariable(true)
	b := s.NewVariable(true)
	c := s.NewVariable(true)
	d := s.NewVariable(true)
	o, err := enc.XorGate(a, b, c, d)
	if err != nil {
		t.Fatalf("XorGate: %v", err)
	}
	inputs := []sat.Literal{a, b, c, d}

	for pattern := 0; pattern < 16; pattern++ {
		assumptions := make([]sat.Literal, 4)
		parity := 0
		for i, lit := range inputs {
			if pattern&(1<<i) != 0 {
				assumptions[i] = lit
				parity++
			} else {
				assumptions[i] = lit.Opposite()
			}
		}

		got := s.Solve(assumptions, 0)
		if got != sat.True {
			t.Fatalf("Solve(pattern=%04b) = %s, want True", pattern, got)
		}

		wantOdd := parity%2 == 1
		gotOdd := s.ReadModel(o) == sat.True
		if gotOdd != wantOdd {
			t.Errorf("pattern=%04b: o = %v, want parity-odd = %v", pattern, gotOdd, wantOdd)
		}
	}
}

// TestWriteDIMACS_RoundTrip covers the DIMACS round-trip testable property
// of spec.md §8: exporting a solver's clause database with WriteDIMACS and
// re-parsing it through the library-backed parsers.LoadDIMACS (the same
// reader the CLI uses) yields the same satisfiability answer.
func TestWriteDIMACS_RoundTrip(t *testing.T) {
	s := sat.NewDefaultSolver()
	pigeonhole(s, 3, 4) // PHP(3,4) is unsatisfiable.
	want := s.Solve(nil, 0)

	var buf bytes.Buffer
	if err := s.WriteDIMACS(&buf); err != nil {
		t.Fatalf("WriteDIMACS: %v", err)
	}

	path := filepath.Join(t.TempDir(), "roundtrip.cnf")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("writing DIMACS file: %v", err)
	}

	s2 := sat.NewDefaultSolver()
	if err := parsers.LoadDIMACS(path, false, s2); err != nil {
		t.Fatalf("parsers.LoadDIMACS: %v", err)
	}

	got := s2.Solve(nil, 0)
	if got != want {
		t.Errorf("Solve() after round trip = %s, want %s", got, want)
	}
}
