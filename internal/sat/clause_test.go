package sat

import "testing"

func TestAddClause_TautologyIsDropped(t *testing.T) {
	s := NewDefaultSolver()
	x := s.NewVariable(true)
	if err := s.AddClause([]Literal{x, x.Opposite()}); err != nil {
		t.Fatalf("AddClause(x, ~x): %v", err)
	}
	if got := s.NumConstraints(); got != 0 {
		t.Errorf("NumConstraints() = %d, want 0: a tautology must not become a stored clause", got)
	}
}

func TestAddClause_DuplicateLiteralsCollapse(t *testing.T) {
	s := NewDefaultSolver()
	x := s.NewVariable(true)
	y := s.NewVariable(true)
	if err := s.AddClause([]Literal{x, x, y}); err != nil {
		t.Fatalf("AddClause(x, x, y): %v", err)
	}
	if got := s.NumConstraints(); got != 1 {
		t.Fatalf("NumConstraints() = %d, want 1", got)
	}
	if got := s.constraints[0].Len(); got != 2 {
		t.Errorf("stored clause length = %d, want 2 after deduping the repeated literal", got)
	}
}

func TestAddClause_UnitClauseEnqueuesNoStoredClause(t *testing.T) {
	s := NewDefaultSolver()
	x := s.NewVariable(true)
	if err := s.AddClause1(x); err != nil {
		t.Fatalf("AddClause1(x): %v", err)
	}
	if got := s.NumConstraints(); got != 0 {
		t.Errorf("NumConstraints() = %d, want 0: a unit clause is enqueued, not stored", got)
	}
	if got := s.LitValue(x); got != True {
		t.Errorf("LitValue(x) = %s, want True", got)
	}
}

func TestAddClause_EmptyClauseIsUnsat(t *testing.T) {
	s := NewDefaultSolver()
	if err := s.AddClause(nil); err != nil {
		t.Fatalf("AddClause(nil): %v", err)
	}
	if got := s.Solve(nil, 0); got != False {
		t.Errorf("Solve() = %s, want False: an empty clause is never satisfiable", got)
	}
}

func TestSimplify_RemovesRootSatisfiedClauses(t *testing.T) {
	s := NewDefaultSolver()
	x := s.NewVariable(true)
	y := s.NewVariable(true)
	if err := s.AddClause1(x); err != nil {
		t.Fatalf("AddClause1(x): %v", err)
	}
	if err := s.AddClause2(x, y); err != nil { // satisfied once x is True at level 0
		t.Fatalf("AddClause2(x, y): %v", err)
	}
	if err := s.AddClause2(x.Opposite(), y); err != nil { // simplifies to unit y
		t.Fatalf("AddClause2(~x, y): %v", err)
	}

	if !s.Simplify() {
		t.Fatalf("Simplify() = false, want true")
	}
	if got := s.NumConstraints(); got != 0 {
		t.Errorf("NumConstraints() after Simplify() = %d, want 0", got)
	}
	if got := s.LitValue(y); got != True {
		t.Errorf("LitValue(y) = %s, want True: the binary clause should have forced y", got)
	}
}

func TestClause_String(t *testing.T) {
	s := NewDefaultSolver()
	x := s.NewVariable(true)
	y := s.NewVariable(true)
	if err := s.AddClause2(x, y.Opposite()); err != nil {
		t.Fatalf("AddClause2(x, ~y): %v", err)
	}
	if got, want := s.constraints[0].String(), "Clause[0 !1]"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
