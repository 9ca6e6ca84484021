package sat

import (
	"bufio"
	"fmt"
	"io"
)

// WriteDIMACS writes the solver's current clause database (constraints
// plus learnt clauses) in DIMACS CNF format (spec.md §6's write_DIMACS),
// grounded on original_source/c++-src/SatSolver.cc's writer, which the
// distillation into spec.md dropped.
func (s *Solver) WriteDIMACS(w io.Writer) error {
	bw := bufio.NewWriter(w)

	total := len(s.constraints) + len(s.learnts)
	if _, err := fmt.Fprintf(bw, "p cnf %d %d\n", s.NumVariables(), total); err != nil {
		return fmt.Errorf("sat: writing DIMACS header: %w", err)
	}

	for _, c := range s.constraints {
		if err := writeDIMACSClause(bw, c); err != nil {
			return err
		}
	}
	for _, c := range s.learnts {
		if err := writeDIMACSClause(bw, c); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func writeDIMACSClause(w *bufio.Writer, c *Clause) error {
	for _, l := range c.Literals() {
		n := l.VarID() + 1
		if !l.IsPositive() {
			n = -n
		}
		if _, err := fmt.Fprintf(w, "%d ", n); err != nil {
			return fmt.Errorf("sat: writing DIMACS clause: %w", err)
		}
	}
	_, err := w.WriteString("0\n")
	if err != nil {
		return fmt.Errorf("sat: writing DIMACS clause: %w", err)
	}
	return nil
}

// WriteModel writes the most recently found model in DIMACS model format
// (a single line holding one signed literal per variable, terminated by 0,
// matching parsers.ReadModels's expected input), valid only after Solve
// returned True.
func (s *Solver) WriteModel(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for v := 0; v < s.NumVariables(); v++ {
		n := v + 1
		if s.varValueInModel(v) != True {
			n = -n
		}
		if _, err := fmt.Fprintf(bw, "%d ", n); err != nil {
			return fmt.Errorf("sat: writing model: %w", err)
		}
	}
	if _, err := bw.WriteString("0\n"); err != nil {
		return fmt.Errorf("sat: writing model: %w", err)
	}
	return bw.Flush()
}
