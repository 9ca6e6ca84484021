// Command cdclsat reads a DIMACS CNF instance and reports its
// satisfiability using the internal/sat CDCL solver.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/hartshard/cdclsat/internal/sat"
	"github.com/hartshard/cdclsat/parsers"
)

var flagCPUProfile = flag.Bool(
	"cpuprof",
	false,
	"save pprof CPU profile in cpuprof",
)

var flagMemProfile = flag.Bool(
	"memprof",
	false,
	"save pprof memory profile in memprof",
)

var flagGzip = flag.Bool(
	"gzip",
	false,
	"treat the instance file as gzip-compressed",
)

var flagConflictBudget = flag.Int64(
	"conflict_budget",
	-1,
	"cap on the total number of conflicts across all restarts (<0 disables)",
)

func parseConfig() (*config, error) {
	flag.Parse()

	if flag.NArg() == 0 || flag.Arg(0) == "" {
		return nil, fmt.Errorf("missing instance file")
	}
	return &config{
		instanceFile:   flag.Arg(0),
		gzipped:        *flagGzip,
		memProfile:     *flagMemProfile,
		cpuProfile:     *flagCPUProfile,
		conflictBudget: *flagConflictBudget,
	}, nil
}

type config struct {
	instanceFile   string
	gzipped        bool
	memProfile     bool
	cpuProfile     bool
	conflictBudget int64
}

func run(cfg *config) error {
	s := sat.NewDefaultSolver()
	if err := parsers.LoadDIMACS(cfg.instanceFile, cfg.gzipped, s); err != nil {
		return fmt.Errorf("could not parse instance: %s", err)
	}
	if cfg.conflictBudget >= 0 {
		s.SetConflictBudget(cfg.conflictBudget)
	}

	fmt.Printf("c variables:  %d\n", s.NumVariables())
	fmt.Printf("c clauses:    %d\n", s.NumConstraints())

	t := time.Now()
	status := s.Solve(nil, 0)
	elapsed := time.Since(t)

	stats := s.Statistics()
	fmt.Printf("c time (sec): %f\n", elapsed.Seconds())
	fmt.Printf("c conflicts:  %d (%.2f /sec)\n", stats.Conflicts, float64(stats.Conflicts)/elapsed.Seconds())
	fmt.Printf("c decisions:  %d\n", stats.Decisions)
	fmt.Printf("c restarts:   %d\n", stats.Restarts)
	fmt.Printf("c status:     %s\n", status.String())

	if status == sat.True {
		if err := s.WriteModel(os.Stdout); err != nil {
			return fmt.Errorf("could not write model: %s", err)
		}
	}

	return nil
}

func main() {
	cfg, err := parseConfig()
	if err != nil {
		log.Fatal(err)
	}

	if cfg.cpuProfile {
		f, err := os.Create("cpuprof")
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	if err := run(cfg); err != nil {
		log.Fatal(err)
	}

	if cfg.memProfile {
		f, err := os.Create("memprof")
		if err != nil {
			log.Fatal(err)
		}
		pprof.WriteHeapProfile(f)
		f.Close()
		return
	}
}
