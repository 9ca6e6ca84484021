package sat

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Config is the JSON-decodable configuration object of spec.md §6: the
// solver "type" selects a bundle of Selecter/Controller defaults matching
// one of the original ym-sat variants, and the remaining fields override
// individual heuristics on top of that bundle.
type Config struct {
	Type        string   `json:"type"`
	PhaseCache  *bool    `json:"phase_cache"`
	WlPosi      *bool    `json:"wl_posi"`
	WlNega      *bool    `json:"wl_nega"`
	VarFreq     *float64 `json:"var_freq"`
	VarDecay    *float64 `json:"var_decay"`
	ClauseDecay *float64 `json:"clause_decay"`

	// Log requests the "N/A/S/#" operations log described in spec.md §6.
	Log LogConfig `json:"log"`

	MaxConflict int64 `json:"max_conflict"`
}

// LogConfig names the destination of the operations log (spec.md §6:
// `{file: path | stdout: bool | stderr: bool}`). At most one of File,
// Stdout, Stderr is expected to be set; File takes precedence if more than
// one is, then Stdout, then Stderr.
type LogConfig struct {
	File   *string `json:"file"`
	Stdout bool    `json:"stdout"`
	Stderr bool    `json:"stderr"`
}

// DecodeConfig reads a Config from its JSON representation (spec.md §6).
func DecodeConfig(r io.Reader) (Config, error) {
	var cfg Config
	dec := json.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("sat: could not decode config: %w", err)
	}
	return cfg, nil
}

// typeDefaults returns the Options bundle named by a config's "type" field.
// "glueminisat2" and "lingeling" are accepted for compatibility with
// external recordings of the config format and resolve to the same bundle
// as "ymsat2"/"minisat2": the LBD-driven clause-DB management and
// proof-logging machinery those external solvers are named after is out of
// scope (spec.md §1 non-goals), so the name only selects the restart and
// selection strategy, not an unimplemented feature.
func typeDefaults(t string) (Options, error) {
	switch t {
	case "", "ymsat2", "minisat2", "glueminisat2", "lingeling":
		return DefaultOptions, nil
	case "ymsat1", "minisat":
		ops := DefaultOptions
		ops.ControllerKind = "geometric"
		return ops, nil
	case "ymsat1_old":
		ops := DefaultOptions
		ops.ControllerKind = "geometric"
		ops.SelecterKind = "activity"
		ops.PhaseSaving = false
		return ops, nil
	default:
		return Options{}, fmt.Errorf("sat: unknown config type %q", t)
	}
}

// NewSolverFromConfig builds a Solver from a decoded Config (spec.md §6).
// It never panics: a malformed type name is a boundary error, returned to
// the caller like any other configuration error.
func NewSolverFromConfig(cfg Config) (*Solver, error) {
	ops, err := typeDefaults(cfg.Type)
	if err != nil {
		return nil, err
	}

	if cfg.PhaseCache != nil {
		ops.PhaseSaving = *cfg.PhaseCache
	}
	if cfg.WlNega != nil && *cfg.WlNega {
		ops.SelecterKind = "wl_nega"
		ops.WlNega = true
	}
	if cfg.WlPosi != nil && *cfg.WlPosi {
		ops.SelecterKind = "wl_posi"
		ops.WlPosi = true
	}
	if cfg.VarFreq != nil {
		ops.VarFreq = *cfg.VarFreq
	}
	if cfg.VarDecay != nil {
		ops.VariableDecay = *cfg.VarDecay
	}
	if cfg.ClauseDecay != nil {
		ops.ClauseDecay = *cfg.ClauseDecay
	}

	s := NewSolver(ops)
	if cfg.MaxConflict > 0 {
		s.SetConflictBudget(cfg.MaxConflict)
	}

	w, err := logWriter(cfg.Log)
	if err != nil {
		return nil, err
	}
	if w != nil {
		s.RegMsgHandler(NewOpLogHandler(w))
	}

	return s, nil
}

// logWriter opens the destination named by a LogConfig, or returns a nil
// writer if none of its fields request a log. File takes precedence over
// Stdout, which takes precedence over Stderr.
func logWriter(cfg LogConfig) (io.Writer, error) {
	switch {
	case cfg.File != nil && *cfg.File != "":
		f, err := os.Create(*cfg.File)
		if err != nil {
			return nil, fmt.Errorf("sat: could not open log file %q: %w", *cfg.File, err)
		}
		return f, nil
	case cfg.Stdout:
		return os.Stdout, nil
	case cfg.Stderr:
		return os.Stderr, nil
	default:
		return nil, nil
	}
}
