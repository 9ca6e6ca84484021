package sat

import "math"

// Controller schedules restarts and learned-clause-DB limit growth
// (spec.md §4.8). Init is called once at the start of Solve; OnConflict
// is called after every conflict (before the loop checks whether the
// restart limit was reached); OnRestart is called when a restart begins,
// with the 0-based restart count.
type Controller interface {
	Init(numConstraints int)
	ConflictLimit() int
	LearntLimit() int
	OnConflict()
	OnRestart(restartNum int64)
}

// newController builds the Controller named by kind, defaulting to the
// Luby/MiniSat2 strategy (spec.md §4.8).
func newController(kind string) Controller {
	if kind == "geometric" {
		return &geometricController{}
	}
	return &lubyController{}
}

// lubyController implements the MiniSat2/ymsat2 restart schedule: the
// conflict limit is 100*luby(2.0, restart#); the learnt-clause limit
// starts at |constraints|/3 and is multiplied by 1.1 every adjustment
// interval, where the interval itself starts at 100 conflicts and grows by
// x1.5 each time it elapses. Grounded on
// original_source/c++-src/ymsat_old/YmSatMS2.cc's luby()/
// init_control_parameters()/update_on_restart()/update_on_conflict().
type lubyController struct {
	conflictLimit int
	learntLimitD  float64
	learntLimit   int

	adjustConfl float64
	adjustInc   float64
	adjustCount int
}

func (c *lubyController) Init(numConstraints int) {
	c.conflictLimit = int(luby(2.0, 0)) * 100

	c.learntLimitD = float64(numConstraints) / 3.0
	c.adjustConfl = 100.0
	c.adjustInc = 1.5
	c.adjustCount = int(c.adjustConfl)
	c.learntLimit = int(c.learntLimitD)
}

func (c *lubyController) ConflictLimit() int { return c.conflictLimit }
func (c *lubyController) LearntLimit() int   { return c.learntLimit }

func (c *lubyController) OnConflict() {
	c.adjustCount--
	if c.adjustCount == 0 {
		c.adjustConfl *= c.adjustInc
		c.adjustCount = int(c.adjustConfl)
		c.learntLimitD *= 1.1
		c.learntLimit = int(c.learntLimitD)
	}
}

func (c *lubyController) OnRestart(restartNum int64) {
	c.conflictLimit = int(luby(2.0, int(restartNum))) * 100
}

// luby returns the Luby restart sequence value for index x with geometric
// factor y, following the same "not self-evidently why it works" formula
// as the original C++ source.
func luby(y float64, x int) float64 {
	size, seq := 1, 0
	for size < x+1 {
		seq++
		size = size*2 + 1
	}
	for size-1 != x {
		size = (size - 1) >> 1
		seq--
		x = x % size
	}
	return math.Pow(y, float64(seq))
}

// geometricController implements the MiniSat1/ymsat1 restart schedule: the
// conflict limit grows x1.5 every restart and the learnt-clause limit
// grows x1.1 every restart (spec.md §4.8).
type geometricController struct {
	conflictLimitD float64
	conflictLimit  int
	learntLimitD   float64
	learntLimit    int
}

func (c *geometricController) Init(numConstraints int) {
	c.conflictLimitD = 100
	c.conflictLimit = int(c.conflictLimitD)
	c.learntLimitD = float64(numConstraints) / 3.0
	c.learntLimit = int(c.learntLimitD)
}

func (c *geometricController) ConflictLimit() int { return c.conflictLimit }
func (c *geometricController) LearntLimit() int   { return c.learntLimit }

func (c *geometricController) OnConflict() {}

func (c *geometricController) OnRestart(restartNum int64) {
	c.conflictLimitD *= 1.5
	c.conflictLimit = int(c.conflictLimitD)
	c.learntLimitD *= 1.1
	c.learntLimit = int(c.learntLimitD)
}
