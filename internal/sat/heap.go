package sat

import (
	"github.com/rhartert/yagh"
)

// VarHeap maintains variable-activity scores and a max-heap over the
// decision-eligible variables that are currently unassigned. It backs
// every Selecter policy (§4.7): the heap itself knows nothing about
// polarity, only about which variable is currently the most active.
type VarHeap struct {
	// Binary heap over variable IDs keyed on -activity so that the
	// minimum of the heap is the variable with the highest activity.
	// yagh.IntMap supports arbitrary re-insertion and O(log n) updates,
	// which is what spec.md §4.6 requires of "bump" and "push".
	order *yagh.IntMap[float64]

	activities []float64 // in [0, 1e100)
	bump       float64   // in (0, 1e100)
	decay      float64   // in (0, 1]

	// decisionEligible[v] is false for variables created with
	// decision=false (spec.md §3's "decision-eligibility flag"); such
	// variables are never inserted into the heap.
	decisionEligible []bool

	// numInHeap tracks how many variables currently sit in order so that
	// Empty/Rebuild do not depend on an IntMap size accessor.
	numInHeap int
}

// NewVarHeap returns an empty VarHeap that decays activities by 1/decay
// every Decay call.
func NewVarHeap(decay float64) *VarHeap {
	return &VarHeap{
		order: yagh.New[float64](0),
		bump:  1,
		decay: decay,
	}
}

// AddVar registers a new variable with zero activity.
func (h *VarHeap) AddVar(decisionEligible bool) {
	v := len(h.activities)
	h.activities = append(h.activities, 0)
	h.decisionEligible = append(h.decisionEligible, decisionEligible)
	h.order.GrowBy(1)
	if decisionEligible {
		h.order.Put(v, 0)
		h.numInHeap++
	}
}

// Activity returns the current activity of variable v.
func (h *VarHeap) Activity(v int) float64 {
	return h.activities[v]
}

// Empty returns true if no decision-eligible variable is currently in the
// heap.
func (h *VarHeap) Empty() bool {
	return h.numInHeap == 0
}

// PopTop removes and returns the variable with the highest activity
// currently in the heap. The caller must check Empty first.
func (h *VarHeap) PopTop() int {
	item, _ := h.order.Pop()
	h.numInHeap--
	return item.Elem
}

// InHeap returns true if v is currently present in the heap.
func (h *VarHeap) InHeap(v int) bool {
	return h.order.Contains(v)
}

// Push re-inserts variable v into the heap if it is decision-eligible and
// not already present (spec.md §4.6 "push (no-op if present)").
func (h *VarHeap) Push(v int) {
	if !h.decisionEligible[v] {
		return
	}
	if h.order.Contains(v) {
		return
	}
	h.order.Put(v, -h.activities[v])
	h.numInHeap++
}

// Bump increases the activity of v by the current bump increment,
// re-heapifying if v is currently in the heap. Activities (and the bump
// increment) are rescaled by 1e-100 if they would otherwise overflow,
// preserving relative ordering (spec.md §4.6).
func (h *VarHeap) Bump(v int) {
	h.activities[v] += h.bump
	if h.order.Contains(v) {
		h.order.Put(v, -h.activities[v])
	}
	if h.activities[v] > 1e100 {
		h.rescale()
	}
}

// Decay shrinks the effective weight of past bumps relative to future ones
// by growing the bump increment.
func (h *VarHeap) Decay() {
	h.bump /= h.decay
	if h.bump > 1e100 {
		h.rescale()
	}
}

func (h *VarHeap) rescale() {
	h.bump *= 1e-100
	for v, a := range h.activities {
		na := a * 1e-100
		h.activities[v] = na
		if h.order.Contains(v) {
			h.order.Put(v, -na)
		}
	}
}

// Rebuild empties the heap and reinserts exactly the given decision-eligible
// variables. Used by reduce_CNF (spec.md §4.5) to restrict the heap to
// currently-unassigned variables after a root-level simplification sweep.
func (h *VarHeap) Rebuild(vars []int) {
	for h.numInHeap > 0 {
		h.order.Pop()
		h.numInHeap--
	}
	for _, v := range vars {
		if h.decisionEligible[v] {
			h.order.Put(v, -h.activities[v])
			h.numInHeap++
		}
	}
}
