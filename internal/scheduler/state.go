package scheduler

import (
	"sort"

	"yqhp/workflow-scheduler/pkg/types"
)

// State is the mutable scheduling state of one run: the plan built so
// far, per-VM available times and the readiness bookkeeping. It is
// owned by a single run and never shared; independent runs never
// observe each other.
type State struct {
	workflow *types.Workflow
	plan     *types.Plan

	// vmAvail is the time at which each VM becomes free for its next
	// task. Seeded by entry duplication, bumped on every commit.
	vmAvail map[types.VMID]float64

	// vms is the pool sorted by identifier, for deterministic
	// tie-breaks.
	vms []types.VMID

	committed    map[types.TaskID]bool
	pendingPreds map[types.TaskID]int
	ready        map[types.TaskID]bool
}

// newState creates the empty state for one scheduling run.
func newState(w *types.Workflow) *State {
	s := &State{
		workflow:     w,
		plan:         types.NewPlan(),
		vmAvail:      make(map[types.VMID]float64),
		committed:    make(map[types.TaskID]bool),
		pendingPreds: make(map[types.TaskID]int),
		ready:        make(map[types.TaskID]bool),
	}

	s.vms = append(s.vms, w.VMs()...)
	sort.Slice(s.vms, func(i, j int) bool { return s.vms[i] < s.vms[j] })

	for _, t := range w.Tasks {
		s.pendingPreds[t] = len(w.Predecessors(t))
	}
	return s
}

// Plan returns the plan under construction.
func (s *State) Plan() *types.Plan {
	return s.plan
}

// AvailableTime returns the time a VM becomes free.
func (s *State) AvailableTime(vm types.VMID) float64 {
	return s.vmAvail[vm]
}
