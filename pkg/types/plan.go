package types

import "sort"

// Placement records where one task was put and when it runs.
type Placement struct {
	VM     VMID    `json:"vm"`
	Start  float64 `json:"start"`
	Finish float64 `json:"finish"`
}

// Plan is the assignment produced by the scheduler: one placement per
// task, plus one virtual copy of the entry task per VM created by the
// duplication pre-pass. It is mutated only by the scheduler and the
// load balancer, then frozen for metrics and reporting.
type Plan struct {
	// Placements maps every non-entry task to its committed placement.
	Placements map[TaskID]Placement
	// EntryCopies holds the duplicated entry task instance on each VM.
	EntryCopies map[VMID]Placement
	// Order is the commit order of the Min-Min loop. It is a
	// topological order of the non-entry tasks and is preserved by the
	// load balancer so that times can be replayed deterministically.
	Order []TaskID
}

// NewPlan creates an empty plan.
func NewPlan() *Plan {
	return &Plan{
		Placements:  make(map[TaskID]Placement),
		EntryCopies: make(map[VMID]Placement),
	}
}

// Clone returns a deep copy of the plan. The load balancer clones the
// plan to evaluate a candidate move as a transaction before deciding
// whether to commit it.
func (p *Plan) Clone() *Plan {
	cp := &Plan{
		Placements:  make(map[TaskID]Placement, len(p.Placements)),
		EntryCopies: make(map[VMID]Placement, len(p.EntryCopies)),
		Order:       make([]TaskID, len(p.Order)),
	}
	for t, pl := range p.Placements {
		cp.Placements[t] = pl
	}
	for vm, pl := range p.EntryCopies {
		cp.EntryCopies[vm] = pl
	}
	copy(cp.Order, p.Order)
	return cp
}

// Committed reports whether a task has a committed placement. The
// entry task counts as committed everywhere once duplicated.
func (p *Plan) Committed(t TaskID, entry TaskID) bool {
	if t == entry {
		return len(p.EntryCopies) > 0
	}
	_, ok := p.Placements[t]
	return ok
}

// FinishOn returns the finish time of a predecessor as observed from a
// candidate VM. For the duplicated entry task that is the local copy's
// finish, so reaching the workflow root never costs communication.
func (p *Plan) FinishOn(t TaskID, entry TaskID, vm VMID) (finish float64, onVM VMID) {
	if t == entry {
		pl := p.EntryCopies[vm]
		return pl.Finish, vm
	}
	pl := p.Placements[t]
	return pl.Finish, pl.VM
}

// TasksOn returns the non-entry tasks placed on a VM, sorted by start
// time (ties by task ID) for stable iteration.
func (p *Plan) TasksOn(vm VMID) []TaskID {
	var tasks []TaskID
	for t, pl := range p.Placements {
		if pl.VM == vm {
			tasks = append(tasks, t)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		a, b := p.Placements[tasks[i]], p.Placements[tasks[j]]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return tasks[i] < tasks[j]
	})
	return tasks
}

// LoadOn returns the total execution duration committed to a VM:
// the duplicated entry copy plus every task placed there.
func (p *Plan) LoadOn(vm VMID, w *Workflow) float64 {
	load := w.ECT[w.EntryTask][vm]
	for t, pl := range p.Placements {
		if pl.VM == vm {
			load += w.ECT[t][vm]
		}
	}
	return load
}

// Loads returns the per-VM loads in pool order.
func (p *Plan) Loads(w *Workflow) map[VMID]float64 {
	loads := make(map[VMID]float64, len(w.VMs()))
	for _, vm := range w.VMs() {
		loads[vm] = p.LoadOn(vm, w)
	}
	return loads
}

// Makespan returns the finish time of the exit task.
func (p *Plan) Makespan(w *Workflow) float64 {
	if w.ExitTask == w.EntryTask {
		// Single-task workflow: the makespan is the cheapest copy.
		best := 0.0
		first := true
		for _, pl := range p.EntryCopies {
			if first || pl.Finish < best {
				best = pl.Finish
				first = false
			}
		}
		return best
	}
	return p.Placements[w.ExitTask].Finish
}
