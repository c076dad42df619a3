// Package scheduler implements the Modified Min-Min heuristic: entry
// task duplication, readiness tracking, completion-time estimation and
// the iterative minimum-finish-time selection loop.
package scheduler

import (
	"go.uber.org/zap"

	"yqhp/workflow-scheduler/internal/config"
	"yqhp/workflow-scheduler/pkg/logger"
	"yqhp/workflow-scheduler/pkg/types"
)

// MinMinScheduler computes a static assignment of workflow tasks onto
// the VM pool by repeatedly committing the (task, VM) pair with the
// globally smallest completion time.
type MinMinScheduler struct {
	tieBreak string
}

// NewMinMinScheduler creates a scheduler with the given tie-break
// policy (config.TieBreakMinOfMins or config.TieBreakTaskID).
func NewMinMinScheduler(tieBreak string) *MinMinScheduler {
	if tieBreak == "" {
		tieBreak = config.TieBreakMinOfMins
	}
	return &MinMinScheduler{tieBreak: tieBreak}
}

// Schedule runs the full forward pass over a validated workflow and
// returns the committed plan. The workflow is re-validated first:
// malformed graphs are rejected here rather than allowed to hang the
// loop. Schedule is a pure function of its input; re-running it on an
// unchanged workflow produces an identical plan.
func (m *MinMinScheduler) Schedule(w *types.Workflow) (*types.Plan, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	state := newState(w)
	m.duplicateEntry(state)

	// Every non-entry task gets committed exactly once.
	remaining := len(w.Tasks) - 1
	for remaining > 0 {
		ready := state.readyTasks()
		if len(ready) == 0 {
			for _, t := range w.Tasks {
				if !state.committed[t] {
					return nil, &UnscheduledTaskError{Task: string(t)}
				}
			}
		}

		task, vm, start, finish := m.selectPair(state, ready)

		state.plan.Placements[task] = types.Placement{VM: vm, Start: start, Finish: finish}
		state.plan.Order = append(state.plan.Order, task)
		state.vmAvail[vm] = finish
		state.markCommitted(task)
		remaining--

		logger.Debug("committed task",
			zap.String("task", string(task)),
			zap.String("vm", string(vm)),
			zap.Float64("start", start),
			zap.Float64("finish", finish))
	}

	return state.plan, nil
}

// duplicateEntry seeds every VM with a zero-communication virtual copy
// of the entry task. VM available times start at the entry's per-VM
// execution duration and the entry is complete everywhere, so no
// successor ever pays communication to reach the workflow's origin.
func (m *MinMinScheduler) duplicateEntry(s *State) {
	w := s.workflow
	for _, vm := range s.vms {
		finish := w.ECT[w.EntryTask][vm]
		s.plan.EntryCopies[vm] = types.Placement{VM: vm, Start: 0, Finish: finish}
		s.vmAvail[vm] = finish
	}
	s.markCommitted(w.EntryTask)
}

// selectPair picks the next (task, VM) commitment from the ready set.
//
// min-of-mins: every ready task is paired with its best VM (lowest
// finish, ties to the lowest VM ID) and the task whose best finish is
// globally smallest wins, ties to the lowest task ID. task-id: the
// lowest-identifier ready task is scheduled each round onto its best
// VM.
func (m *MinMinScheduler) selectPair(s *State, ready []types.TaskID) (task types.TaskID, vm types.VMID, start, finish float64) {
	if m.tieBreak == config.TieBreakTaskID {
		task = ready[0] // ready is sorted by ID
		vm, start, finish = s.bestVM(task)
		return task, vm, start, finish
	}

	first := true
	for _, candidate := range ready {
		cvm, cstart, cfinish := s.bestVM(candidate)
		if first || cfinish < finish {
			task, vm, start, finish = candidate, cvm, cstart, cfinish
			first = false
		}
	}
	return task, vm, start, finish
}

// Replay recomputes all start and finish times for a fixed
// task-to-VM assignment, processing tasks in the given commit order.
// The load balancer uses it to evaluate a candidate move as a
// transaction: amend the assignment, replay, inspect the resulting
// makespan before deciding to commit.
func Replay(w *types.Workflow, order []types.TaskID, vmOf map[types.TaskID]types.VMID) *types.Plan {
	state := newState(w)

	for _, vm := range state.vms {
		finish := w.ECT[w.EntryTask][vm]
		state.plan.EntryCopies[vm] = types.Placement{VM: vm, Start: 0, Finish: finish}
		state.vmAvail[vm] = finish
	}
	state.markCommitted(w.EntryTask)

	for _, task := range order {
		vm := vmOf[task]
		start, finish := state.estimate(task, vm)
		state.plan.Placements[task] = types.Placement{VM: vm, Start: start, Finish: finish}
		state.plan.Order = append(state.plan.Order, task)
		state.vmAvail[vm] = finish
		state.markCommitted(task)
	}

	return state.plan
}
