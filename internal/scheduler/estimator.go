package scheduler

import "yqhp/workflow-scheduler/pkg/types"

// estimate computes the earliest start and finish of a ready task on a
// candidate VM:
//
//	start  = max(vm available time, latest predecessor arrival)
//	finish = start + ECT(task, vm)
//
// A predecessor's output arrives at its own finish time when both VMs
// share a cloud server, and finish + communication cost otherwise. The
// duplicated entry task has a copy on every VM, so its arrival is
// always the local copy's finish with no communication. The estimator
// has no side effects and no state beyond the plan and VM times.
func (s *State) estimate(t types.TaskID, vm types.VMID) (start, finish float64) {
	w := s.workflow

	start = s.vmAvail[vm]
	for _, pred := range w.Predecessors(t) {
		predFinish, predVM := s.plan.FinishOn(pred, w.EntryTask, vm)
		arrival := predFinish + w.CommCost(pred, t, predVM, vm)
		if arrival > start {
			start = arrival
		}
	}
	return start, start + w.ECT[t][vm]
}

// bestVM returns the VM giving the minimum finish time for a ready
// task, breaking ties by the lowest VM identifier.
func (s *State) bestVM(t types.TaskID) (vm types.VMID, start, finish float64) {
	first := true
	for _, candidate := range s.vms {
		cs, cf := s.estimate(t, candidate)
		if first || cf < finish {
			vm, start, finish = candidate, cs, cf
			first = false
		}
	}
	return vm, start, finish
}
