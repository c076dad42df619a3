package scheduler

import (
	"sort"

	"yqhp/workflow-scheduler/pkg/types"
)

// markCommitted records a task as committed and promotes successors
// whose predecessors are now all committed into the ready set. A task
// becomes ready exactly once and leaves the set only when committed.
func (s *State) markCommitted(t types.TaskID) {
	s.committed[t] = true
	delete(s.ready, t)

	for _, succ := range s.workflow.Successors[t] {
		s.pendingPreds[succ]--
		if s.pendingPreds[succ] == 0 {
			s.ready[succ] = true
		}
	}
}

// readyTasks returns the current ready set sorted by task identifier.
func (s *State) readyTasks() []types.TaskID {
	tasks := make([]types.TaskID, 0, len(s.ready))
	for t := range s.ready {
		tasks = append(tasks, t)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i] < tasks[j] })
	return tasks
}
