package types

import "fmt"

// Validate checks the workflow for structural and configuration errors
// and derives the successor map. It must be called once after loading,
// before any scheduling starts; every failure is fatal for the run.
//
// Checks performed:
//   - non-empty task list and VM pool; unique task, VM and server IDs
//   - designated entry and exit tasks exist; entry has no predecessors
//   - no dangling task references in dependencies or communication times
//   - communication times only on declared edges, non-negative
//   - ECT table covers every (task, VM) pair with non-negative durations
//   - the dependency graph is acyclic
//   - every task is reachable from the entry and reaches the exit
func (w *Workflow) Validate() error {
	if len(w.Tasks) == 0 {
		return NewValidationError("tasks", "workflow has no tasks")
	}
	if len(w.Servers) == 0 {
		return NewValidationError("cloud_servers", "VM pool is empty")
	}

	known := make(map[TaskID]bool, len(w.Tasks))
	for _, t := range w.Tasks {
		if t == "" {
			return NewValidationError("tasks", "empty task identifier")
		}
		if known[t] {
			return NewValidationError("tasks", fmt.Sprintf("duplicate task '%s'", t))
		}
		known[t] = true
	}

	seenVM := make(map[VMID]bool)
	seenServer := make(map[string]bool, len(w.Servers))
	for _, srv := range w.Servers {
		if srv.ID == "" {
			return NewValidationError("cloud_servers", "cloud server without ID")
		}
		if seenServer[srv.ID] {
			return NewValidationError("cloud_servers", fmt.Sprintf("duplicate cloud server '%s'", srv.ID))
		}
		seenServer[srv.ID] = true
		for _, vm := range srv.VMs {
			if seenVM[vm] {
				return NewValidationError("cloud_servers", fmt.Sprintf("duplicate VM '%s'", vm))
			}
			seenVM[vm] = true
		}
	}
	if len(seenVM) == 0 {
		return NewValidationError("cloud_servers", "VM pool is empty")
	}

	if w.EntryTask == "" {
		return NewValidationError("entry_task", "entry task is required")
	}
	if !known[w.EntryTask] {
		return NewValidationError("entry_task", fmt.Sprintf("unknown task '%s'", w.EntryTask))
	}
	if w.ExitTask == "" {
		return NewValidationError("exit_task", "exit task is required")
	}
	if !known[w.ExitTask] {
		return NewValidationError("exit_task", fmt.Sprintf("unknown task '%s'", w.ExitTask))
	}
	if len(w.Dependencies[w.EntryTask]) > 0 {
		return NewValidationError("dependencies", fmt.Sprintf("entry task '%s' must not have predecessors", w.EntryTask))
	}

	edges := make(map[Edge]bool)
	for task, preds := range w.Dependencies {
		if !known[task] {
			return NewValidationError("dependencies", fmt.Sprintf("unknown task '%s'", task))
		}
		for _, pred := range preds {
			if !known[pred] {
				return NewValidationError("dependencies", fmt.Sprintf("task '%s' depends on unknown task '%s'", task, pred))
			}
			if pred == task {
				return NewValidationError("dependencies", fmt.Sprintf("task '%s' depends on itself", task))
			}
			e := Edge{From: pred, To: task}
			if edges[e] {
				return NewValidationError("dependencies", fmt.Sprintf("duplicate edge %s->%s", pred, task))
			}
			edges[e] = true
		}
	}

	for edge, cost := range w.CommTimes {
		if !edges[edge] {
			return NewValidationError("communication_times", fmt.Sprintf("edge %s->%s is not in the dependency graph", edge.From, edge.To))
		}
		if cost < 0 {
			return NewValidationError("communication_times", fmt.Sprintf("negative communication time on edge %s->%s", edge.From, edge.To))
		}
	}

	for _, t := range w.Tasks {
		row, ok := w.ECT[t]
		if !ok {
			return NewValidationError("ect_table", fmt.Sprintf("no ECT entries for task '%s'", t))
		}
		for vm := range seenVM {
			ect, ok := row[vm]
			if !ok {
				return NewValidationError("ect_table", fmt.Sprintf("missing ECT entry for task '%s' on VM '%s'", t, vm))
			}
			if ect < 0 {
				return NewValidationError("ect_table", fmt.Sprintf("negative ECT for task '%s' on VM '%s'", t, vm))
			}
		}
	}

	w.deriveSuccessors()

	if err := w.checkAcyclic(); err != nil {
		return err
	}
	return w.checkConnectivity()
}

// deriveSuccessors rebuilds the successor adjacency from Dependencies.
func (w *Workflow) deriveSuccessors() {
	w.Successors = make(map[TaskID][]TaskID, len(w.Tasks))
	for _, t := range w.Tasks {
		for _, pred := range w.Dependencies[t] {
			w.Successors[pred] = append(w.Successors[pred], t)
		}
	}
}

// checkAcyclic runs Kahn's algorithm over the dependency graph. Any
// task left with a positive in-degree sits on a cycle.
func (w *Workflow) checkAcyclic() error {
	indegree := make(map[TaskID]int, len(w.Tasks))
	for _, t := range w.Tasks {
		indegree[t] = len(w.Dependencies[t])
	}

	queue := make([]TaskID, 0, len(w.Tasks))
	for _, t := range w.Tasks {
		if indegree[t] == 0 {
			queue = append(queue, t)
		}
	}

	visited := 0
	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]
		visited++
		for _, succ := range w.Successors[t] {
			indegree[succ]--
			if indegree[succ] == 0 {
				queue = append(queue, succ)
			}
		}
	}

	if visited != len(w.Tasks) {
		for _, t := range w.Tasks {
			if indegree[t] > 0 {
				return NewValidationError("dependencies", fmt.Sprintf("dependency cycle involving task '%s'", t))
			}
		}
	}
	return nil
}

// checkConnectivity verifies that the entry reaches every task and
// every task reaches the exit.
func (w *Workflow) checkConnectivity() error {
	fromEntry := w.reach(w.EntryTask, w.Successors)
	for _, t := range w.Tasks {
		if !fromEntry[t] {
			return NewValidationError("dependencies", fmt.Sprintf("task '%s' is not reachable from entry task '%s'", t, w.EntryTask))
		}
	}

	toExit := w.reach(w.ExitTask, w.Dependencies)
	for _, t := range w.Tasks {
		if !toExit[t] {
			return NewValidationError("dependencies", fmt.Sprintf("task '%s' cannot reach exit task '%s'", t, w.ExitTask))
		}
	}
	return nil
}

// reach returns the set of tasks reachable from start via adj.
func (w *Workflow) reach(start TaskID, adj map[TaskID][]TaskID) map[TaskID]bool {
	seen := map[TaskID]bool{start: true}
	stack := []TaskID{start}
	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range adj[t] {
			if !seen[next] {
				seen[next] = true
				stack = append(stack, next)
			}
		}
	}
	return seen
}
