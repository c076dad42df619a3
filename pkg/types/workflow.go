// Package types defines the core data structures for the workflow scheduler.
package types

// TaskID identifies a workflow task.
type TaskID string

// VMID identifies a virtual machine in the pool.
type VMID string

// Edge is an ordered dependency edge between two tasks.
type Edge struct {
	From TaskID
	To   TaskID
}

// CloudServer groups VMs that share a data-center location.
// Communication between VMs of the same server is free.
type CloudServer struct {
	ID  string `yaml:"id" json:"id"`
	VMs []VMID `yaml:"vms" json:"vms"`
}

// ECTTable maps (task, VM) to the expected execution duration of the
// task on that VM. It must be fully populated for every pair.
type ECTTable map[TaskID]map[VMID]float64

// Workflow is the in-memory representation of one scheduling problem:
// a task dependency DAG, inter-task communication costs, the VM pool
// and the ECT table. It is loaded once and read-only afterwards.
type Workflow struct {
	Name      string
	Tasks     []TaskID
	EntryTask TaskID
	ExitTask  TaskID

	// Dependencies maps a task to its predecessors.
	Dependencies map[TaskID][]TaskID
	// Successors is derived from Dependencies during validation.
	Successors map[TaskID][]TaskID

	// CommTimes holds the communication duration per dependency edge.
	// Edges absent from the map cost zero.
	CommTimes map[Edge]float64

	Servers []CloudServer
	ECT     ECTTable

	// serverOf caches VM -> server lookups.
	serverOf map[VMID]string
	vms      []VMID
}

// VMs returns the VM pool in declaration order.
func (w *Workflow) VMs() []VMID {
	if w.vms == nil {
		for _, srv := range w.Servers {
			w.vms = append(w.vms, srv.VMs...)
		}
	}
	return w.vms
}

// ServerOf returns the ID of the cloud server a VM belongs to.
func (w *Workflow) ServerOf(vm VMID) string {
	if w.serverOf == nil {
		w.serverOf = make(map[VMID]string)
		for _, srv := range w.Servers {
			for _, v := range srv.VMs {
				w.serverOf[v] = srv.ID
			}
		}
	}
	return w.serverOf[vm]
}

// SameServer reports whether two VMs are colocated on one cloud server.
func (w *Workflow) SameServer(a, b VMID) bool {
	if a == b {
		return true
	}
	return w.ServerOf(a) == w.ServerOf(b)
}

// CommCost returns the communication delay paid when task "to" runs on
// toVM and its predecessor "from" ran on fromVM. Colocated VMs pay
// nothing.
func (w *Workflow) CommCost(from, to TaskID, fromVM, toVM VMID) float64 {
	if w.SameServer(fromVM, toVM) {
		return 0
	}
	return w.CommTimes[Edge{From: from, To: to}]
}

// Predecessors returns the direct predecessors of a task.
func (w *Workflow) Predecessors(t TaskID) []TaskID {
	return w.Dependencies[t]
}
