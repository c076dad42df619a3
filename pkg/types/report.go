package types

import "time"

// TaskRecord is one line of the output: where a task was placed and
// its scheduled start/finish times. Duplicate marks the virtual entry
// task copies created by the duplication pre-pass.
type TaskRecord struct {
	Task      TaskID  `json:"task"`
	VM        VMID    `json:"vm"`
	Start     float64 `json:"start"`
	Finish    float64 `json:"finish"`
	Duplicate bool    `json:"duplicate,omitempty"`
}

// Metrics holds the scalar quality figures derived from a frozen plan.
type Metrics struct {
	Makespan float64 `json:"makespan"`
	// SequentialTime is the cost of running every task back to back on
	// the VM it was actually assigned to, ignoring parallelism.
	SequentialTime float64 `json:"sequential_time"`
	Speedup        float64 `json:"speedup"`
	Efficiency     float64 `json:"efficiency"`
	// LoadBalanceIndex is the population standard deviation of per-VM
	// loads; lower is better balanced.
	LoadBalanceIndex float64 `json:"load_balance_index"`
	// LoadBalancingPct is avg load / max load as a percentage.
	LoadBalancingPct float64 `json:"load_balancing_pct"`
	// ResourceUtilization is total busy time over makespan * |VMs|,
	// as a percentage.
	ResourceUtilization float64 `json:"resource_utilization"`
}

// Report is the full output of one scheduling run, handed to the
// report writers.
type Report struct {
	RunID       string            `json:"run_id"`
	Workflow    string            `json:"workflow"`
	GeneratedAt time.Time         `json:"generated_at"`
	Allocation  map[VMID][]TaskID `json:"allocation"`
	Tasks       []TaskRecord      `json:"tasks"`
	Metrics     Metrics           `json:"metrics"`
	// ECTPercentiles summarizes the distribution of the assigned
	// per-task execution durations (p50/p90/p99 and max).
	ECTPercentiles map[string]float64 `json:"ect_percentiles,omitempty"`
	// BalancerMoves counts the task moves the load balancer committed.
	BalancerMoves int `json:"balancer_moves"`
	// SchedulingTime is the empirical wall-clock duration of the
	// scheduling computation itself.
	SchedulingTime time.Duration `json:"scheduling_time"`
}
