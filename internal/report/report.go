// Package report assembles and renders the output of a scheduling
// run: per-VM allocation, per-task times and the quality metrics.
package report

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"

	"yqhp/workflow-scheduler/internal/metrics"
	"yqhp/workflow-scheduler/pkg/types"
)

// Writer renders a report in one output format.
type Writer interface {
	// Description returns a human-readable writer description.
	Description() string
	// Ext returns the file extension for report files.
	Ext() string
	// Write renders the report.
	Write(w io.Writer, r *types.Report) error
}

var registry = make(map[string]func() Writer)

// Register makes a writer factory available under a format name.
func Register(name string, factory func() Writer) {
	registry[name] = factory
}

// For returns a writer for the given format name.
func For(format string) (Writer, error) {
	factory, ok := registry[format]
	if !ok {
		return nil, fmt.Errorf("unknown report format: %s", format)
	}
	return factory(), nil
}

// Formats returns the registered format names, sorted.
func Formats() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build assembles a report from a frozen plan. The entry task appears
// on every VM in the allocation listing, marked as a duplicate.
func Build(w *types.Workflow, plan *types.Plan, m types.Metrics, moves int, elapsed time.Duration) *types.Report {
	r := &types.Report{
		RunID:          uuid.NewString(),
		Workflow:       w.Name,
		GeneratedAt:    time.Now(),
		Allocation:     make(map[types.VMID][]types.TaskID, len(w.VMs())),
		Metrics:        m,
		ECTPercentiles: metrics.Percentiles(w, plan),
		BalancerMoves:  moves,
		SchedulingTime: elapsed,
	}

	for _, vm := range w.VMs() {
		r.Allocation[vm] = append(r.Allocation[vm], w.EntryTask)
		r.Allocation[vm] = append(r.Allocation[vm], plan.TasksOn(vm)...)
	}

	vms := make([]types.VMID, 0, len(plan.EntryCopies))
	for vm := range plan.EntryCopies {
		vms = append(vms, vm)
	}
	sort.Slice(vms, func(i, j int) bool { return vms[i] < vms[j] })
	for _, vm := range vms {
		pl := plan.EntryCopies[vm]
		r.Tasks = append(r.Tasks, types.TaskRecord{
			Task:      w.EntryTask,
			VM:        vm,
			Start:     pl.Start,
			Finish:    pl.Finish,
			Duplicate: true,
		})
	}

	for _, t := range plan.Order {
		pl := plan.Placements[t]
		r.Tasks = append(r.Tasks, types.TaskRecord{
			Task:   t,
			VM:     pl.VM,
			Start:  pl.Start,
			Finish: pl.Finish,
		})
	}

	return r
}
