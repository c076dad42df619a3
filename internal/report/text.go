package report

import (
	"fmt"
	"io"
	"sort"

	"yqhp/workflow-scheduler/pkg/types"
)

func init() {
	Register("text", func() Writer { return &TextWriter{} })
}

// TextWriter renders the plain-text report: task allocation, start and
// finish times, the metrics block and the empirical scheduling time.
type TextWriter struct{}

// Description returns a human-readable writer description.
func (t *TextWriter) Description() string { return "text" }

// Ext returns the file extension for report files.
func (t *TextWriter) Ext() string { return ".txt" }

// Write renders the report.
func (t *TextWriter) Write(w io.Writer, r *types.Report) error {
	fmt.Fprintf(w, "Workflow: %s\n", r.Workflow)
	fmt.Fprintf(w, "Run ID: %s\n", r.RunID)
	fmt.Fprintf(w, "Generated: %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))

	fmt.Fprintf(w, "\nTask Allocation:\n")
	vms := make([]types.VMID, 0, len(r.Allocation))
	for vm := range r.Allocation {
		vms = append(vms, vm)
	}
	sort.Slice(vms, func(i, j int) bool { return vms[i] < vms[j] })
	for _, vm := range vms {
		fmt.Fprintf(w, "  %s: %v\n", vm, r.Allocation[vm])
	}

	fmt.Fprintf(w, "\nEarliest Start Times (EST):\n")
	for _, rec := range r.Tasks {
		fmt.Fprintf(w, "  %s on %s: %g\n", rec.Task, rec.VM, rec.Start)
	}

	fmt.Fprintf(w, "\nEarliest Finish Times (EFT):\n")
	for _, rec := range r.Tasks {
		fmt.Fprintf(w, "  %s on %s: %g\n", rec.Task, rec.VM, rec.Finish)
	}

	fmt.Fprintf(w, "\nPerformance Metrics:\n")
	fmt.Fprintf(w, "  Makespan: %g\n", r.Metrics.Makespan)
	fmt.Fprintf(w, "  Load Balancing: %.2f%%\n", r.Metrics.LoadBalancingPct)
	fmt.Fprintf(w, "  Speedup: %g\n", r.Metrics.Speedup)
	fmt.Fprintf(w, "  Efficiency: %.2f%%\n", r.Metrics.Efficiency*100)
	fmt.Fprintf(w, "  Resource Utilization: %.2f%%\n", r.Metrics.ResourceUtilization)
	fmt.Fprintf(w, "  Load Balance Index: %g\n", r.Metrics.LoadBalanceIndex)

	if len(r.ECTPercentiles) > 0 {
		fmt.Fprintf(w, "\nAssigned ECT Percentiles:\n")
		for _, q := range []string{"p50", "p90", "p99", "max"} {
			if v, ok := r.ECTPercentiles[q]; ok {
				fmt.Fprintf(w, "  %s: %g\n", q, v)
			}
		}
	}

	fmt.Fprintf(w, "\nBalancer Moves: %d\n", r.BalancerMoves)
	fmt.Fprintf(w, "\nEmpirical Time: %.4f seconds\n", r.SchedulingTime.Seconds())
	return nil
}
