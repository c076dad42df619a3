// Package metrics derives the scalar quality figures of a frozen plan:
// makespan, speedup, efficiency, load balance and utilization.
package metrics

import (
	"math"

	"github.com/HdrHistogram/hdrhistogram-go"

	"yqhp/workflow-scheduler/pkg/types"
)

// Calculate computes all metrics for a completed plan. It never
// mutates the plan or the workflow.
func Calculate(w *types.Workflow, plan *types.Plan) types.Metrics {
	m := types.Metrics{
		Makespan:       plan.Makespan(w),
		SequentialTime: sequentialTime(w, plan),
	}

	if m.Makespan > 0 {
		m.Speedup = m.SequentialTime / m.Makespan
	}
	m.Efficiency = m.Speedup / float64(len(w.VMs()))

	loads := plan.Loads(w)
	m.LoadBalanceIndex = LoadStdDev(loads)

	var total, max float64
	for _, load := range loads {
		total += load
		if load > max {
			max = load
		}
	}
	if max > 0 {
		avg := total / float64(len(loads))
		m.LoadBalancingPct = avg / max * 100
	}
	if m.Makespan > 0 {
		m.ResourceUtilization = total / (m.Makespan * float64(len(loads))) * 100
	}

	return m
}

// sequentialTime is the cost of running every task one after another
// on the VM it was assigned to. The duplicated entry task contributes
// its cheapest copy.
func sequentialTime(w *types.Workflow, plan *types.Plan) float64 {
	total := 0.0

	entryBest := math.Inf(1)
	for vm := range plan.EntryCopies {
		if ect := w.ECT[w.EntryTask][vm]; ect < entryBest {
			entryBest = ect
		}
	}
	if !math.IsInf(entryBest, 1) {
		total += entryBest
	}

	for t, pl := range plan.Placements {
		total += w.ECT[t][pl.VM]
	}
	return total
}

// LoadStdDev returns the population standard deviation of per-VM
// loads. Zero means perfectly balanced; a single-VM pool is always
// zero.
func LoadStdDev(loads map[types.VMID]float64) float64 {
	if len(loads) == 0 {
		return 0
	}

	var sum float64
	for _, load := range loads {
		sum += load
	}
	mean := sum / float64(len(loads))

	var variance float64
	for _, load := range loads {
		d := load - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(loads)))
}

// Percentiles summarizes the distribution of assigned execution
// durations (p50/p90/p99/max) using an HDR histogram. Durations are
// recorded at millisecond-style 1/1000 resolution.
func Percentiles(w *types.Workflow, plan *types.Plan) map[string]float64 {
	if len(plan.Placements) == 0 {
		return nil
	}

	maxDur := int64(1)
	record := make([]int64, 0, len(plan.Placements))
	for t, pl := range plan.Placements {
		v := int64(math.Round(w.ECT[t][pl.VM] * 1000))
		if v < 1 {
			v = 1
		}
		if v > maxDur {
			maxDur = v
		}
		record = append(record, v)
	}

	hist := hdrhistogram.New(1, maxDur, 3)
	for _, v := range record {
		_ = hist.RecordValue(v)
	}

	return map[string]float64{
		"p50": float64(hist.ValueAtQuantile(50)) / 1000,
		"p90": float64(hist.ValueAtQuantile(90)) / 1000,
		"p99": float64(hist.ValueAtQuantile(99)) / 1000,
		"max": float64(hist.Max()) / 1000,
	}
}
