// Package balancer implements the load-balancing correction pass: a
// local search that moves tasks from the most-loaded VM to the
// least-loaded one as long as doing so reduces load dispersion without
// worsening the makespan.
package balancer

import (
	"go.uber.org/zap"

	"yqhp/workflow-scheduler/internal/config"
	"yqhp/workflow-scheduler/internal/metrics"
	"yqhp/workflow-scheduler/internal/scheduler"
	"yqhp/workflow-scheduler/pkg/logger"
	"yqhp/workflow-scheduler/pkg/types"
)

// LoadBalancer rebalances a completed plan. It is a correction pass
// over an existing assignment, not a re-run of the scheduler.
type LoadBalancer struct {
	cfg config.BalancerConfig
}

// NewLoadBalancer creates a balancer with the given configuration.
func NewLoadBalancer(cfg config.BalancerConfig) *LoadBalancer {
	return &LoadBalancer{cfg: cfg}
}

// Balance runs the pass and returns the (possibly rebalanced) plan and
// the number of committed moves. Every candidate move is evaluated as
// a transaction: the commit order is replayed with the amended
// assignment, all downstream times recomputed, and the move is kept
// only if the replayed makespan does not exceed the pre-move value and
// the load standard deviation strictly improves. Entry task copies
// never move. The pass stops when the deviation reaches the configured
// threshold, no admissible improving move exists, or the move cap is
// hit.
func (b *LoadBalancer) Balance(w *types.Workflow, plan *types.Plan) (*types.Plan, int) {
	if !b.cfg.Enabled {
		return plan, 0
	}

	moves := 0
	for moves < b.cfg.MaxMoves {
		loads := plan.Loads(w)
		stddev := metrics.LoadStdDev(loads)
		if stddev <= b.cfg.VarianceThreshold {
			break
		}

		srcVM, dstVM := extremes(w, loads)
		if srcVM == dstVM {
			break
		}

		trial, trialStddev := b.bestMove(w, plan, srcVM, dstVM, stddev)
		if trial == nil {
			break
		}

		logger.Debug("rebalancing move committed",
			zap.String("from", string(srcVM)),
			zap.String("to", string(dstVM)),
			zap.Float64("stddev_before", stddev),
			zap.Float64("stddev_after", trialStddev))

		plan = trial
		moves++
	}

	return plan, moves
}

// bestMove tries every task on the most-loaded VM and returns the
// admissible replayed plan with the smallest resulting deviation, or
// nil when no candidate qualifies.
func (b *LoadBalancer) bestMove(w *types.Workflow, plan *types.Plan, srcVM, dstVM types.VMID, stddev float64) (*types.Plan, float64) {
	preMakespan := plan.Makespan(w)

	vmOf := make(map[types.TaskID]types.VMID, len(plan.Placements))
	for t, pl := range plan.Placements {
		vmOf[t] = pl.VM
	}

	var best *types.Plan
	bestStddev := stddev

	for _, task := range plan.TasksOn(srcVM) {
		vmOf[task] = dstVM
		trial := scheduler.Replay(w, plan.Order, vmOf)
		vmOf[task] = srcVM

		if trial.Makespan(w) > preMakespan {
			continue
		}
		trialStddev := metrics.LoadStdDev(trial.Loads(w))
		if trialStddev < bestStddev {
			best = trial
			bestStddev = trialStddev
		}
	}

	return best, bestStddev
}

// extremes returns the most- and least-loaded VMs, breaking ties by
// the lowest VM identifier.
func extremes(w *types.Workflow, loads map[types.VMID]float64) (maxVM, minVM types.VMID) {
	first := true
	for _, vm := range w.VMs() {
		load := loads[vm]
		if first {
			maxVM, minVM = vm, vm
			first = false
			continue
		}
		if load > loads[maxVM] || (load == loads[maxVM] && vm < maxVM) {
			maxVM = vm
		}
		if load < loads[minVM] || (load == loads[minVM] && vm < minVM) {
			minVM = vm
		}
	}
	return maxVM, minVM
}
