// Property: the load-balancing pass never increases the makespan and
// never increases the load standard deviation, for any workflow.
package balancer

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"yqhp/workflow-scheduler/internal/config"
	"yqhp/workflow-scheduler/internal/metrics"
	"yqhp/workflow-scheduler/internal/scheduler"
	"yqhp/workflow-scheduler/pkg/types"
)

// workflowFromSeed builds a pseudo-random layered workflow so gopter
// can shrink over a single integer seed.
func workflowFromSeed(seed int64) *types.Workflow {
	rng := rand.New(rand.NewSource(seed))
	numTasks := rng.Intn(8)
	numVMs := 1 + rng.Intn(4)

	w := &types.Workflow{
		Name:         "seeded",
		EntryTask:    "entry",
		ExitTask:     "exit",
		Dependencies: make(map[types.TaskID][]types.TaskID),
		CommTimes:    make(map[types.Edge]float64),
		ECT:          make(types.ECTTable),
	}

	middle := make([]types.TaskID, numTasks)
	for i := range middle {
		middle[i] = types.TaskID(fmt.Sprintf("M%02d", i))
	}
	w.Tasks = append([]types.TaskID{"entry"}, middle...)
	w.Tasks = append(w.Tasks, "exit")

	hasChild := make(map[types.TaskID]bool)
	for i, task := range middle {
		candidates := append([]types.TaskID{"entry"}, middle[:i]...)
		for _, pred := range candidates {
			if rng.Intn(2) == 0 && len(w.Dependencies[task]) > 0 {
				continue
			}
			w.Dependencies[task] = append(w.Dependencies[task], pred)
			hasChild[pred] = true
			if cost := rng.Intn(6); cost > 0 {
				w.CommTimes[types.Edge{From: pred, To: task}] = float64(cost)
			}
		}
	}

	for _, task := range append([]types.TaskID{"entry"}, middle...) {
		if !hasChild[task] {
			w.Dependencies["exit"] = append(w.Dependencies["exit"], task)
		}
	}

	var vms []types.VMID
	for i := 0; i < numVMs; i++ {
		vm := types.VMID(fmt.Sprintf("vm%d", i))
		vms = append(vms, vm)
		w.Servers = append(w.Servers, types.CloudServer{ID: string(vm), VMs: []types.VMID{vm}})
	}

	for _, task := range w.Tasks {
		w.ECT[task] = make(map[types.VMID]float64, numVMs)
		for _, vm := range vms {
			w.ECT[task][vm] = float64(1 + rng.Intn(10))
		}
	}
	return w
}

func TestBalancerNonWorseningProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("makespan and load spread never increase", prop.ForAll(
		func(seed int64) bool {
			w := workflowFromSeed(seed)

			plan, err := scheduler.NewMinMinScheduler("").Schedule(w)
			if err != nil {
				return false
			}

			makespanBefore := plan.Makespan(w)
			spreadBefore := metrics.LoadStdDev(plan.Loads(w))

			balanced, _ := NewLoadBalancer(config.BalancerConfig{
				Enabled:           true,
				VarianceThreshold: 0,
				MaxMoves:          100,
			}).Balance(w, plan)

			return balanced.Makespan(w) <= makespanBefore &&
				metrics.LoadStdDev(balanced.Loads(w)) <= spreadBefore
		},
		gen.Int64Range(0, 1<<20),
	))

	properties.Property("every task remains placed exactly once", prop.ForAll(
		func(seed int64) bool {
			w := workflowFromSeed(seed)

			plan, err := scheduler.NewMinMinScheduler("").Schedule(w)
			if err != nil {
				return false
			}

			balanced, _ := NewLoadBalancer(config.BalancerConfig{
				Enabled:           true,
				VarianceThreshold: 0,
				MaxMoves:          100,
			}).Balance(w, plan)

			if len(balanced.Placements) != len(w.Tasks)-1 {
				return false
			}
			for _, task := range w.Tasks {
				if task == w.EntryTask {
					continue
				}
				pl, ok := balanced.Placements[task]
				if !ok || pl.Finish < pl.Start {
					return false
				}
			}
			return true
		},
		gen.Int64Range(0, 1<<20),
	))

	properties.TestingRun(t)
}
