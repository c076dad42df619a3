package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yqhp/workflow-scheduler/internal/config"
	"yqhp/workflow-scheduler/pkg/types"
)

// diamondWorkflow builds the 4-task diamond: entry -> {A, B} -> exit,
// two VMs on separate servers, symmetric ECT and unit communication.
func diamondWorkflow() *types.Workflow {
	return &types.Workflow{
		Name:      "diamond",
		Tasks:     []types.TaskID{"entry", "A", "B", "exit"},
		EntryTask: "entry",
		ExitTask:  "exit",
		Dependencies: map[types.TaskID][]types.TaskID{
			"A":    {"entry"},
			"B":    {"entry"},
			"exit": {"A", "B"},
		},
		CommTimes: map[types.Edge]float64{
			{From: "entry", To: "A"}: 1,
			{From: "entry", To: "B"}: 1,
			{From: "A", To: "exit"}:  1,
			{From: "B", To: "exit"}:  1,
		},
		Servers: []types.CloudServer{
			{ID: "cs1", VMs: []types.VMID{"vm1"}},
			{ID: "cs2", VMs: []types.VMID{"vm2"}},
		},
		ECT: types.ECTTable{
			"entry": {"vm1": 2, "vm2": 2},
			"A":     {"vm1": 4, "vm2": 4},
			"B":     {"vm1": 4, "vm2": 4},
			"exit":  {"vm1": 2, "vm2": 2},
		},
	}
}

// linearWorkflow builds entry -> T1 -> T2 -> exit with expensive
// communication, so splitting across VMs can never pay off.
func linearWorkflow(vms int) *types.Workflow {
	w := &types.Workflow{
		Name:      "linear",
		Tasks:     []types.TaskID{"entry", "T1", "T2", "exit"},
		EntryTask: "entry",
		ExitTask:  "exit",
		Dependencies: map[types.TaskID][]types.TaskID{
			"T1":   {"entry"},
			"T2":   {"T1"},
			"exit": {"T2"},
		},
		CommTimes: map[types.Edge]float64{
			{From: "entry", To: "T1"}: 5,
			{From: "T1", To: "T2"}:    5,
			{From: "T2", To: "exit"}:  5,
		},
		ECT: types.ECTTable{
			"entry": {},
			"T1":    {},
			"T2":    {},
			"exit":  {},
		},
	}

	ects := map[types.TaskID]float64{"entry": 1, "T1": 2, "T2": 3, "exit": 1}
	for i := 0; i < vms; i++ {
		vm := types.VMID("vm" + string(rune('1'+i)))
		w.Servers = append(w.Servers, types.CloudServer{ID: string(vm), VMs: []types.VMID{vm}})
		for task, ect := range ects {
			w.ECT[task][vm] = ect
		}
	}
	return w
}

func TestScheduleDiamondSplitsParallelTasks(t *testing.T) {
	w := diamondWorkflow()
	plan, err := NewMinMinScheduler("").Schedule(w)
	require.NoError(t, err)

	// A and B run in parallel on different VMs.
	assert.NotEqual(t, plan.Placements["A"].VM, plan.Placements["B"].VM)

	// Makespan equals the critical path: entry(2) + A(4) + comm(1) + exit(2).
	assert.Equal(t, 9.0, plan.Makespan(w))
}

func TestScheduleLinearStaysOnOneVM(t *testing.T) {
	for _, vms := range []int{1, 2, 4} {
		w := linearWorkflow(vms)
		plan, err := NewMinMinScheduler("").Schedule(w)
		require.NoError(t, err)

		vm := plan.Placements["T1"].VM
		assert.Equal(t, vm, plan.Placements["T2"].VM, "%d VMs", vms)
		assert.Equal(t, vm, plan.Placements["exit"].VM, "%d VMs", vms)

		// Makespan is the sum of ECTs along that VM.
		assert.Equal(t, 7.0, plan.Makespan(w), "%d VMs", vms)
	}
}

func TestScheduleEntryDuplication(t *testing.T) {
	w := diamondWorkflow()
	plan, err := NewMinMinScheduler("").Schedule(w)
	require.NoError(t, err)

	require.Len(t, plan.EntryCopies, 2)
	for vm, pl := range plan.EntryCopies {
		assert.Equal(t, vm, pl.VM)
		assert.Zero(t, pl.Start)
		assert.Equal(t, w.ECT["entry"][vm], pl.Finish)
	}
}

func TestScheduleNoCommunicationToEntry(t *testing.T) {
	// Huge communication cost on the entry edges: with duplication the
	// successor still starts right after the local entry copy.
	w := diamondWorkflow()
	w.CommTimes[types.Edge{From: "entry", To: "A"}] = 100
	w.CommTimes[types.Edge{From: "entry", To: "B"}] = 100

	plan, err := NewMinMinScheduler("").Schedule(w)
	require.NoError(t, err)

	for _, task := range []types.TaskID{"A", "B"} {
		pl := plan.Placements[task]
		assert.Equal(t, w.ECT["entry"][pl.VM], pl.Start, "task %s", task)
	}
}

func TestScheduleEveryTaskExactlyOnce(t *testing.T) {
	w := diamondWorkflow()
	plan, err := NewMinMinScheduler("").Schedule(w)
	require.NoError(t, err)

	assert.Len(t, plan.Placements, len(w.Tasks)-1)
	assert.Len(t, plan.Order, len(w.Tasks)-1)
	for _, task := range w.Tasks {
		if task == w.EntryTask {
			continue
		}
		_, ok := plan.Placements[task]
		assert.True(t, ok, "task %s missing from plan", task)
	}
}

func TestSchedulePrecedenceRespected(t *testing.T) {
	w := diamondWorkflow()
	plan, err := NewMinMinScheduler("").Schedule(w)
	require.NoError(t, err)

	for task, pl := range plan.Placements {
		assert.GreaterOrEqual(t, pl.Finish, pl.Start)
		for _, pred := range w.Predecessors(task) {
			predFinish, predVM := plan.FinishOn(pred, w.EntryTask, pl.VM)
			arrival := predFinish + w.CommCost(pred, task, predVM, pl.VM)
			assert.GreaterOrEqual(t, pl.Start, arrival,
				"task %s starts before input from %s arrives", task, pred)
		}
	}
}

func TestScheduleRejectsInvalidWorkflow(t *testing.T) {
	w := diamondWorkflow()
	w.Dependencies["A"] = append(w.Dependencies["A"], "exit") // cycle A <-> exit

	_, err := NewMinMinScheduler("").Schedule(w)
	require.Error(t, err)

	var verr *types.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestScheduleSingleVM(t *testing.T) {
	w := diamondWorkflow()
	w.Servers = []types.CloudServer{{ID: "cs1", VMs: []types.VMID{"vm1"}}}
	for task := range w.ECT {
		delete(w.ECT[task], "vm2")
	}

	plan, err := NewMinMinScheduler("").Schedule(w)
	require.NoError(t, err)

	// Everything serializes on the only VM.
	total := 0.0
	for _, task := range w.Tasks {
		total += w.ECT[task]["vm1"]
	}
	assert.Equal(t, total, plan.Makespan(w))
}

func TestScheduleTieBreakDeterministic(t *testing.T) {
	// Fully symmetric ready tasks tie on finish time; the lowest task
	// ID must win and land on the lowest VM ID.
	w := diamondWorkflow()
	plan, err := NewMinMinScheduler(config.TieBreakMinOfMins).Schedule(w)
	require.NoError(t, err)

	assert.Equal(t, types.TaskID("A"), plan.Order[0])
	assert.Equal(t, types.VMID("vm1"), plan.Placements["A"].VM)
}

func TestScheduleTaskIDTieBreakPolicy(t *testing.T) {
	w := diamondWorkflow()
	plan, err := NewMinMinScheduler(config.TieBreakTaskID).Schedule(w)
	require.NoError(t, err)

	// Both policies agree on the symmetric diamond.
	assert.Equal(t, types.TaskID("A"), plan.Order[0])
	assert.Equal(t, 9.0, plan.Makespan(w))
}

func TestReplayReproducesSchedule(t *testing.T) {
	w := diamondWorkflow()
	plan, err := NewMinMinScheduler("").Schedule(w)
	require.NoError(t, err)

	vmOf := make(map[types.TaskID]types.VMID)
	for task, pl := range plan.Placements {
		vmOf[task] = pl.VM
	}

	replayed := Replay(w, plan.Order, vmOf)
	assert.Equal(t, plan.Placements, replayed.Placements)
	assert.Equal(t, plan.EntryCopies, replayed.EntryCopies)
}
