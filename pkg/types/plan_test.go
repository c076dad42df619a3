package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func committedDiamondPlan() (*Workflow, *Plan) {
	w := diamondWorkflow()
	if err := w.Validate(); err != nil {
		panic(err)
	}

	p := NewPlan()
	p.EntryCopies["vm1"] = Placement{VM: "vm1", Start: 0, Finish: 2}
	p.EntryCopies["vm2"] = Placement{VM: "vm2", Start: 0, Finish: 2}
	p.Placements["A"] = Placement{VM: "vm1", Start: 2, Finish: 6}
	p.Placements["B"] = Placement{VM: "vm2", Start: 2, Finish: 6}
	p.Placements["exit"] = Placement{VM: "vm1", Start: 7, Finish: 9}
	p.Order = []TaskID{"A", "B", "exit"}
	return w, p
}

func TestPlanCommitted(t *testing.T) {
	w, p := committedDiamondPlan()

	assert.True(t, p.Committed("A", w.EntryTask))
	assert.True(t, p.Committed("entry", w.EntryTask))
	assert.False(t, p.Committed("missing", w.EntryTask))
}

func TestPlanFinishOnEntryUsesLocalCopy(t *testing.T) {
	w, p := committedDiamondPlan()

	finish, onVM := p.FinishOn(w.EntryTask, w.EntryTask, "vm2")
	assert.Equal(t, 2.0, finish)
	assert.Equal(t, VMID("vm2"), onVM)

	finish, onVM = p.FinishOn("A", w.EntryTask, "vm2")
	assert.Equal(t, 6.0, finish)
	assert.Equal(t, VMID("vm1"), onVM)
}

func TestPlanTasksOnSortedByStart(t *testing.T) {
	_, p := committedDiamondPlan()

	assert.Equal(t, []TaskID{"A", "exit"}, p.TasksOn("vm1"))
	assert.Equal(t, []TaskID{"B"}, p.TasksOn("vm2"))
	assert.Empty(t, p.TasksOn("vm3"))
}

func TestPlanLoads(t *testing.T) {
	w, p := committedDiamondPlan()

	loads := p.Loads(w)
	// vm1: entry copy (2) + A (4) + exit (2); vm2: entry copy (2) + B (4).
	assert.Equal(t, 8.0, loads["vm1"])
	assert.Equal(t, 6.0, loads["vm2"])
}

func TestPlanMakespan(t *testing.T) {
	w, p := committedDiamondPlan()
	assert.Equal(t, 9.0, p.Makespan(w))
}

func TestPlanClone(t *testing.T) {
	_, p := committedDiamondPlan()
	cp := p.Clone()

	require.Equal(t, p.Placements, cp.Placements)
	require.Equal(t, p.EntryCopies, cp.EntryCopies)
	require.Equal(t, p.Order, cp.Order)

	cp.Placements["A"] = Placement{VM: "vm2", Start: 2, Finish: 6}
	cp.Order[0] = "B"
	assert.Equal(t, VMID("vm1"), p.Placements["A"].VM)
	assert.Equal(t, TaskID("A"), p.Order[0])
}
