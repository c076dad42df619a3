// Package parser loads workflow descriptions from YAML or JSON files
// and hands the scheduler a validated in-memory workflow model.
package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"yqhp/workflow-scheduler/pkg/types"
)

// Parser converts a serialized workflow description into a validated
// workflow model.
type Parser interface {
	// Parse parses a workflow description from bytes.
	Parse(data []byte) (*types.Workflow, error)
	// ParseFile parses a workflow description from a file.
	ParseFile(path string) (*types.Workflow, error)
}

// ForFile selects a parser based on the file extension. JSON files get
// the JSON parser, everything else the YAML parser.
func ForFile(path string) Parser {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return NewJSONParser()
	}
	return NewYAMLParser()
}

// document is the on-disk shape of a workflow description. The VM pool
// is given either as cloud_servers (VMs grouped by location, free
// communication inside a group) or as a flat vms list, in which case
// every VM forms its own singleton server.
type document struct {
	Name               string                        `yaml:"name,omitempty" json:"name,omitempty"`
	Tasks              []string                      `yaml:"tasks" json:"tasks"`
	EntryTask          string                        `yaml:"entry_task" json:"entry_task"`
	ExitTask           string                        `yaml:"exit_task" json:"exit_task"`
	Dependencies       map[string][]string           `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
	CommunicationTimes map[string]float64            `yaml:"communication_times,omitempty" json:"communication_times,omitempty"`
	CloudServers       []serverDoc                   `yaml:"cloud_servers,omitempty" json:"cloud_servers,omitempty"`
	VMs                []string                      `yaml:"vms,omitempty" json:"vms,omitempty"`
	ECTTable           map[string]map[string]float64 `yaml:"ect_table" json:"ect_table"`
}

type serverDoc struct {
	ID  string   `yaml:"id" json:"id"`
	VMs []string `yaml:"vms" json:"vms"`
}

// toWorkflow converts a parsed document into the workflow model and
// validates it. name is a fallback workflow name (the file base name).
func (d *document) toWorkflow(name string) (*types.Workflow, error) {
	w := &types.Workflow{
		Name:         d.Name,
		EntryTask:    types.TaskID(d.EntryTask),
		ExitTask:     types.TaskID(d.ExitTask),
		Dependencies: make(map[types.TaskID][]types.TaskID, len(d.Dependencies)),
		CommTimes:    make(map[types.Edge]float64, len(d.CommunicationTimes)),
		ECT:          make(types.ECTTable, len(d.ECTTable)),
	}
	if w.Name == "" {
		w.Name = name
	}

	for _, t := range d.Tasks {
		w.Tasks = append(w.Tasks, types.TaskID(t))
	}

	for task, preds := range d.Dependencies {
		ids := make([]types.TaskID, 0, len(preds))
		for _, p := range preds {
			ids = append(ids, types.TaskID(p))
		}
		w.Dependencies[types.TaskID(task)] = ids
	}

	for key, cost := range d.CommunicationTimes {
		from, to, ok := strings.Cut(key, "-")
		if !ok || from == "" || to == "" {
			return nil, types.NewValidationError("communication_times",
				fmt.Sprintf("invalid edge key '%s', expected '<pred>-<succ>'", key))
		}
		w.CommTimes[types.Edge{From: types.TaskID(from), To: types.TaskID(to)}] = cost
	}

	switch {
	case len(d.CloudServers) > 0 && len(d.VMs) > 0:
		return nil, types.NewValidationError("vms", "cloud_servers and vms are mutually exclusive")
	case len(d.CloudServers) > 0:
		for _, srv := range d.CloudServers {
			server := types.CloudServer{ID: srv.ID}
			for _, vm := range srv.VMs {
				server.VMs = append(server.VMs, types.VMID(vm))
			}
			w.Servers = append(w.Servers, server)
		}
	default:
		// Flat VM list: singleton servers, so every cross-VM edge pays
		// its communication cost.
		for _, vm := range d.VMs {
			w.Servers = append(w.Servers, types.CloudServer{
				ID:  vm,
				VMs: []types.VMID{types.VMID(vm)},
			})
		}
	}

	for task, row := range d.ECTTable {
		entries := make(map[types.VMID]float64, len(row))
		for vm, ect := range row {
			entries[types.VMID(vm)] = ect
		}
		w.ECT[types.TaskID(task)] = entries
	}

	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// baseName strips the directory and extension from a path.
func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
