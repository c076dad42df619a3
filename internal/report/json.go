package report

import (
	"encoding/json"
	"io"

	"yqhp/workflow-scheduler/pkg/types"
)

func init() {
	Register("json", func() Writer { return &JSONWriter{} })
}

// JSONWriter renders the machine-readable report.
type JSONWriter struct{}

// Description returns a human-readable writer description.
func (j *JSONWriter) Description() string { return "json" }

// Ext returns the file extension for report files.
func (j *JSONWriter) Ext() string { return ".json" }

// Write renders the report.
func (j *JSONWriter) Write(w io.Writer, r *types.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
