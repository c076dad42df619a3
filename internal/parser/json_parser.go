package parser

import (
	"fmt"
	"os"

	"github.com/ohler55/ojg/oj"

	"yqhp/workflow-scheduler/pkg/types"
)

// JSONParser implements the Parser interface for JSON workflow
// descriptions.
type JSONParser struct{}

// NewJSONParser creates a new JSONParser.
func NewJSONParser() *JSONParser {
	return &JSONParser{}
}

// Parse parses a workflow description from bytes.
func (p *JSONParser) Parse(data []byte) (*types.Workflow, error) {
	return p.parse(data, "workflow")
}

// ParseFile parses a workflow description from a file.
func (p *JSONParser) ParseFile(path string) (*types.Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewParseError(0, 0, fmt.Sprintf("failed to read file: %s", path), err)
	}
	return p.parse(data, baseName(path))
}

func (p *JSONParser) parse(data []byte, name string) (*types.Workflow, error) {
	var doc document
	if err := oj.Unmarshal(data, &doc); err != nil {
		line, column := extractLineColumn(err.Error())
		return nil, NewParseError(line, column, cleanErrorMessage(err.Error()), err)
	}
	return doc.toWorkflow(name)
}
