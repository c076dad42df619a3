package parser

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"yqhp/workflow-scheduler/pkg/types"
)

// YAMLParser implements the Parser interface for YAML workflow
// descriptions.
type YAMLParser struct{}

// NewYAMLParser creates a new YAMLParser.
func NewYAMLParser() *YAMLParser {
	return &YAMLParser{}
}

// Parse parses a workflow description from bytes.
func (p *YAMLParser) Parse(data []byte) (*types.Workflow, error) {
	return p.parse(data, "workflow")
}

// ParseFile parses a workflow description from a file.
func (p *YAMLParser) ParseFile(path string) (*types.Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewParseError(0, 0, fmt.Sprintf("failed to read file: %s", path), err)
	}
	return p.parse(data, baseName(path))
}

func (p *YAMLParser) parse(data []byte, name string) (*types.Workflow, error) {
	var doc document

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Strict mode: error on unknown fields

	if err := decoder.Decode(&doc); err != nil {
		return nil, wrapYAMLError(err)
	}

	return doc.toWorkflow(name)
}

// wrapYAMLError converts a YAML error to a ParseError with line
// information.
func wrapYAMLError(err error) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()
	line, column := extractLineColumn(errStr)
	return NewParseError(line, column, cleanErrorMessage(errStr), err)
}

// extractLineColumn attempts to extract line and column from a decoder
// error message.
func extractLineColumn(errStr string) (int, int) {
	var line, column int

	if idx := strings.Index(errStr, "line "); idx != -1 {
		fmt.Sscanf(errStr[idx:], "line %d", &line)
	}
	if idx := strings.Index(errStr, "column "); idx != -1 {
		fmt.Sscanf(errStr[idx:], "column %d", &column)
	}
	// ojg reports positions as "at <line>:<column>".
	if line == 0 {
		if idx := strings.LastIndex(errStr, "at "); idx != -1 {
			fmt.Sscanf(errStr[idx:], "at %d:%d", &line, &column)
		}
	}

	return line, column
}

// cleanErrorMessage creates a cleaner error message.
func cleanErrorMessage(errStr string) string {
	errStr = strings.TrimPrefix(errStr, "yaml: ")

	if len(errStr) > 0 {
		errStr = strings.ToUpper(errStr[:1]) + errStr[1:]
	}
	return errStr
}
