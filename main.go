// Package main provides the entry point for the workflow-scheduler CLI.
package main

import "yqhp/workflow-scheduler/cmd"

func main() {
	cmd.Execute()
}
