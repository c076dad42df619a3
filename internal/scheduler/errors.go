package scheduler

import "fmt"

// UnscheduledTaskError reports a task that can never become ready.
// Validation rejects disconnected graphs before the loop starts, so
// hitting this during scheduling indicates a malformed workflow that
// bypassed validation.
type UnscheduledTaskError struct {
	Task string
}

// Error implements the error interface.
func (e *UnscheduledTaskError) Error() string {
	return fmt.Sprintf("task '%s' never became ready for scheduling", e.Task)
}
