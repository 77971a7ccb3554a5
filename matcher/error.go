package matcher

import "fmt"

// EngineError is returned when a search exceeds its configured resource
// bounds instead of completing normally. It carries a short message plus
// the one number a caller needs to understand why: how many steps the
// search took, not a stack trace.
type EngineError struct {
	Message    string
	Iterations int
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("regex: %s after %d iterations", e.Message, e.Iterations)
}
