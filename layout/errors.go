package layout

import (
	"fmt"

	"github.com/SigmundGranaas/petty-sub005/ir"
)

// ElementTooLargeError reports an atomic element whose height exceeds the
// total page content height. No page in the document can hold it, so the
// pass aborts instead of looping forever.
type ElementTooLargeError struct {
	Required  float64
	Available float64
}

func (e *ElementTooLargeError) Error() string {
	return fmt.Sprintf("Node has a height of %.2f which exceeds the total page content height of %.2f.", e.Required, e.Available)
}

// BuilderMismatchError reports a builder invoked on an input node of the
// wrong kind. It signals a programming error, never bad author input.
type BuilderMismatchError struct {
	Expected ir.Kind
	Actual   ir.Kind
}

func (e *BuilderMismatchError) Error() string {
	return fmt.Sprintf("Builder mismatch: Expected %s node, got %s.", e.Expected, e.Actual)
}

// StateMismatchError reports a resume state presented to a node whose kind
// does not match the state's section. It indicates a driver bug.
type StateMismatchError struct {
	Expected Section
	Actual   Section
}

func (e *StateMismatchError) Error() string {
	return fmt.Sprintf("State mismatch: Expected state for %s, got %s.", e.Expected, e.Actual)
}
