// Package scripting evaluates data-binding expressions. The template
// frontend hands it the snippets embedded in document templates together
// with the variables in scope at that point of the expansion.
package scripting

import (
	"context"
)

// Engine represents an expression engine (e.g., JavaScript).
type Engine interface {
	// Evaluate runs one expression with the given variables in scope and
	// returns its result as a plain Go value.
	Evaluate(ctx context.Context, expr string, vars map[string]any) (any, error)
}
