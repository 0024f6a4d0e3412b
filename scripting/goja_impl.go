package scripting

import (
	"context"
	"fmt"
	"sync"

	"github.com/dop251/goja"
)

// GojaEngine evaluates JavaScript expressions on a single goja runtime.
// Safe for concurrent use; evaluations serialize on an internal lock.
type GojaEngine struct {
	mu sync.Mutex
	vm *goja.Runtime
}

func NewEngine() *GojaEngine {
	vm := goja.New()
	return &GojaEngine{vm: vm}
}

func (e *GojaEngine) Evaluate(ctx context.Context, expr string, vars map[string]any) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for name, value := range vars {
		if err := e.vm.Set(name, value); err != nil {
			return nil, fmt.Errorf("scripting: bind %q: %w", name, err)
		}
	}
	// Bindings from earlier evaluations must not leak into this one.
	defer func() {
		for name := range vars {
			e.vm.GlobalObject().Delete(name)
		}
	}()

	done := make(chan struct{})
	defer close(done)
	defer e.vm.ClearInterrupt()

	go func() {
		select {
		case <-ctx.Done():
			e.vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	val, err := e.vm.RunString(expr)
	if err != nil {
		if interruptedErr, ok := err.(*goja.InterruptedError); ok {
			if cause := interruptedErr.Unwrap(); cause != nil {
				return nil, cause
			}
			return nil, context.Canceled
		}
		return nil, fmt.Errorf("scripting: evaluate %q: %w", expr, err)
	}
	return val.Export(), nil
}
