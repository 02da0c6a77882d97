// Package optimize implements the rewrite-based Brainfuck IR
// optimizer: a small registry of named, pure passes composed by an
// Optimizer that runs them to a bounded fixed point.
package optimize

import (
	"sync"

	"bfc/internal/ir"
)

// Pass is a named, pure rewriter from one instruction sequence to
// another. Passes must be safe to run repeatedly: applying a pass
// twice in a row must never change behavior relative to applying it
// once (though it may be a no-op the second time).
type Pass interface {
	Name() string
	Run(prog []ir.Instruction) []ir.Instruction
}

var (
	registryOnce sync.Once
	registry     map[string]Pass
)

// DefaultPassNames is the "all" pass list, in order. clear-loops is
// deliberately omitted: mul-loops subsumes it (a clear-loop's body
// "[-]" recognizes as a Mul with an empty offset map plus a trailing
// Clear), so naming it in the default would only repeat work.
var DefaultPassNames = []string{"dead-code", "collapse-increments", "mul-loops"}

func initRegistry() {
	registry = map[string]Pass{
		"collapse-increments": collapseIncrementsPass{},
		"clear-loops":         clearLoopsPass{},
		"mul-loops":           mulLoopsPass{},
		"dead-code":           deadCodePass{},
	}
}

// Registry returns the process-wide, read-only name-to-pass mapping.
// It is lazily initialized on first call and never mutated after
// that, so it is safe to share across goroutines as long as the first
// call happens before any concurrent read — callers never need to
// hold a lock to use it.
func Registry() map[string]Pass {
	registryOnce.Do(initRegistry)
	return registry
}

// Lookup resolves name to a registered Pass, case-sensitively.
func Lookup(name string) (Pass, bool) {
	p, ok := Registry()[name]
	return p, ok
}

// Names returns every registered pass name, in registration order —
// used by the CLI's list-optimizations command.
func Names() []string {
	return []string{"collapse-increments", "clear-loops", "mul-loops", "dead-code"}
}
