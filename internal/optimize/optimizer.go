package optimize

import (
	"reflect"
	"strings"

	"bfc/internal/bferrors"
	"bfc/internal/ir"
)

// maxFixedPointRounds bounds how many times the full pass list runs
// while searching for a fixed point. A pragmatic upper bound rather
// than a proven one — no valid program has been observed needing
// more.
const maxFixedPointRounds = 10

// Optimizer holds an ordered list of passes and runs them together to
// a bounded fixed point.
type Optimizer struct {
	passes []Pass
}

// NewOptimizer builds an Optimizer from a selector string: "none" for
// an empty pass list, "all" for DefaultPassNames, or a comma-separated
// list of registered pass names. An unknown name fails the whole
// construction — no partial registry is ever retained.
func NewOptimizer(selector string) (*Optimizer, error) {
	var names []string
	switch selector {
	case "none":
		names = nil
	case "all":
		names = DefaultPassNames
	default:
		for _, n := range strings.Split(selector, ",") {
			names = append(names, strings.TrimSpace(n))
		}
	}

	passes := make([]Pass, 0, len(names))
	for _, name := range names {
		p, ok := Lookup(name)
		if !ok {
			return nil, bferrors.UnknownOptimizationPass(name)
		}
		passes = append(passes, p)
	}
	return &Optimizer{passes: passes}, nil
}

// Run applies the optimizer's pass list, in order, up to
// maxFixedPointRounds times, stopping early once a round leaves the
// sequence structurally unchanged.
func (o *Optimizer) Run(prog []ir.Instruction) []ir.Instruction {
	current := prog
	for round := 0; round < maxFixedPointRounds; round++ {
		next := current
		for _, p := range o.passes {
			next = p.Run(next)
		}
		if sequenceEqual(current, next) {
			return next
		}
		current = next
	}
	return current
}

// sequenceEqual reports structural equality of two instruction
// sequences, ignoring nothing — Position is part of Instruction but
// two passes that make no change reproduce identical Positions too,
// so plain structural comparison is the right notion of "unchanged".
func sequenceEqual(a, b []ir.Instruction) bool {
	return reflect.DeepEqual(a, b)
}
