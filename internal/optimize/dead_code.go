package optimize

import "bfc/internal/ir"

// deadCodePass removes provably inert instructions and unreachable
// loops, recursing into loop bodies. The rules are applied in order:
// drop no-op Add/Move, drop leading loop-like instructions at the top
// level (the initial tape is all zeros, so a loop/Clear/Mul that
// starts the program can never execute), fuse an instruction that
// clears the current cell with any loop-like instruction that follows
// it, then recurse into whatever Loop bodies remain.
type deadCodePass struct{}

func (deadCodePass) Name() string { return "dead-code" }

func (p deadCodePass) Run(prog []ir.Instruction) []ir.Instruction {
	return deadCodeSeq(prog, true)
}

func deadCodeSeq(seq []ir.Instruction, topLevel bool) []ir.Instruction {
	filtered := make([]ir.Instruction, 0, len(seq))
	for _, inst := range seq {
		if a, ok := inst.(ir.Add); ok && a.Amount == 0 {
			continue
		}
		if m, ok := inst.(ir.Move); ok && m.Offset == 0 {
			continue
		}
		filtered = append(filtered, inst)
	}

	if topLevel {
		i := 0
		for i < len(filtered) && ir.IsLoopLike(filtered[i]) {
			i++
		}
		filtered = filtered[i:]
	}

	out := make([]ir.Instruction, 0, len(filtered))
	for _, inst := range filtered {
		if len(out) > 0 && ir.ClearsCurrentCell(out[len(out)-1]) && ir.IsLoopLike(inst) {
			continue
		}
		out = append(out, inst)
	}

	for i, inst := range out {
		if loop, ok := inst.(ir.Loop); ok {
			out[i] = ir.Loop{Body: deadCodeSeq(loop.Body, false), Position: loop.Position}
		}
	}
	return out
}
