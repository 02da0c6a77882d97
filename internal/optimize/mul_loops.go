package optimize

import (
	"sort"

	"bfc/internal/ir"
)

// mulLoopsPass recognizes loops that, each iteration, add constants
// to nearby cells and decrement the current cell by exactly one, and
// rewrites them into a flat sequence of Mul instructions followed by
// a Clear — removing the loop entirely.
//
// Correctness: if the body runs c = tape[p] iterations before exit
// (guaranteed by the M[0]=255 decrement and the absence of I/O or
// nested control flow), each accepted cell at relative offset k
// receives c*v mod 256 regardless of iteration order, which equals
// tape[p]*v; the trailing Clear zeroes tape[p]. Any loop containing
// I/O or nested loops is rejected rather than risk a wrong rewrite.
type mulLoopsPass struct{}

func (mulLoopsPass) Name() string { return "mul-loops" }

func (p mulLoopsPass) Run(prog []ir.Instruction) []ir.Instruction {
	return mulLoopsSeq(prog)
}

func mulLoopsSeq(seq []ir.Instruction) []ir.Instruction {
	out := make([]ir.Instruction, 0, len(seq))
	for _, inst := range seq {
		loop, ok := inst.(ir.Loop)
		if !ok {
			out = append(out, inst)
			continue
		}
		if muls, okRewrite := recognizeMulLoop(loop); okRewrite {
			out = append(out, muls...)
			continue
		}
		out = append(out, ir.Loop{Body: mulLoopsSeq(loop.Body), Position: loop.Position})
	}
	return out
}

// recognizeMulLoop walks the body once, accumulating the net pointer
// displacement and per-offset increment totals. It returns the
// replacement Mul+Clear sequence and true on acceptance.
func recognizeMulLoop(loop ir.Loop) ([]ir.Instruction, bool) {
	offset := 0
	m := map[int]byte{}

	for _, inst := range loop.Body {
		switch v := inst.(type) {
		case ir.Move:
			offset += v.Offset
		case ir.Add:
			m[offset] += v.Amount
		default:
			return nil, false
		}
	}

	if offset != 0 {
		return nil, false
	}
	if m[0] != 255 {
		return nil, false
	}
	delete(m, 0)

	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	out := make([]ir.Instruction, 0, len(keys)+1)
	for _, k := range keys {
		out = append(out, ir.Mul{Offset: k, Amount: m[k], Position: loop.Position})
	}
	out = append(out, ir.Clear{Position: loop.Position})
	return out, true
}
