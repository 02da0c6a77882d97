package optimize

import "bfc/internal/ir"

// clearLoopsPass recognizes the idiom Loop{body=[Add{255}]} ("[-]")
// and replaces it with Clear. It is omitted from the default "all"
// pass list (mul-loops subsumes it) but remains independently
// selectable by name.
type clearLoopsPass struct{}

func (clearLoopsPass) Name() string { return "clear-loops" }

func (p clearLoopsPass) Run(prog []ir.Instruction) []ir.Instruction {
	return clearLoopsSeq(prog)
}

func clearLoopsSeq(seq []ir.Instruction) []ir.Instruction {
	out := make([]ir.Instruction, len(seq))
	for i, inst := range seq {
		loop, ok := inst.(ir.Loop)
		if !ok {
			out[i] = inst
			continue
		}
		if isDecrementOnly(loop.Body) {
			out[i] = ir.Clear{Position: loop.Position}
			continue
		}
		out[i] = ir.Loop{Body: clearLoopsSeq(loop.Body), Position: loop.Position}
	}
	return out
}

func isDecrementOnly(body []ir.Instruction) bool {
	if len(body) != 1 {
		return false
	}
	add, ok := body[0].(ir.Add)
	return ok && add.Amount == 255
}
