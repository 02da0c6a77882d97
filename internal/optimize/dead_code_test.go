package optimize

import (
	"testing"

	"bfc/internal/ir"
)

func TestDeadCodeDropsNoOps(t *testing.T) {
	prog := []ir.Instruction{
		ir.Add{Amount: 0},
		ir.Move{Offset: 0},
		ir.Output{},
	}
	out := deadCodePass{}.Run(prog)
	if len(out) != 1 {
		t.Fatalf("got %d instructions, want 1 (Output survives): %s", len(out), ir.Print(out))
	}
	if _, ok := out[0].(ir.Output); !ok {
		t.Errorf("out[0] = %T, want Output", out[0])
	}
}

// TestDeadCodeLeadingLoopNeverRuns: a program consisting solely of
// "[+++]" optimizes to the empty sequence, since the tape starts
// zeroed and the leading loop can never execute even once.
func TestDeadCodeLeadingLoopNeverRuns(t *testing.T) {
	prog := parseProg(t, "[+++]")
	out := deadCodePass{}.Run(prog)
	if len(out) != 0 {
		t.Fatalf("got %d instructions, want 0: %s", len(out), ir.Print(out))
	}
}

func TestDeadCodeOnlyDropsLeadingLoopsAtTopLevel(t *testing.T) {
	prog := parseProg(t, "+[[+++]]")
	out := deadCodePass{}.Run(prog)

	// The outer loop is not leading (the Add comes first), so it
	// survives; its body's leading inner loop is not at top level
	// either (dead-code's "never runs" rule is a top-level-only
	// argument, since a loop body may run many times with tape state
	// the pass cannot see) and must also survive.
	if len(out) != 2 {
		t.Fatalf("got %d top-level instructions, want 2 (Add, Loop): %s", len(out), ir.Print(out))
	}
	outer, ok := out[1].(ir.Loop)
	if !ok {
		t.Fatalf("out[1] = %T, want Loop", out[1])
	}
	if len(outer.Body) != 1 {
		t.Fatalf("outer loop body has %d instructions, want 1 (inner loop survives)", len(outer.Body))
	}
}

func TestDeadCodeFusesClearThenLoopLike(t *testing.T) {
	prog := []ir.Instruction{
		ir.Add{Amount: 1},
		ir.Clear{},
		ir.Loop{Body: []ir.Instruction{ir.Add{Amount: 1}}},
	}
	out := deadCodePass{}.Run(prog)
	if len(out) != 2 {
		t.Fatalf("got %d instructions, want 2 (Add, Clear — the loop after Clear is unreachable): %s", len(out), ir.Print(out))
	}
	if _, ok := out[1].(ir.Clear); !ok {
		t.Errorf("out[1] = %T, want Clear", out[1])
	}
}

func TestDeadCodeIsIdempotent(t *testing.T) {
	prog := parseProg(t, "+[[+++]]-[-]")
	once := deadCodePass{}.Run(prog)
	twice := deadCodePass{}.Run(once)
	if ir.Print(once) != ir.Print(twice) {
		t.Errorf("pass is not idempotent:\nonce:  %s\ntwice: %s", ir.Print(once), ir.Print(twice))
	}
}
