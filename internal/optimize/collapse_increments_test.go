package optimize

import (
	"strings"
	"testing"

	"bfc/internal/ir"
)

func TestCollapseIncrementsFusesRuns(t *testing.T) {
	prog := parseProg(t, "+++---<<>>>")
	out := collapseIncrementsPass{}.Run(prog)

	if len(out) != 2 {
		t.Fatalf("got %d instructions, want 2 (one Add, one Move): %s", len(out), ir.Print(out))
	}
	add, ok := out[0].(ir.Add)
	if !ok || add.Amount != 0 {
		// +++--- nets to zero amount (3 - 3 mod 256)
		t.Errorf("first instruction = %+v, want Add{Amount: 0}", out[0])
	}
	move, ok := out[1].(ir.Move)
	if !ok || move.Offset != 1 {
		t.Errorf("second instruction = %+v, want Move{Offset: 1}", out[1])
	}
}

func TestCollapseIncrementsRecursesIntoLoops(t *testing.T) {
	prog := parseProg(t, "+[++>>]")
	out := collapseIncrementsPass{}.Run(prog)

	loop, ok := out[1].(ir.Loop)
	if !ok {
		t.Fatalf("out[1] = %T, want Loop", out[1])
	}
	if len(loop.Body) != 2 {
		t.Fatalf("loop body has %d instructions, want 2 (fused Add, fused Move):\n%s", len(loop.Body), ir.Print(loop.Body))
	}
}

func TestCollapseIncrementsStopsAtLoopBoundary(t *testing.T) {
	prog := parseProg(t, "+[+]+")
	out := collapseIncrementsPass{}.Run(prog)

	if len(out) != 3 {
		t.Fatalf("got %d instructions, want 3 (Add, Loop, Add — fusion must not cross the loop): %s", len(out), ir.Print(out))
	}
}

func TestCollapseIncrementsIsIdempotent(t *testing.T) {
	prog := parseProg(t, "+++---<<[->>+<<]")
	once := collapseIncrementsPass{}.Run(prog)
	twice := collapseIncrementsPass{}.Run(once)

	if ir.Print(once) != ir.Print(twice) {
		t.Errorf("pass is not idempotent:\nonce:  %s\ntwice: %s", ir.Print(once), ir.Print(twice))
	}
}

func parseProg(t *testing.T, source string) []ir.Instruction {
	t.Helper()
	prog, err := ir.Parse(strings.NewReader(source))
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", source, err)
	}
	return prog
}
