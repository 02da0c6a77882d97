package codegen

import (
	"strings"
	"testing"

	"bfc/internal/ir"
)

func TestOptimizeModuleNoneLeavesModuleUntouched(t *testing.T) {
	c := NewCompiler(Options{OptLevel: OptNone})
	if err := c.CompileInstructions([]ir.Instruction{ir.Add{Amount: 1}, ir.Add{Amount: 2}}); err != nil {
		t.Fatalf("CompileInstructions: %v", err)
	}
	mod, err := c.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	before := mod.String()

	NewOptimizer(OptNone).OptimizeModule(mod)
	after := mod.String()
	if before != after {
		t.Errorf("OptNone should be a no-op:\nbefore: %s\nafter:  %s", before, after)
	}
}

func TestOptimizeModuleBasicProducesIR(t *testing.T) {
	c := NewCompiler(Options{OptLevel: OptBasic})
	if err := c.CompileInstructions([]ir.Instruction{ir.Add{Amount: 2}, ir.Add{Amount: 3}}); err != nil {
		t.Fatalf("CompileInstructions: %v", err)
	}
	mod, err := c.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	// Finish() already ran the optimizer at OptBasic; just sanity
	// check the module still prints valid, non-empty IR.
	if mod.String() == "" {
		t.Fatal("optimized module produced no IR text")
	}
}

func TestOptimizeModuleStandardKeepsBlocksTerminated(t *testing.T) {
	c := NewCompiler(Options{OptLevel: OptStandard, BoundsChecked: true})
	if err := c.CompileInstructions([]ir.Instruction{ir.Move{Offset: 1}}); err != nil {
		t.Fatalf("CompileInstructions: %v", err)
	}
	mod, err := c.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	for _, fn := range mod.Funcs {
		if fn.GlobalName != "bf_main" {
			continue
		}
		for i, b := range fn.Blocks {
			if b.Term == nil {
				t.Errorf("block %d has no terminator after simplifyCFG/unreachable-pruning", i)
			}
		}
	}
}

func TestOptimizeModuleAggressiveRunsWithoutError(t *testing.T) {
	c := NewCompiler(Options{OptLevel: OptAggressive})
	if err := c.CompileInstructions([]ir.Instruction{
		ir.Loop{Body: []ir.Instruction{ir.Add{Amount: 1}, ir.Move{Offset: 1}}},
	}); err != nil {
		t.Fatalf("CompileInstructions: %v", err)
	}
	mod, err := c.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if !strings.Contains(mod.String(), "bf_main") {
		t.Error("expected bf_main to survive aggressive optimization")
	}
}
