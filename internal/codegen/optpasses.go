package codegen

// Cleanup passes over the generated module, scoped to its
// single-function, alloca-heavy shape: the `ptr` cell pointer lives
// in an alloca, so store-to-load forwarding within a basic block does
// real work here. Full SSA-construction mem2reg (phi insertion at
// loop headers' dominance frontiers) is out of scope; see DESIGN.md.

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Optimizer applies OptLevel-gated cleanup passes to a finished
// module.
type Optimizer struct {
	level OptLevel
}

func NewOptimizer(level OptLevel) *Optimizer {
	return &Optimizer{level: level}
}

// OptimizeModule mutates mod in place.
func (o *Optimizer) OptimizeModule(mod *ir.Module) {
	if o.level == OptNone {
		return
	}
	for _, fn := range mod.Funcs {
		o.optimizeFunc(fn)
	}
	if o.level >= OptStandard {
		o.removeUnreachableBlocks(mod)
	}
}

func (o *Optimizer) optimizeFunc(fn *ir.Func) {
	if len(fn.Blocks) == 0 {
		return // external declaration
	}
	if o.level >= OptBasic {
		o.localLoadStoreForwarding(fn)
		o.constantFold(fn)
		o.deadInstructionElimination(fn)
	}
	if o.level >= OptStandard {
		o.simplifyCFG(fn)
	}
	if o.level >= OptAggressive {
		o.hoistLoopInvariantStores(fn)
	}
}

// localLoadStoreForwarding replaces a load with the most recently
// stored value to the same pointer within the same basic block,
// leaving cross-block (loop-carried) loads untouched — those would
// need real phi placement to promote safely.
func (o *Optimizer) localLoadStoreForwarding(fn *ir.Func) {
	for _, block := range fn.Blocks {
		lastStore := make(map[value.Value]value.Value)
		for _, inst := range block.Insts {
			switch v := inst.(type) {
			case *ir.InstStore:
				lastStore[v.Dst] = v.Src
			case *ir.InstLoad:
				if forwarded, ok := lastStore[v.Src]; ok {
					o.replaceUses(fn, v, forwarded)
				}
			}
		}
	}
}

// constantFold folds binary integer operations over two constant
// operands, scoped to the operations this generator emits (add, mul).
func (o *Optimizer) constantFold(fn *ir.Func) {
	done := make(map[ir.Instruction]bool)
	changed := true
	for changed {
		changed = false
		for _, block := range fn.Blocks {
			for _, inst := range block.Insts {
				if done[inst] {
					continue
				}
				folded := o.tryFold(inst)
				if folded == nil {
					continue
				}
				if v, ok := inst.(value.Value); ok {
					o.replaceUses(fn, v, folded)
					done[inst] = true
					changed = true
				}
			}
		}
	}
}

func (o *Optimizer) tryFold(inst ir.Instruction) value.Value {
	switch i := inst.(type) {
	case *ir.InstAdd:
		return foldIntBinary(i.X, i.Y, func(a, b int64) int64 { return a + b })
	case *ir.InstMul:
		return foldIntBinary(i.X, i.Y, func(a, b int64) int64 { return a * b })
	}
	return nil
}

func foldIntBinary(x, y value.Value, op func(a, b int64) int64) value.Value {
	cx, okX := x.(*constant.Int)
	cy, okY := y.(*constant.Int)
	if !okX || !okY {
		return nil
	}
	result := op(cx.X.Int64(), cy.X.Int64())
	return constant.NewInt(cx.Type().(*types.IntType), result)
}

// deadInstructionElimination drops instructions with no observable
// effect and no remaining uses: pure value computations (load, add,
// mul, gep, trunc, sext) whose result nothing references. Calls,
// stores and terminators always survive — they are this function's
// only sources of observable behavior (I/O, memory writes, control
// flow).
func (o *Optimizer) deadInstructionElimination(fn *ir.Func) {
	for _, block := range fn.Blocks {
		kept := make([]ir.Instruction, 0, len(block.Insts))
		for _, inst := range block.Insts {
			if o.hasSideEffects(inst) || o.isUsed(inst, fn) {
				kept = append(kept, inst)
			}
		}
		block.Insts = kept
	}
}

func (o *Optimizer) hasSideEffects(inst ir.Instruction) bool {
	switch inst.(type) {
	case *ir.InstStore, *ir.InstCall, *ir.InstAlloca:
		return true
	default:
		return false
	}
}

func (o *Optimizer) isUsed(inst ir.Instruction, fn *ir.Func) bool {
	v, ok := inst.(value.Value)
	if !ok {
		return true
	}
	for _, block := range fn.Blocks {
		for _, other := range block.Insts {
			if other == inst {
				continue
			}
			for _, operand := range other.Operands() {
				if *operand == v {
					return true
				}
			}
		}
		if block.Term != nil {
			for _, operand := range block.Term.Operands() {
				if *operand == v {
					return true
				}
			}
		}
	}
	return false
}

// replaceUses rewrites every operand across fn that points at oldVal
// to point at newVal instead.
func (o *Optimizer) replaceUses(fn *ir.Func, oldVal, newVal value.Value) {
	for _, block := range fn.Blocks {
		for _, inst := range block.Insts {
			for _, operand := range inst.Operands() {
				if *operand == oldVal {
					*operand = newVal
				}
			}
		}
		if block.Term != nil {
			for _, operand := range block.Term.Operands() {
				if *operand == oldVal {
					*operand = newVal
				}
			}
		}
	}
}

// simplifyCFG merges a block into its unique predecessor when that
// predecessor unconditionally branches to it and nothing else targets
// it.
func (o *Optimizer) simplifyCFG(fn *ir.Func) {
	changed := true
	for changed {
		changed = false
		for i := 0; i < len(fn.Blocks)-1; i++ {
			block := fn.Blocks[i]
			next := fn.Blocks[i+1]
			br, ok := block.Term.(*ir.TermBr)
			if !ok || br.Target != next {
				continue
			}
			if o.predecessorCount(next, fn) != 1 {
				continue
			}
			block.Insts = append(block.Insts, next.Insts...)
			block.Term = next.Term
			fn.Blocks = append(fn.Blocks[:i+1], fn.Blocks[i+2:]...)
			changed = true
			break
		}
	}
}

func (o *Optimizer) predecessorCount(target *ir.Block, fn *ir.Func) int {
	count := 0
	for _, block := range fn.Blocks {
		if block.Term == nil {
			continue
		}
		for _, succ := range block.Term.Succs() {
			if succ == target {
				count++
			}
		}
	}
	return count
}

// hoistLoopInvariantStores is a conservative no-op. Brainfuck loops
// always re-derive their condition from memory the body can mutate,
// so there is rarely genuine loop-invariant code to hoist, and doing
// it safely needs dominance analysis this module shape doesn't carry.
func (o *Optimizer) hoistLoopInvariantStores(fn *ir.Func) {
	_ = fn
}

// removeUnreachableBlocks drops blocks no terminator can reach from
// the entry block.
func (o *Optimizer) removeUnreachableBlocks(mod *ir.Module) {
	for _, fn := range mod.Funcs {
		if len(fn.Blocks) == 0 {
			continue
		}
		reachable := map[*ir.Block]bool{}
		var mark func(b *ir.Block)
		mark = func(b *ir.Block) {
			if reachable[b] {
				return
			}
			reachable[b] = true
			if b.Term == nil {
				return
			}
			for _, succ := range b.Term.Succs() {
				mark(succ)
			}
		}
		mark(fn.Blocks[0])

		kept := make([]*ir.Block, 0, len(fn.Blocks))
		for _, b := range fn.Blocks {
			if reachable[b] {
				kept = append(kept, b)
			}
		}
		fn.Blocks = kept
	}
}
