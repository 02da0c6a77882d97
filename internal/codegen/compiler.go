package codegen

import (
	"fmt"

	bfir "bfc/internal/ir"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Compiler builds a *ir.Module one instruction sequence at a time.
// CompileInstructions may be called more than once on the same
// Compiler; each call extends the current procedure with lowered code
// for its argument. Finish appends the epilogue and returns the
// compiled program.
type Compiler struct {
	opts Options

	mod *ir.Module
	fn  *ir.Func
	cur *ir.Block

	ptrSlot  value.Value // alloca of i8*, the current cell pointer
	tapeBase value.Value // the calloc'd i8* returned in the prologue

	calloc  *ir.Func
	free    *ir.Func
	getchar value.Value // *ir.Func (external) or local trampoline
	putchar value.Value

	blockSeq int
	ctx      *trampolineContext // non-nil only when opts.Redirected
	finished bool
}

// NewCompiler builds a fresh module, declares the external libc
// helpers it needs (calloc/free and, unless streams are redirected,
// getchar/putchar), and emits the procedure's prologue: a
// zero-initialized tape of TapeSize bytes from calloc, paired with
// free in the epilogue, and a stack slot holding the current cell
// pointer.
func NewCompiler(opts Options) *Compiler {
	mod := ir.NewModule()

	c := &Compiler{opts: opts, mod: mod}

	c.calloc = mod.NewFunc("calloc", types.I8Ptr,
		ir.NewParam("nmemb", types.I64),
		ir.NewParam("size", types.I64))
	c.free = mod.NewFunc("free", types.Void, ir.NewParam("ptr", types.I8Ptr))

	if opts.Redirected {
		c.ctx = newTrampolineContext()
		c.getchar, c.putchar = emitTrampolines(mod, c.ctx)
	} else {
		c.getchar = mod.NewFunc("getchar", types.I32)
		c.putchar = mod.NewFunc("putchar", types.I32, ir.NewParam("c", types.I32))
	}

	c.fn = mod.NewFunc("bf_main", types.I32)
	entry := c.fn.NewBlock("entry")

	c.tapeBase = entry.NewCall(c.calloc, constant.NewInt(types.I64, TapeSize), constant.NewInt(types.I64, 1))
	c.ptrSlot = entry.NewAlloca(types.I8Ptr)
	entry.NewStore(c.tapeBase, c.ptrSlot)

	c.cur = entry
	return c
}

// Module exposes the module under construction, e.g. for
// --print-llvm-ir before the program has finished compiling.
func (c *Compiler) Module() *ir.Module { return c.mod }

// CompileInstructions lowers prog, extending the procedure currently
// under construction.
func (c *Compiler) CompileInstructions(prog []bfir.Instruction) error {
	if c.finished {
		return fmt.Errorf("codegen: CompileInstructions called after Finish")
	}
	for _, inst := range prog {
		c.lower(inst)
	}
	return nil
}

func (c *Compiler) lower(inst bfir.Instruction) {
	switch v := inst.(type) {
	case bfir.Add:
		ptr := c.loadPtr()
		cell := c.cur.NewLoad(types.I8, ptr)
		sum := c.cur.NewAdd(cell, constant.NewInt(types.I8, int64(v.Amount)))
		c.cur.NewStore(sum, ptr)

	case bfir.Move:
		c.lowerMove(v.Offset)

	case bfir.Input:
		word := c.cur.NewCall(c.getchar)
		truncated := c.cur.NewTrunc(word, types.I8)
		ptr := c.loadPtr()
		c.cur.NewStore(truncated, ptr)

	case bfir.Output:
		ptr := c.loadPtr()
		cell := c.cur.NewLoad(types.I8, ptr)
		widened := c.cur.NewSExt(cell, types.I32)
		c.cur.NewCall(c.putchar, widened)

	case bfir.Loop:
		c.lowerLoop(v)

	case bfir.Clear:
		ptr := c.loadPtr()
		c.cur.NewStore(constant.NewInt(types.I8, 0), ptr)

	case bfir.Mul:
		ptr := c.loadPtr()
		cell := c.cur.NewLoad(types.I8, ptr)
		target := c.cur.NewGetElementPtr(types.I8, ptr, constant.NewInt(types.I64, int64(v.Offset)))
		targetVal := c.cur.NewLoad(types.I8, target)
		product := c.cur.NewMul(cell, constant.NewInt(types.I8, int64(v.Amount)))
		sum := c.cur.NewAdd(targetVal, product)
		c.cur.NewStore(sum, target)
	}
}

func (c *Compiler) loadPtr() value.Value {
	return c.cur.NewLoad(types.I8Ptr, c.ptrSlot)
}

// lowerMove: by default (BoundsChecked=false) pointer arithmetic is
// unchecked, a deliberate native-level UB tradeoff; when
// BoundsChecked is set it reproduces the interpreter's guard using an
// abort() call, since the generated procedure has no error-return
// channel at the point a Move executes.
func (c *Compiler) lowerMove(offset int) {
	ptr := c.loadPtr()
	moved := c.cur.NewGetElementPtr(types.I8, ptr, constant.NewInt(types.I64, int64(offset)))

	if !c.opts.BoundsChecked {
		c.cur.NewStore(moved, c.ptrSlot)
		return
	}

	abortFn := c.abortFunc()
	lowBound := c.cur.NewPtrToInt(c.tapeBase, types.I64)
	highBound := c.cur.NewAdd(lowBound, constant.NewInt(types.I64, TapeSize))
	movedInt := c.cur.NewPtrToInt(moved, types.I64)

	okLow := c.cur.NewICmp(enum.IPredUGE, movedInt, lowBound)
	okHigh := c.cur.NewICmp(enum.IPredULT, movedInt, highBound)
	inBounds := c.cur.NewAnd(okLow, okHigh)

	okBlk := c.fn.NewBlock(c.nextBlockName("move_ok"))
	trapBlk := c.fn.NewBlock(c.nextBlockName("move_trap"))
	c.cur.NewCondBr(inBounds, okBlk, trapBlk)

	trapBlk.NewCall(abortFn)
	trapBlk.NewUnreachable()

	okBlk.NewStore(moved, c.ptrSlot)
	c.cur = okBlk
}

func (c *Compiler) abortFunc() *ir.Func {
	for _, fn := range c.mod.Funcs {
		if fn.GlobalName == "abort" {
			return fn
		}
	}
	return c.mod.NewFunc("abort", types.Void)
}

func (c *Compiler) lowerLoop(l bfir.Loop) {
	guard := c.fn.NewBlock(c.nextBlockName("loop_guard"))
	body := c.fn.NewBlock(c.nextBlockName("loop_body"))
	end := c.fn.NewBlock(c.nextBlockName("loop_end"))

	c.cur.NewBr(guard)

	ptr := guard.NewLoad(types.I8Ptr, c.ptrSlot)
	cell := guard.NewLoad(types.I8, ptr)
	cond := guard.NewICmp(enum.IPredNE, cell, constant.NewInt(types.I8, 0))
	guard.NewCondBr(cond, body, end)

	c.cur = body
	for _, inst := range l.Body {
		c.lower(inst)
	}
	c.cur.NewBr(guard)

	c.cur = end
}

func (c *Compiler) nextBlockName(prefix string) string {
	c.blockSeq++
	return fmt.Sprintf("%s%d", prefix, c.blockSeq)
}

// Finish appends the epilogue (free the tape, return zero) and
// returns the finished module. After Finish, CompileInstructions must
// not be called again.
func (c *Compiler) Finish() (*ir.Module, error) {
	if c.finished {
		return nil, fmt.Errorf("codegen: Finish called twice")
	}
	c.cur.NewCall(c.free, c.tapeBase)
	c.cur.NewRet(constant.NewInt(types.I32, 0))
	c.finished = true

	if c.opts.OptLevel != OptNone {
		NewOptimizer(c.opts.OptLevel).OptimizeModule(c.mod)
	}
	return c.mod, nil
}
