package codegen

import (
	"io"
	"reflect"
	"unsafe"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// trampolineContext is the context record a redirected-I/O program
// dispatches through: it owns the caller's two streams for as long as
// the engine lives. The owning CompiledProgram holds the only
// long-lived reference, which keeps the record at a stable heap
// address for the engine's entire lifetime — the invariant the
// emitted trampolines depend on, since they embed its raw address as
// an integer constant the collector cannot see.
type trampolineContext struct {
	In  io.Reader
	Out io.Writer
}

func newTrampolineContext() *trampolineContext {
	return &trampolineContext{}
}

// getcharThunk reads one byte from the context's input stream,
// returning -1 on EOF or error — the same sentinel libc getchar uses.
func getcharThunk(ctx *trampolineContext) int64 {
	if ctx.In == nil {
		return -1
	}
	var buf [1]byte
	if _, err := io.ReadFull(ctx.In, buf[:]); err != nil {
		return -1
	}
	return int64(buf[0])
}

// putcharThunk writes the low 8 bits of c to the context's output
// stream and returns the byte written, matching libc putchar.
func putcharThunk(ctx *trampolineContext, c int64) int64 {
	b := byte(c)
	if ctx.Out != nil {
		_, _ = ctx.Out.Write([]byte{b})
	}
	return int64(b)
}

// emitTrampolines builds local "getchar"/"putchar" definitions whose
// bodies encode the raw address of a host callback and the raw
// address of the context record as inttoptr'd integer constants, then
// call through the callback with the context as its first argument —
// so the generated code still calls symbols named getchar/putchar,
// but those names resolve to the caller's streams rather than libc.
func emitTrampolines(mod *ir.Module, ctx *trampolineContext) (getchar, putchar value.Value) {
	getcharAddr := int64(reflect.ValueOf(getcharThunk).Pointer())
	putcharAddr := int64(reflect.ValueOf(putcharThunk).Pointer())
	ctxAddr := int64(uintptr(unsafe.Pointer(ctx)))

	getcharCallback := constant.NewIntToPtr(
		constant.NewInt(types.I64, getcharAddr),
		types.NewPointer(types.NewFunc(types.I64, types.I8Ptr)))
	putcharCallback := constant.NewIntToPtr(
		constant.NewInt(types.I64, putcharAddr),
		types.NewPointer(types.NewFunc(types.I64, types.I8Ptr, types.I64)))
	ctxPtr := constant.NewIntToPtr(constant.NewInt(types.I64, ctxAddr), types.I8Ptr)

	getcharFn := mod.NewFunc("getchar", types.I32)
	gcBlock := getcharFn.NewBlock("entry")
	gcResult := gcBlock.NewCall(getcharCallback, ctxPtr)
	gcBlock.NewRet(gcBlock.NewTrunc(gcResult, types.I32))

	putcharFn := mod.NewFunc("putchar", types.I32, ir.NewParam("c", types.I32))
	pcBlock := putcharFn.NewBlock("entry")
	widened := pcBlock.NewSExt(putcharFn.Params[0], types.I64)
	pcResult := pcBlock.NewCall(putcharCallback, ctxPtr, widened)
	pcBlock.NewRet(pcBlock.NewTrunc(pcResult, types.I32))

	return getcharFn, putcharFn
}
