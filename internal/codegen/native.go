package codegen

// The JIT execution path: materialize the program once, re-run it
// against a fresh tape per invocation, with pointer arithmetic left
// unchecked — the same native-level UB the compiled-to-disk path
// gets from emitting raw GEP instructions in compiler.go.
//
// llir/llvm is IR construction only (see the package doc in
// options.go); it ships no in-process execution engine, and binding
// LLVM's ORC/MCJIT would drag cgo into an otherwise pure-Go module.
// This engine instead lowers the instruction sequence once into a
// chain of Go closures over an unsafe.Pointer-addressed tape, which
// preserves the observable contract: unchecked native-style pointer
// motion over a raw buffer. See DESIGN.md for the full rationale.
import (
	"io"
	"unsafe"

	bfir "bfc/internal/ir"
)

// nativeOp is one compiled step of the closure chain. It receives the
// running execution state and returns normally; out-of-bounds Move is
// intentionally not guarded here (see moveBy) to match the unchecked
// GEP lowering compiler.go emits when BoundsChecked is false.
type nativeOp func(x *execState)

// execState is the tape plus cursor a compiled program runs against.
// base/end bound the underlying allocation only so bounds-checked
// builds can validate against it; the unchecked path never consults
// them.
type execState struct {
	base    unsafe.Pointer
	end     uintptr
	ptr     unsafe.Pointer
	in      io.Reader
	out     io.Writer
	checked bool
}

// NativeProgram is a JIT-compiled procedure: a flat chain of closures
// produced once from an instruction sequence and safe to invoke
// repeatedly, each time against a fresh tape.
type NativeProgram struct {
	ops []nativeOp
}

// CompileNative lowers prog into a NativeProgram. Unlike Compiler
// (which builds LLVM IR for printing or disk emission), this lowering
// produces directly callable Go closures: there is no module to print
// and no external toolchain involved.
func CompileNative(prog []bfir.Instruction) *NativeProgram {
	return &NativeProgram{ops: compileSeq(prog)}
}

// Run executes the compiled program against a fresh, zero-initialized
// tape of size cells. Each call gets its own tape and starts the
// pointer at offset 0, so a NativeProgram may be invoked more than
// once, e.g. across repeated benchmark iterations.
func (p *NativeProgram) Run(size int, in io.Reader, out io.Writer, boundsChecked bool) {
	tape := make([]byte, size)
	base := unsafe.Pointer(&tape[0])
	x := &execState{
		base:    base,
		end:     uintptr(size),
		ptr:     base,
		in:      in,
		out:     out,
		checked: boundsChecked,
	}
	for _, op := range p.ops {
		op(x)
	}
}

func compileSeq(seq []bfir.Instruction) []nativeOp {
	ops := make([]nativeOp, 0, len(seq))
	for _, inst := range seq {
		ops = append(ops, compileOne(inst))
	}
	return ops
}

func compileOne(inst bfir.Instruction) nativeOp {
	switch v := inst.(type) {
	case bfir.Add:
		amount := v.Amount
		return func(x *execState) {
			cell := (*byte)(x.ptr)
			*cell += amount
		}

	case bfir.Move:
		offset := v.Offset
		return func(x *execState) { x.ptr = moveBy(x, offset) }

	case bfir.Input:
		return func(x *execState) {
			if x.in == nil {
				*(*byte)(x.ptr) = 0
				return
			}
			var buf [1]byte
			if _, err := io.ReadFull(x.in, buf[:]); err != nil {
				// Low 8 bits of getchar's -1 sentinel on EOF/error.
				*(*byte)(x.ptr) = 0xff
				return
			}
			*(*byte)(x.ptr) = buf[0]
		}

	case bfir.Output:
		return func(x *execState) {
			if x.out == nil {
				return
			}
			_, _ = x.out.Write([]byte{*(*byte)(x.ptr)})
		}

	case bfir.Clear:
		return func(x *execState) { *(*byte)(x.ptr) = 0 }

	case bfir.Mul:
		offset, amount := v.Offset, v.Amount
		return func(x *execState) {
			cell := *(*byte)(x.ptr)
			if cell == 0 {
				return
			}
			target := moveBy(x, offset)
			tcell := (*byte)(target)
			*tcell += cell * amount
		}

	case bfir.Loop:
		body := compileSeq(v.Body)
		return func(x *execState) {
			for *(*byte)(x.ptr) != 0 {
				for _, op := range body {
					op(x)
				}
			}
		}
	}
	panic("codegen: unhandled instruction in native lowering")
}

// moveBy advances ptr by offset bytes. Unchecked builds perform raw
// pointer arithmetic with no bounds test at all — an out-of-bounds
// offset walks off the allocation exactly as the unguarded GEP in
// compiler.go's lowerMove does, and subsequent reads/writes are
// memory-unsafe. Checked builds panic instead of guarding with an
// error return, since nativeOp has no error channel; callers wanting
// the interpreter's typed TapeUnderflow/TapeOverflow should run
// against interp.Interpreter instead.
func moveBy(x *execState, offset int) unsafe.Pointer {
	next := uintptr(x.ptr) - uintptr(x.base) + uintptr(offset)
	if x.checked {
		if offset < 0 && uintptr(x.ptr)-uintptr(x.base) < uintptr(-offset) {
			panic("codegen: tape underflow")
		}
		if next >= x.end {
			panic("codegen: tape overflow")
		}
	}
	return unsafe.Pointer(uintptr(x.base) + next)
}
