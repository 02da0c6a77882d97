package codegen

import (
	"fmt"
	"io"

	bfir "bfc/internal/ir"

	"bfc/internal/buildutil"

	"github.com/llir/llvm/ir"
)

// CompiledProgram is the result of compiling an instruction sequence:
// the LLVM module (for printing or disk emission) alongside a
// lazily-materialized native closure chain for in-process execution.
// A single CompiledProgram may run any number of times; each Run
// starts from a fresh, zero-initialized tape.
type CompiledProgram struct {
	prog   []bfir.Instruction
	opts   Options
	module *ir.Module
	native *NativeProgram

	// ctx is non-nil exactly when the program was compiled with
	// redirected streams. This handle is the only long-lived reference
	// to the context record whose address the emitted trampolines
	// embed, so it must stay reachable for as long as the engine can
	// run — dropping it while the engine is live would be unsound.
	ctx *trampolineContext
}

// Compile lowers prog into both representations' inputs. The LLVM
// module is built eagerly (it is needed for --print-llvm-ir
// regardless of execution mode); the native closure chain is built
// lazily on first Run, since disk-only callers never need it.
func Compile(prog []bfir.Instruction, opts Options) (*CompiledProgram, error) {
	c := NewCompiler(opts)
	if err := c.CompileInstructions(prog); err != nil {
		return nil, err
	}
	mod, err := c.Finish()
	if err != nil {
		return nil, err
	}
	return &CompiledProgram{
		prog:   prog,
		opts:   opts,
		module: mod,
		ctx:    c.ctx,
	}, nil
}

// PrintLLVMIR returns the textual LLVM IR for the compiled module,
// backing `--print-llvm-ir`.
func (p *CompiledProgram) PrintLLVMIR() string {
	return p.module.String()
}

// Run executes the program in-process against a fresh tape of
// TapeSize cells, reading Input from in and writing Output to out.
// The first call materializes the native closure chain; subsequent
// calls reuse it. Redirected programs route both streams through the
// trampoline context record, the same dispatch path the emitted
// getchar/putchar trampolines encode.
func (p *CompiledProgram) Run(in io.Reader, out io.Writer) {
	if p.native == nil {
		p.native = CompileNative(p.prog)
	}
	if p.ctx != nil {
		p.ctx.In, p.ctx.Out = in, out
		in, out = readerFunc(p.ctx), writerFunc(p.ctx)
	}
	p.native.Run(TapeSize, in, out, p.opts.BoundsChecked)
}

// readerFunc adapts the context record's input stream through the
// getchar thunk, so every Input in a redirected run takes the same
// callback path a loaded trampoline would.
func readerFunc(ctx *trampolineContext) io.Reader {
	return thunkReader{ctx: ctx}
}

// writerFunc is the Output-side counterpart of readerFunc.
func writerFunc(ctx *trampolineContext) io.Writer {
	return thunkWriter{ctx: ctx}
}

type thunkReader struct{ ctx *trampolineContext }

func (r thunkReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	word := getcharThunk(r.ctx)
	if word < 0 {
		return 0, io.EOF
	}
	p[0] = byte(word)
	return 1, nil
}

type thunkWriter struct{ ctx *trampolineContext }

func (w thunkWriter) Write(p []byte) (int, error) {
	for _, b := range p {
		putcharThunk(w.ctx, int64(b))
	}
	return len(p), nil
}

// SaveObject writes a relocatable object file to path using the
// configured external toolchain, alongside a build manifest. Refused
// when the program was compiled with redirected I/O streams: the
// trampolines embed in-process addresses that are meaningless in an
// on-disk artifact, so saving one would silently discard the
// caller's intended stream redirection.
func (p *CompiledProgram) SaveObject(tc buildutil.Toolchain, path string, sourceBytes int, sourcePath string) error {
	return p.save(tc, path, true, sourceBytes, sourcePath)
}

// SaveExecutable links a standalone executable at path. Same
// redirected-stream restriction as SaveObject.
func (p *CompiledProgram) SaveExecutable(tc buildutil.Toolchain, path string, sourceBytes int, sourcePath string) error {
	return p.save(tc, path, false, sourceBytes, sourcePath)
}

func (p *CompiledProgram) save(tc buildutil.Toolchain, path string, objectOnly bool, sourceBytes int, sourcePath string) error {
	if p.ctx != nil {
		return fmt.Errorf("codegen: cannot save to disk a program compiled with redirected streams")
	}

	llvmIR := p.module.String()
	var err error
	if objectOnly {
		err = tc.AssembleObject(llvmIR, path)
	} else {
		err = tc.LinkExecutable(llvmIR, path)
	}
	if err != nil {
		return err
	}

	return buildutil.WriteManifest(buildutil.Manifest{
		SourcePath:  sourcePath,
		OutputPath:  path,
		ObjectOnly:  objectOnly,
		OptLevel:    int(p.opts.OptLevel),
		Toolchain:   tc.CCPath,
		SourceBytes: sourceBytes,
	})
}
