// Package codegen lowers the optimized IR to a single native-style
// procedure, expressed as LLVM IR via github.com/llir/llvm, and runs
// it either by materializing an in-process engine (JIT) or by writing
// an object file / linked executable to disk.
package codegen

// TapeSize is the fixed tape size the generator uses, unconditionally
// — unlike the interpreter, which accepts a configurable size.
const TapeSize = 30000

// OptLevel selects how aggressively the IR-level optimizer in
// optpasses.go cleans up the generated LLVM module before it is
// printed or emitted. llir/llvm ships no optimization passes of its
// own (it is an IR construction and textual-IR library, not a pass
// manager), so these are implemented in this package instead of
// shelled out to LLVM's `opt`.
type OptLevel int

const (
	OptNone OptLevel = iota
	OptBasic
	OptStandard
	OptAggressive
)

// Options configures a Compiler.
type Options struct {
	// OptLevel controls the post-lowering LLVM-IR cleanup pass ladder.
	OptLevel OptLevel

	// BoundsChecked, when true, emits the same underflow/overflow
	// guards around Move that the interpreter enforces at run time.
	// Default false: compiled pointer movement is unchecked, and
	// out-of-bounds movement is native-level undefined behavior.
	BoundsChecked bool

	// Redirected marks that the caller supplied custom input/output
	// streams rather than OS stdio. When true, getchar/putchar are
	// emitted as local trampolines instead of external libc
	// declarations, and SaveObject/SaveExecutable are refused.
	Redirected bool
}
