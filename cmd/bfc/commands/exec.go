package commands

import (
	"fmt"
	"os"
	"strings"

	"bfc/internal/codegen"
	"bfc/internal/interp"
	"bfc/internal/ir"
	"bfc/internal/optimize"

	"github.com/dustin/go-humanize"
)

// Exec parses, optimizes and runs a source file, either on the byte-tape
// interpreter (default) or through the native code generator
// (--jit). --print-tape dumps the final tape state to stderr after
// the run; --llvm-opt and --print-llvm-ir only apply under --jit.
func Exec(f Flags, args []string) error {
	useJIT, args := hasFlag(args, "--jit")
	printTape, args := hasFlag(args, "--print-tape")
	printIR, args := hasFlag(args, "--print-llvm-ir")
	optLevel, args := parseIntFlag(args, "--llvm-opt", int(codegen.OptBasic))

	if len(args) == 0 {
		return fmt.Errorf("usage: bfc exec [-O passes] [--jit [--llvm-opt N] [--print-llvm-ir]] [--print-tape] <file>")
	}
	if useJIT && printTape {
		return fmt.Errorf("bfc exec: --print-tape cannot be combined with --jit (the native tape is not retained after the run)")
	}
	path := args[0]

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	prog, err := ir.Parse(file)
	if err != nil {
		return err
	}

	opt, err := optimize.NewOptimizer(f.Passes)
	if err != nil {
		return err
	}
	prog = opt.Run(prog)
	f.Logf(1, "running %s with %d top-level instructions", path, len(prog))

	if useJIT {
		return execJIT(f, prog, optLevel, printIR)
	}
	return execInterp(f, prog, printTape)
}

func execInterp(f Flags, prog []ir.Instruction, printTape bool) error {
	it, err := interp.New(interp.DefaultTapeSize)
	if err != nil {
		return err
	}
	it.SetInput(os.Stdin)
	it.SetOutput(os.Stdout)

	if err := it.Run(prog); err != nil {
		return err
	}

	if printTape {
		dumpTape(f, it.Tape(), it.Pointer())
	}
	return nil
}

func execJIT(f Flags, prog []ir.Instruction, optLevel int, printIR bool) error {
	opts := codegen.Options{OptLevel: codegen.OptLevel(optLevel)}
	compiled, err := codegen.Compile(prog, opts)
	if err != nil {
		return err
	}

	if printIR {
		fmt.Println(compiled.PrintLLVMIR())
	}

	compiled.Run(os.Stdin, os.Stdout)
	return nil
}

// dumpTape prints the full tape in hex, one row of cells per line,
// with parentheses marking the current cell.
func dumpTape(f Flags, tape []byte, pointer int) {
	const perLine = 16
	var sb strings.Builder
	for i, b := range tape {
		if i == pointer {
			fmt.Fprintf(&sb, "(%02x)", b)
		} else {
			fmt.Fprintf(&sb, " %02x ", b)
		}
		if (i+1)%perLine == 0 || i == len(tape)-1 {
			fmt.Fprintln(os.Stderr, sb.String())
			sb.Reset()
		}
	}
	f.Logf(1, "tape: %s cells, pointer at %d", humanize.Comma(int64(len(tape))), pointer)
}
