package commands

import (
	"fmt"
	"os"

	"bfc/internal/buildutil"
	"bfc/internal/codegen"
	"bfc/internal/ir"
	"bfc/internal/optimize"
)

// Compile parses, optimizes and lowers a source file to LLVM IR, then
// hands it to the external toolchain to produce an object file
// (--obj) or a linked executable (the default).
func Compile(f Flags, args []string) error {
	objectOnly, args := hasFlag(args, "--obj")
	printIR, args := hasFlag(args, "--print-llvm-ir")
	optLevel, args := parseIntFlag(args, "--llvm-opt", int(codegen.OptBasic))
	output, args := stringFlag(args, "-o")

	if len(args) == 0 {
		return fmt.Errorf("usage: bfc compile [-O passes] -o <out> [--obj] [--llvm-opt N] [--print-llvm-ir] <file>")
	}
	path := args[0]
	if output == "" {
		return fmt.Errorf("bfc compile: -o <out> is required")
	}

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	info, statErr := file.Stat()
	var sourceBytes int
	if statErr == nil {
		sourceBytes = int(info.Size())
	}

	prog, err := ir.Parse(file)
	if err != nil {
		return err
	}

	opt, err := optimize.NewOptimizer(f.Passes)
	if err != nil {
		return err
	}
	prog = opt.Run(prog)

	compiled, err := codegen.Compile(prog, codegen.Options{OptLevel: codegen.OptLevel(optLevel)})
	if err != nil {
		return err
	}

	if printIR {
		fmt.Println(compiled.PrintLLVMIR())
	}

	tc := buildutil.DefaultToolchain()
	f.Logf(1, "invoking %s to produce %s", tc.CCPath, output)

	if objectOnly {
		if err := compiled.SaveObject(tc, output, sourceBytes, path); err != nil {
			return err
		}
	} else {
		if err := compiled.SaveExecutable(tc, output, sourceBytes, path); err != nil {
			return err
		}
	}

	fmt.Printf("wrote %s\n", f.Bold(output))
	return nil
}
