package commands

import (
	"fmt"
	"os"

	"bfc/internal/ir"
	"bfc/internal/optimize"

	"github.com/dustin/go-humanize"
)

// PrintInstructions parses and optimizes a source file, then prints
// the resulting instruction tree in the indented debug form
// internal/ir's printer produces.
func PrintInstructions(f Flags, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: bfc print-instructions [-O passes] <file>")
	}
	path := args[0]

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err == nil {
		f.Logf(1, "read %s (%s)", path, humanize.Bytes(uint64(info.Size())))
	}

	prog, err := ir.Parse(file)
	if err != nil {
		return err
	}
	f.Logf(1, "parsed %d top-level instructions", len(prog))

	opt, err := optimize.NewOptimizer(f.Passes)
	if err != nil {
		return err
	}
	prog = opt.Run(prog)

	fmt.Println(ir.Print(prog))
	return nil
}
