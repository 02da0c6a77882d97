// cmd/bfc/main.go
package main

import (
	"fmt"
	"log"
	"os"

	"bfc/cmd/bfc/commands"
)

const version = "0.1.0"

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		showUsage()
		os.Exit(1)
	}

	cmd := args[0]
	if cmd == "--help" || cmd == "-h" || cmd == "help" {
		showUsage()
		return
	}
	if cmd == "--version" || cmd == "-version" || cmd == "version" {
		fmt.Println("bfc", version)
		return
	}

	flags, rest := commands.ParseCommon(args[1:])

	var err error
	switch cmd {
	case "list-optimizations":
		err = commands.ListOptimizations(flags, rest)
	case "print-instructions":
		err = commands.PrintInstructions(flags, rest)
	case "exec":
		err = commands.Exec(flags, rest)
	case "compile":
		err = commands.Compile(flags, rest)
	default:
		showUsage()
		os.Exit(1)
	}

	if err != nil {
		log.Fatalf("bfc: %v", err)
	}
}

func showUsage() {
	fmt.Println(`bfc - optimizing Brainfuck toolchain

usage:
  bfc list-optimizations
  bfc print-instructions [-O passes] <file>
  bfc exec [-O passes] [--jit [--llvm-opt N] [--print-llvm-ir]] [--print-tape] <file>
  bfc compile [-O passes] -o <out> [--obj] [--llvm-opt N] [--print-llvm-ir] <file>

global flags:
  -v            increase verbosity (repeatable)
  -O <passes>   optimization selector: none | all | comma-separated pass names`)
}
