// Package commands implements bfc's subcommands: print-instructions,
// list-optimizations, exec and compile. Each command takes the
// subcommand's own argument slice (args[1:] from main.go) and parses
// its own flags.
package commands

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
)

// Flags holds the options common to every bfc subcommand that runs a
// program: verbosity, the optimization pass selector, and whether
// color output is available.
type Flags struct {
	Verbosity int
	Passes    string // raw -O argument, defaulted to "all"
	Color     bool
}

// ParseCommon consumes recognized global flags (-v, -O) from args and
// returns the remaining, command-specific arguments alongside the
// parsed Flags. -v may repeat (-v -v -v) to raise verbosity.
func ParseCommon(args []string) (Flags, []string) {
	f := Flags{Passes: "all", Color: isatty.IsTerminal(os.Stdout.Fd())}
	rest := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "-v" || args[i] == "--verbose":
			f.Verbosity++
		case args[i] == "-O" && i+1 < len(args):
			f.Passes = args[i+1]
			i++
		case strings.HasPrefix(args[i], "-O="):
			f.Passes = strings.TrimPrefix(args[i], "-O=")
		default:
			rest = append(rest, args[i])
		}
	}
	return f, rest
}

// Logf prints a verbose-gated diagnostic to stderr.
func (f Flags) Logf(level int, format string, args ...interface{}) {
	if f.Verbosity >= level {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

// Bold wraps s in an ANSI bold escape when color output is available,
// and returns it unchanged otherwise — the only place this CLI
// branches on isatty.
func (f Flags) Bold(s string) string {
	if !f.Color {
		return s
	}
	return "\x1b[1m" + s + "\x1b[0m"
}

// parseIntFlag extracts an integer-valued flag like --llvm-opt 2 from
// args, returning its value and the args with both tokens removed.
func parseIntFlag(args []string, name string, def int) (int, []string) {
	rest := make([]string, 0, len(args))
	value := def
	for i := 0; i < len(args); i++ {
		if args[i] == name && i+1 < len(args) {
			if n, err := strconv.Atoi(args[i+1]); err == nil {
				value = n
			}
			i++
			continue
		}
		rest = append(rest, args[i])
	}
	return value, rest
}

// hasFlag reports whether a boolean flag is present in args and
// returns args with it removed.
func hasFlag(args []string, name string) (bool, []string) {
	rest := make([]string, 0, len(args))
	found := false
	for _, a := range args {
		if a == name {
			found = true
			continue
		}
		rest = append(rest, a)
	}
	return found, rest
}

// stringFlag extracts a string-valued flag like -o out.bin from args.
func stringFlag(args []string, name string) (string, []string) {
	rest := make([]string, 0, len(args))
	value := ""
	for i := 0; i < len(args); i++ {
		if args[i] == name && i+1 < len(args) {
			value = args[i+1]
			i++
			continue
		}
		rest = append(rest, args[i])
	}
	return value, rest
}
