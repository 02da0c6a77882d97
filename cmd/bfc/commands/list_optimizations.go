package commands

import (
	"fmt"
	"strings"

	"bfc/internal/optimize"
)

// ListOptimizations prints every registered optimization pass name,
// one per line. With -v, the passes run by the "all" selector are
// marked.
func ListOptimizations(f Flags, args []string) error {
	if f.Verbosity == 0 {
		for _, name := range optimize.Names() {
			fmt.Println(name)
		}
		return nil
	}

	defaults := make(map[string]bool, len(optimize.DefaultPassNames))
	for _, n := range optimize.DefaultPassNames {
		defaults[n] = true
	}
	for _, name := range optimize.Names() {
		marker := ""
		if defaults[name] {
			marker = " (default)"
		}
		fmt.Printf("%s%s\n", f.Bold(name), marker)
	}
	fmt.Printf("\nselector syntax: -O none | -O all | -O %s\n", strings.Join(optimize.DefaultPassNames, ","))
	return nil
}
