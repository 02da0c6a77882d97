package optimize

import (
	"strings"
	"testing"

	"bfc/internal/ir"
)

func BenchmarkOptimizeAll(b *testing.B) {
	const source = `++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++.`
	prog, err := ir.Parse(strings.NewReader(source))
	if err != nil {
		b.Fatalf("Parse: %v", err)
	}

	opt, err := NewOptimizer("all")
	if err != nil {
		b.Fatalf("NewOptimizer: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		opt.Run(prog)
	}
}

func BenchmarkMulLoopsPass(b *testing.B) {
	const source = "+++++[->+++>++++<<]"
	prog, err := ir.Parse(strings.NewReader(source))
	if err != nil {
		b.Fatalf("Parse: %v", err)
	}

	pass := mulLoopsPass{}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pass.Run(prog)
	}
}
