package ir

import (
	"io"

	"bfc/internal/bferrors"
	"bfc/internal/lexer"
	"bfc/internal/span"
)

// openFrame is one entry of the explicit bracket-matching stack: the
// sequence being built inside the currently-open loop, and the offset
// of the '[' that opened it (used to report an unmatched bracket).
type openFrame struct {
	seq        []Instruction
	bracketPos int
}

// Parse reads a full Brainfuck byte stream from r and recursively
// builds its IR using an explicit stack rather than the call stack,
// so pathologically deep bracket nesting never overflows Go's goroutine
// stack.
func Parse(r io.Reader) ([]Instruction, error) {
	source, err := io.ReadAll(r)
	if err != nil {
		return nil, bferrors.IoErrorf(err, "reading source")
	}
	tokens := lexer.NewScanner(source).ScanTokens()
	return parseTokens(tokens)
}

func parseTokens(tokens []lexer.Token) ([]Instruction, error) {
	stack := []openFrame{{seq: nil}}

	for _, tok := range tokens {
		top := &stack[len(stack)-1]
		switch tok.Type {
		case lexer.TokenAdd:
			top.seq = append(top.seq, Add{Amount: 1, Position: span.At(tok.Offset)})
		case lexer.TokenSub:
			top.seq = append(top.seq, Add{Amount: 255, Position: span.At(tok.Offset)})
		case lexer.TokenMoveRight:
			top.seq = append(top.seq, Move{Offset: 1, Position: span.At(tok.Offset)})
		case lexer.TokenMoveLeft:
			top.seq = append(top.seq, Move{Offset: -1, Position: span.At(tok.Offset)})
		case lexer.TokenInput:
			top.seq = append(top.seq, Input{Position: span.At(tok.Offset)})
		case lexer.TokenOutput:
			top.seq = append(top.seq, Output{Position: span.At(tok.Offset)})
		case lexer.TokenLoopStart:
			stack = append(stack, openFrame{seq: nil, bracketPos: tok.Offset})
		case lexer.TokenLoopEnd:
			if len(stack) == 1 {
				return nil, bferrors.ParseErrorAt(span.At(tok.Offset), "unmatched `]` at offset %d", tok.Offset)
			}
			closed := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			parent := &stack[len(stack)-1]
			loopPos := span.Merge(span.At(closed.bracketPos), span.At(tok.Offset))
			parent.seq = append(parent.seq, Loop{Body: closed.seq, Position: loopPos})
		case lexer.TokenEOF:
			// handled after the loop
		}
	}

	if len(stack) != 1 {
		outermost := stack[1]
		return nil, bferrors.ParseErrorAt(span.At(outermost.bracketPos), "unmatched `[` at offset %d", outermost.bracketPos)
	}
	return stack[0].seq, nil
}
