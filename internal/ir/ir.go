// Package ir defines the Brainfuck intermediate representation: a
// tree of value-typed instruction variants produced by the parser,
// rewritten by optimizer passes, and consumed by the interpreter and
// code generator. Loops own their body slices; every rewrite returns
// a fresh slice rather than mutating one in place, which keeps passes
// composable and equality structurally testable.
package ir

import "bfc/internal/span"

// Instruction is the sum type at the heart of the IR. Add, Move,
// Input, Output and Loop may appear straight out of the parser; Clear
// and Mul are synthesized by optimizer passes and never appear before
// optimization runs.
type Instruction interface {
	Pos() span.Position
	isInstruction()
}

// Add adds amount to the current cell, mod 256. amount is stored as a
// byte so wraparound (e.g. amount=255 for the literal "-") is exact.
type Add struct {
	Amount   byte
	Position span.Position
}

func (a Add) Pos() span.Position { return a.Position }
func (Add) isInstruction()       {}

// Move shifts the data pointer by Offset, which may be negative.
// Bounds checking is never this type's concern: the parser and
// optimizer never reject any Offset, and only the interpreter checks
// it at run time.
type Move struct {
	Offset   int
	Position span.Position
}

func (m Move) Pos() span.Position { return m.Position }
func (Move) isInstruction()       {}

// Input reads one byte into the current cell.
type Input struct {
	Position span.Position
}

func (i Input) Pos() span.Position { return i.Position }
func (Input) isInstruction()       {}

// Output emits the current cell.
type Output struct {
	Position span.Position
}

func (o Output) Pos() span.Position { return o.Position }
func (Output) isInstruction()       {}

// Loop executes Body repeatedly while the current cell is nonzero.
type Loop struct {
	Body     []Instruction
	Position span.Position
}

func (l Loop) Pos() span.Position { return l.Position }
func (Loop) isInstruction()       {}

// Clear zeroes the current cell. Only ever synthesized by a pass;
// counts as "is-a-loop" for dead-code analysis since it is equivalent
// to a trivial loop for reachability purposes.
type Clear struct {
	Position span.Position
}

func (c Clear) Pos() span.Position { return c.Position }
func (Clear) isInstruction()       {}

// Mul adds tape[p]*Amount (mod 256) to tape[p+Offset]. Only ever
// synthesized by the mul-loops pass; Offset is never zero.
type Mul struct {
	Offset   int
	Amount   byte
	Position span.Position
}

func (m Mul) Pos() span.Position { return m.Position }
func (Mul) isInstruction()       {}

// IsLoopLike reports whether inst is Loop, Clear or Mul — the three
// variants dead-code analysis treats as "may or may not execute,
// never a straight-line no-op".
func IsLoopLike(inst Instruction) bool {
	switch inst.(type) {
	case Loop, Clear, Mul:
		return true
	default:
		return false
	}
}

// ClearsCurrentCell reports whether inst, after executing, leaves the
// current cell at zero unconditionally. True for Loop (a loop only
// exits once the cell is zero) and Clear; false for Mul, which leaves
// the pre-iteration value of the current cell untouched.
func ClearsCurrentCell(inst Instruction) bool {
	switch inst.(type) {
	case Loop, Clear:
		return true
	default:
		return false
	}
}
