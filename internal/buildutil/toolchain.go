package buildutil

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Toolchain is the external C compiler used to turn textual LLVM IR
// into an object file or a linked executable. llir/llvm only
// constructs and prints IR (see codegen's package doc); everything
// past that textual form is handed to a real system toolchain.
type Toolchain struct {
	// CCPath is the compiler binary invoked to assemble/link, e.g.
	// "clang" or "cc". Resolved via exec.LookPath if not absolute.
	CCPath string
}

// DefaultToolchain resolves the toolchain from the CC environment
// variable, falling back to "clang".
func DefaultToolchain() Toolchain {
	if cc := os.Getenv("CC"); cc != "" {
		return Toolchain{CCPath: cc}
	}
	return Toolchain{CCPath: "clang"}
}

// tempIRPath allocates a collision-free scratch path for the textual
// LLVM IR module under os.TempDir, named with a random UUID so
// concurrent `bfc compile` invocations sharing a temp directory never
// clobber each other's intermediate file.
func tempIRPath() string {
	name := "bfc-" + uuid.NewString() + ".ll"
	return filepath.Join(os.TempDir(), name)
}

// AssembleObject compiles llvmIR (the textual output of module.String())
// into a relocatable object file at outputPath.
func (tc Toolchain) AssembleObject(llvmIR string, outputPath string) error {
	return tc.run(llvmIR, outputPath, "-c")
}

// LinkExecutable compiles and links llvmIR into a standalone
// executable at outputPath.
func (tc Toolchain) LinkExecutable(llvmIR string, outputPath string) error {
	return tc.run(llvmIR, outputPath, "")
}

func (tc Toolchain) run(llvmIR string, outputPath string, extraFlag string) error {
	irPath := tempIRPath()
	if err := os.WriteFile(irPath, []byte(llvmIR), 0o644); err != nil {
		return errors.Wrap(err, "writing intermediate LLVM IR")
	}
	defer os.Remove(irPath)

	args := []string{"-x", "ir", irPath, "-o", outputPath}
	if extraFlag != "" {
		args = append(args, extraFlag)
	}

	cmd := exec.Command(tc.CCPath, args...)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "invoking %s on %s", tc.CCPath, irPath)
	}
	return nil
}
