package interp

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bfc/internal/ir"
)

// TestExamplePrograms runs every testdata/*.bf fixture against its
// matching *.out (and, if present, *.in) file — a small table of real
// Brainfuck programs rather than synthetic one-liners.
func TestExamplePrograms(t *testing.T) {
	sources, err := filepath.Glob("testdata/*.bf")
	if err != nil {
		t.Fatalf("glob testdata/*.bf: %v", err)
	}
	if len(sources) == 0 {
		t.Fatal("no fixtures found under testdata/")
	}

	for _, srcPath := range sources {
		name := strings.TrimSuffix(filepath.Base(srcPath), ".bf")
		t.Run(name, func(t *testing.T) {
			src, err := os.ReadFile(srcPath)
			if err != nil {
				t.Fatalf("reading %s: %v", srcPath, err)
			}
			wantBytes, err := os.ReadFile(filepath.Join("testdata", name+".out"))
			if err != nil {
				t.Fatalf("reading expected output for %s: %v", name, err)
			}

			var input string
			if inBytes, err := os.ReadFile(filepath.Join("testdata", name+".in")); err == nil {
				input = string(inBytes)
			}

			prog, err := ir.Parse(strings.NewReader(string(src)))
			if err != nil {
				t.Fatalf("Parse(%s): %v", name, err)
			}

			it, err := New(DefaultTapeSize)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			it.SetInput(strings.NewReader(input))
			var out bytes.Buffer
			it.SetOutput(&out)
			if err := it.Run(prog); err != nil {
				t.Fatalf("Run(%s): %v", name, err)
			}

			if out.String() != string(wantBytes) {
				t.Errorf("%s: got %q, want %q", name, out.String(), string(wantBytes))
			}
		})
	}
}
