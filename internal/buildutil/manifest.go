// Package buildutil supports the `compile` command: a JSON build
// manifest written alongside emitted artifacts, and the external
// toolchain invocation that turns textual LLVM IR into an object file
// or executable.
package buildutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

// ManifestName is the file buildutil writes next to every compiled
// artifact.
const ManifestName = "bfc.json"

// Manifest records what a compile invocation produced, for
// reproducibility and for `bfc compile --print-llvm-ir` consumers
// that want to correlate a .ll dump with the binary it produced.
type Manifest struct {
	SourcePath  string    `json:"source_path"`
	OutputPath  string    `json:"output_path"`
	ObjectOnly  bool      `json:"object_only"`
	OptLevel    int       `json:"opt_level"`
	BuiltAt     time.Time `json:"built_at"`
	Toolchain   string    `json:"toolchain"`
	SourceBytes int       `json:"source_bytes"`
}

// WriteManifest serializes m as pretty-printed JSON into
// ManifestName, in the same directory as m.OutputPath.
func WriteManifest(m Manifest) error {
	if m.BuiltAt.IsZero() {
		m.BuiltAt = time.Now()
	}
	dir := filepath.Dir(m.OutputPath)
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling build manifest")
	}
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}
