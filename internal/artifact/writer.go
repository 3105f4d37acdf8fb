// Package artifact writes the run's output files as one all-or-nothing set.
// Every file is staged under a hidden directory first; Commit renames the
// whole set into place and a failed run removes the stage, so a consumer can
// never observe a partial, successful-looking artifact set.
package artifact

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/openlegis/amendmap/pkg/constants"
	"github.com/openlegis/amendmap/pkg/errors"
	"github.com/openlegis/amendmap/pkg/logging"
)

// Writer stages artifacts for one run.
type Writer struct {
	dir    string
	stage  string
	names  []string
	closed bool
}

// NewWriter creates a stage under dir for this process.
func NewWriter(dir string) (*Writer, error) {
	stage := filepath.Join(dir, fmt.Sprintf(".stage-%d", os.Getpid()))
	if err := os.MkdirAll(stage, constants.DirPermissions); err != nil {
		return nil, errors.WrapIO("create", stage, err)
	}
	return &Writer{dir: dir, stage: stage}, nil
}

// JSON stages a pretty-printed JSON artifact.
func (w *Writer) JSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.WrapParse("json", name, err)
	}
	return w.write(name, append(data, '\n'))
}

// CSV stages a CSV artifact with a fixed header and column order.
func (w *Writer) CSV(name string, header []string, rows [][]string) error {
	f, err := os.Create(filepath.Join(w.stage, name))
	if err != nil {
		return errors.WrapIO("create", name, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		return errors.WrapIO("write", name, err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return errors.WrapIO("write", name, err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.WrapIO("write", name, err)
	}
	w.names = append(w.names, name)
	return nil
}

// Bytes stages a raw artifact.
func (w *Writer) Bytes(name string, data []byte) error {
	return w.write(name, data)
}

func (w *Writer) write(name string, data []byte) error {
	path := filepath.Join(w.stage, name)
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	w.names = append(w.names, name)
	return nil
}

// Commit publishes every staged artifact into the output directory and
// removes the stage. Call exactly once, after every artifact succeeded.
func (w *Writer) Commit() error {
	if w.closed {
		return nil
	}
	for _, name := range w.names {
		from := filepath.Join(w.stage, name)
		to := filepath.Join(w.dir, name)
		if err := os.Rename(from, to); err != nil {
			return errors.WrapIO("rename", to, err)
		}
	}
	w.closed = true
	if err := os.Remove(w.stage); err != nil {
		// The stage is empty at this point; failing to remove it does not
		// invalidate the published set.
		logging.Warn().Str("stage", w.stage).Err(err).Msg("Could not remove stage directory")
	}
	logging.Info().Str("dir", w.dir).Int("artifacts", len(w.names)).Msg("Artifact set published")
	return nil
}

// Discard removes the stage and everything in it. Safe to defer alongside
// Commit: a committed writer discards nothing.
func (w *Writer) Discard() {
	if w.closed {
		return
	}
	w.closed = true
	if err := os.RemoveAll(w.stage); err != nil {
		logging.Warn().Str("stage", w.stage).Err(err).Msg("Could not remove stage directory")
	}
}
