package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rust-ffi-checker/crateval/internal/bom"
	"github.com/rust-ffi-checker/crateval/internal/model"
)

// Write creates the output directory and writes every artifact named in out.
// A failing artifact does not prevent the others from being written.
func Write(out model.Output, results []model.Result, builder *bom.Builder) error {
	if err := os.MkdirAll(out.Dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	errs := []error{
		writeFile(filepath.Join(out.Dir, out.Table), func(w io.Writer) error {
			return WriteTable(w, results)
		}),
		writeFile(filepath.Join(out.Dir, out.Narrative), func(w io.Writer) error {
			return WriteNarrative(w, results)
		}),
	}
	if out.BOM != "" && builder != nil {
		errs = append(errs, writeFile(filepath.Join(out.Dir, out.BOM), builder.AsJSON))
	}
	return errors.Join(errs...)
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()
	if err := write(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
