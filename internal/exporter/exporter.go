// Package exporter writes a card collection as the script file a static page
// loads, "window.BLOGS_DATA = [...];", for publishing by hand.
package exporter

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/debemdeboas/folio/internal/model"
)

const exportIndent = "  "

var ErrNotExport = errors.New("not an exported data file")

// Export renders c as an assignment to the kind's global.
func Export(kind model.CollectionKind, c model.Collection) ([]byte, error) {
	if c == nil {
		c = model.Collection{}
	}
	data, err := model.EncodeIndent(c, exportIndent)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString("window." + kind.ExportVar() + " = ")
	buf.Write(bytes.TrimRight(data, "\n"))
	buf.WriteString(";\n")
	return buf.Bytes(), nil
}

// Parse reads a file produced by Export, or one written by hand in the same
// shape, and returns the collection and the kind named by its global.
func Parse(data []byte) (model.CollectionKind, model.Collection, error) {
	s := strings.TrimSpace(string(data))
	s, ok := strings.CutPrefix(s, "window.")
	if !ok {
		return "", nil, ErrNotExport
	}

	name, rest, ok := strings.Cut(s, "=")
	if !ok {
		return "", nil, ErrNotExport
	}

	var kind model.CollectionKind
	for _, k := range model.Kinds() {
		if k.ExportVar() == strings.TrimSpace(name) {
			kind = k
		}
	}
	if kind == "" {
		return "", nil, fmt.Errorf("%w: unknown global %q", ErrNotExport, strings.TrimSpace(name))
	}

	rest = strings.TrimSuffix(strings.TrimSpace(rest), ";")
	var c model.Collection
	if err := model.DecodeContent([]byte(rest), &c); err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrNotExport, err)
	}
	return kind, c, nil
}

// WriteFile exports c into dir under the kind's file name and returns the
// path written. The file is replaced atomically.
func WriteFile(dir string, kind model.CollectionKind, c model.Collection) (string, error) {
	data, err := Export(kind, c)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+kind.ExportFile()+".*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing export: %w", err)
	}

	path := filepath.Join(dir, kind.ExportFile())
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("moving export into place: %w", err)
	}
	return path, nil
}
