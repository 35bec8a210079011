// Package registry receives generated compilation units.
package registry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"jsongen/internal/model"
)

// ErrDuplicateUnit is returned when two fragments share a logical name.
var ErrDuplicateUnit = errors.New("duplicate compilation unit")

// Registry accepts generated fragments. AddCompilationUnit is called once
// per matched type.
type Registry interface {
	AddCompilationUnit(f model.Fragment) error
}

// Memory keeps fragments in registration order.
type Memory struct {
	Fragments []model.Fragment
	names     map[string]bool
}

// NewMemory creates an empty in-memory registry.
func NewMemory() *Memory {
	return &Memory{names: make(map[string]bool)}
}

func (m *Memory) AddCompilationUnit(f model.Fragment) error {
	if m.names == nil {
		m.names = make(map[string]bool)
	}
	if m.names[f.Name] {
		return errors.Wrapf(ErrDuplicateUnit, "%s (namespace %q)", f.Name, f.Namespace)
	}
	m.names[f.Name] = true
	m.Fragments = append(m.Fragments, f)
	return nil
}

// Lookup returns the fragment registered under name.
func (m *Memory) Lookup(name string) (model.Fragment, bool) {
	for _, f := range m.Fragments {
		if f.Name == name {
			return f, true
		}
	}
	return model.Fragment{}, false
}

// Dir writes each fragment to a Go file. With Root set, files go under
// Root laid out like the import path; otherwise they go next to
// the source package. File names fold case, so two fragments landing on one
// path are rejected rather than overwritten.
type Dir struct {
	Root    string
	Written []string
	paths   map[string]string
}

func (d *Dir) AddCompilationUnit(f model.Fragment) error {
	dir := f.Dir
	if d.Root != "" {
		dir = filepath.Join(d.Root, filepath.FromSlash(layoutPath(f)))
	}
	if dir == "" {
		return errors.WithHint(
			errors.Newf("no directory known for %s in namespace %q", f.Name, f.Namespace),
			"pass an output directory",
		)
	}
	path := filepath.Join(dir, FileName(f.Name))
	if prev, ok := d.paths[path]; ok {
		return errors.Wrapf(ErrDuplicateUnit, "%s and %s both map to %s", prev, f.Name, path)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", dir)
	}
	if err := os.WriteFile(path, []byte(f.Source), 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	if d.paths == nil {
		d.paths = make(map[string]string)
	}
	d.paths[path] = f.Name
	d.Written = append(d.Written, path)
	return nil
}

// layoutPath is the slash path of f below an output root. Namespace segments
// may contain dots ("example.com"), so the import path is preferred.
func layoutPath(f model.Fragment) string {
	if f.ImportPath != "" {
		return f.ImportPath
	}
	return strings.ReplaceAll(f.Namespace, ".", "/")
}

// Stream prints every fragment to W, each preceded by a file marker line.
type Stream struct {
	W io.Writer
}

func (s *Stream) AddCompilationUnit(f model.Fragment) error {
	if _, err := fmt.Fprintf(s.W, "// ==> %s\n%s\n", FileName(f.Name), f.Source); err != nil {
		return errors.Wrap(err, "writing fragment")
	}
	return nil
}

// FileName derives a Go file name from a logical unit name:
// "Poco.JsonSerializable" becomes "poco_jsonserializable.go".
func FileName(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, ".", "_")) + ".go"
}
