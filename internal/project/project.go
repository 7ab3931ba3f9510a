// Package project implements the in-memory virtual project the refactoring
// engine edits. Files are addressed by project-relative slash paths; textual
// mutations accumulate as pending byte-range edits and become visible only on
// Flush, so a batch of node rewrites within one step sees a stable snapshot.
package project

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// File is a single source file inside a Project.
type File struct {
	Path    string
	content string
	edits   []edit
}

// edit replaces content[Start:End) with Text on the next Flush.
type edit struct {
	Start int
	End   int
	Text  string
}

// Project is a mutable, path-addressed collection of files. It is exclusively
// owned by one planner/executor invocation; no internal locking.
type Project struct {
	files map[string]*File
	gen   int
}

// New returns an empty project.
func New() *Project {
	return &Project{files: make(map[string]*File)}
}

// Load walks root on fsys and returns a project containing every file whose
// extension is listed in exts. Paths inside the project are slash-separated
// and relative to root.
func Load(fsys afero.Fs, root string, exts []string) (*Project, error) {
	p := New()
	err := afero.Walk(fsys, root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if !hasExt(path, exts) {
			return nil
		}
		data, err := afero.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		p.AddFile(filepath.ToSlash(rel), string(data))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load project %s: %w", root, err)
	}
	return p, nil
}

func hasExt(path string, exts []string) bool {
	for _, e := range exts {
		if strings.HasSuffix(path, e) {
			return true
		}
	}
	return false
}

// FindFile returns the file at path, or nil if the project has none.
func (p *Project) FindFile(path string) *File {
	return p.files[path]
}

// AddFile inserts (or replaces) a file and returns it. Pending edits on a
// replaced file are discarded.
func (p *Project) AddFile(path, content string) *File {
	f := &File{Path: path, content: content}
	p.files[path] = f
	return f
}

// Paths returns every file path in the project, sorted, so iteration order is
// stable across runs of the same input.
func (p *Project) Paths() []string {
	out := make([]string, 0, len(p.files))
	for path := range p.files {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// Generation increments on every Flush. Consumers that cache parses of file
// content key the cache on (path, generation).
func (p *Project) Generation() int {
	return p.gen
}

// Flush commits every pending edit. Edits within one file never overlap:
// Stage rejects an overlapping edit when it is queued.
func (p *Project) Flush() error {
	for _, path := range p.Paths() {
		f := p.files[path]
		if len(f.edits) == 0 {
			continue
		}
		next, err := f.applyEdits()
		if err != nil {
			return fmt.Errorf("flush %s: %w", path, err)
		}
		f.content = next
		f.edits = nil
	}
	p.gen++
	return nil
}

// Dirty reports whether any file has pending edits.
func (p *Project) Dirty() bool {
	for _, f := range p.files {
		if len(f.edits) > 0 {
			return true
		}
	}
	return false
}

// WriteBack persists every file's committed content under root on fsys.
func (p *Project) WriteBack(fsys afero.Fs, root string) error {
	for _, path := range p.Paths() {
		f := p.files[path]
		dst := filepath.Join(root, filepath.FromSlash(path))
		if err := fsys.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		if err := afero.WriteFile(fsys, dst, []byte(f.content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

// Content returns the committed content; pending edits are not visible.
func (f *File) Content() string {
	return f.content
}

// Stage queues a replacement of content[start:end) with text. The range must
// lie inside the file and must not overlap an already-staged edit.
func (f *File) Stage(start, end int, text string) error {
	if start < 0 || end < start || end > len(f.content) {
		return fmt.Errorf("edit range [%d,%d) out of bounds (len %d)", start, end, len(f.content))
	}
	for _, e := range f.edits {
		if start < e.End && e.Start < end {
			return fmt.Errorf("edit [%d,%d) overlaps staged edit [%d,%d)", start, end, e.Start, e.End)
		}
	}
	f.edits = append(f.edits, edit{Start: start, End: end, Text: text})
	return nil
}

// applyEdits rebuilds content with all staged edits applied, right to left so
// earlier offsets stay valid.
func (f *File) applyEdits() (string, error) {
	edits := make([]edit, len(f.edits))
	copy(edits, f.edits)
	sort.Slice(edits, func(i, j int) bool { return edits[i].Start > edits[j].Start })
	content := f.content
	for _, e := range edits {
		content = content[:e.Start] + e.Text + content[e.End:]
	}
	return content, nil
}
