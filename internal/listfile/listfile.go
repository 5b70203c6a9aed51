// Package listfile persists a list of integers as a JSON array in a file and
// offers both an unguarded and a gate-serialized read-modify-write append.
package listfile

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"github.com/llxisdsh/exgate"
)

// File is a JSON list stored at a path.
type File struct {
	path   string
	perm   fs.FileMode
	logger logr.Logger
	gate   *exgate.Gate
}

// Option configures a File.
type Option func(*File)

// WithLogger sets the logger. Successful reads and writes are logged at V(1);
// failures are only returned.
func WithLogger(l logr.Logger) Option {
	return func(f *File) {
		f.logger = l
	}
}

// WithPerm sets the permission bits used when the file is created.
func WithPerm(perm fs.FileMode) Option {
	return func(f *File) {
		f.perm = perm
	}
}

// WithGate shares g with other users instead of a gate owned by the File.
func WithGate(g *exgate.Gate) Option {
	return func(f *File) {
		if g != nil {
			f.gate = g
		}
	}
}

// New returns a File for path. The file is not touched until first use.
func New(path string, opts ...Option) *File {
	f := &File{
		path:   path,
		perm:   0o644,
		logger: logr.Discard(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.gate == nil {
		f.gate = new(exgate.Gate)
	}
	return f
}

// Path returns the file path.
func (f *File) Path() string {
	return f.path
}

// Gate returns the gate serializing AppendLocked.
func (f *File) Gate() *exgate.Gate {
	return f.gate
}

// Reset stores an empty list.
func (f *File) Reset() error {
	return f.Write(nil)
}

// Read loads the list.
func (f *File) Read() ([]int, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("listfile: read %s: %w", f.path, err)
	}
	var list []int
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("listfile: decode %s: %w", f.path, err)
	}
	f.logger.V(1).Info("read list", "path", f.path, "len", len(list))
	return list, nil
}

// Write replaces the stored list.
func (f *File) Write(list []int) error {
	if list == nil {
		list = []int{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("listfile: encode %s: %w", f.path, err)
	}
	if err := os.WriteFile(f.path, data, f.perm); err != nil {
		return fmt.Errorf("listfile: write %s: %w", f.path, err)
	}
	f.logger.V(1).Info("wrote list", "path", f.path, "len", len(list))
	return nil
}

// Append reads the list, appends v and writes it back. Concurrent calls
// lose updates: the last writer wins.
func (f *File) Append(v int) error {
	list, err := f.Read()
	if err != nil {
		return err
	}
	return f.Write(append(list, v))
}

// AppendLocked is Append serialized through the File's gate.
func (f *File) AppendLocked(v int) error {
	return f.gate.Do(func() error {
		return f.Append(v)
	})
}

// AppendAll appends every value concurrently and returns the first error.
// With locked set, each append goes through AppendLocked.
func (f *File) AppendAll(vals []int, locked bool) error {
	var eg errgroup.Group
	for _, v := range vals {
		if locked {
			eg.Go(func() error { return f.AppendLocked(v) })
		} else {
			eg.Go(func() error { return f.Append(v) })
		}
	}
	return eg.Wait()
}
