package store

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultDirName is the directory created under the user config dir.
	DefaultDirName = "stockdeal"
	// DefaultFileName is the state file name inside DefaultDirName.
	DefaultFileName = "state.yaml"
)

// File is a Store persisted as a flat YAML mapping on disk.
// Every write rewrites the whole document through a temp file and rename,
// so a crash never leaves a truncated state file behind.
type File struct {
	mu   sync.Mutex
	path string
}

var _ Store = (*File)(nil)

// NewFile returns a store backed by path. The file is created on first write.
func NewFile(path string) *File {
	return &File{path: path}
}

// DefaultPath returns <user config dir>/stockdeal/state.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultDirName, DefaultFileName), nil
}

// Path returns the backing file path.
func (f *File) Path() string {
	return f.path
}

// Get retrieves a value by key.
func (f *File) Get(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return "", err
	}
	v, ok := values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Set stores a value.
func (f *File) Set(_ context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return err
	}
	values[key] = value
	return f.save(values)
}

// GetOrSet stores value only when key is absent.
func (f *File) GetOrSet(_ context.Context, key, value string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return "", false, err
	}
	if v, ok := values[key]; ok {
		return v, false, nil
	}
	values[key] = value
	if err := f.save(values); err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Delete removes a value.
func (f *File) Delete(_ context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return f.save(values)
}

// load reads the document; a missing file is an empty store.
func (f *File) load() (map[string]string, error) {
	values := make(map[string]string)
	content, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, &FileError{Op: "read", Path: f.path, Err: err}
	}
	if err := yaml.Unmarshal(content, &values); err != nil {
		return nil, &FileError{Op: "decode", Path: f.path, Err: err}
	}
	if values == nil {
		values = make(map[string]string)
	}
	return values, nil
}

func (f *File) save(values map[string]string) error {
	content, err := yaml.Marshal(values)
	if err != nil {
		return &FileError{Op: "encode", Path: f.path, Err: err}
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return &FileError{Op: "write", Path: f.path, Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".state-*.yaml")
	if err != nil {
		return &FileError{Op: "write", Path: f.path, Err: err}
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &FileError{Op: "write", Path: f.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &FileError{Op: "write", Path: f.path, Err: err}
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return &FileError{Op: "write", Path: f.path, Err: err}
	}
	return nil
}
