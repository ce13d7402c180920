// Package iofs prepares the file system for megantax and provides
// helpers for reading possibly compressed input and writing output
// files atomically.
package iofs

import (
	"bufio"
	_ "embed"
	"io"
	"os"
	"path/filepath"

	"github.com/gnames/megantax/pkg/config"
	"github.com/klauspost/compress/gzip"
)

//go:embed config.yaml
var ConfigYAML string

func EnsureDirs(homeDir string) error {
	dirs := []string{
		config.ConfigDir(homeDir),
		config.LogDir(homeDir),
	}
	for _, v := range dirs {
		if err := touchDir(v); err != nil {
			return err
		}
	}
	return nil
}

// EnsureDir creates dir with all its parents if it does not exist.
func EnsureDir(dir string) error {
	return touchDir(dir)
}

func touchDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return CreateDirError(dir, err)
	}

	return nil
}

func EnsureConfigFile(homeDir string) error {
	configPath := config.ConfigFilePath(homeDir)

	// Check if config file already exists
	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	// Write embedded config.yaml to the config directory
	if err := os.WriteFile(configPath, []byte(ConfigYAML), 0644); err != nil {
		return CopyFileError(configPath, err)
	}

	return nil
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (r *readCloser) Close() error {
	var res error
	for _, c := range r.closers {
		if err := c.Close(); err != nil && res == nil {
			res = err
		}
	}
	return res
}

// Open opens a file for reading. Gzip content is detected by its magic
// number and decompressed transparently.
func Open(path string) (io.ReadCloser, error) {
	return OpenWrapped(path, nil)
}

// OpenWrapped is Open with wrap applied to the raw file content before
// decompression, e.g. to count bytes read from disk.
func OpenWrapped(
	path string,
	wrap func(io.Reader) io.Reader,
) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ReadFileError(path, err)
	}

	var r io.Reader = f
	if wrap != nil {
		r = wrap(f)
	}
	br := bufio.NewReaderSize(r, 1<<20)
	magic, _ := br.Peek(2)
	if len(magic) < 2 || magic[0] != 0x1f || magic[1] != 0x8b {
		return &readCloser{Reader: br, closers: []io.Closer{f}}, nil
	}

	gz, err := gzip.NewReader(br)
	if err != nil {
		f.Close()
		return nil, ReadFileError(path, err)
	}
	return &readCloser{Reader: gz, closers: []io.Closer{gz, f}}, nil
}

// TempFile is a file written under a temporary name in the directory of
// its final path. Commit moves it into place, Discard removes it.
type TempFile struct {
	*os.File
	path string
	done bool
}

// CreateTemp creates a TempFile that will become path on Commit.
func CreateTemp(path string) (*TempFile, error) {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return nil, CreateFileError(path, err)
	}
	// os.CreateTemp uses 0600, outputs get the usual file mode.
	if err = f.Chmod(0644); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, CreateFileError(path, err)
	}
	return &TempFile{File: f, path: path}, nil
}

// Path returns the final path of the file.
func (f *TempFile) Path() string {
	return f.path
}

// Commit closes the file and renames it to its final path.
func (f *TempFile) Commit() error {
	if f.done {
		return nil
	}
	f.done = true
	tmpPath := f.Name()

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return WriteFileError(f.path, err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		return RenameFileError(tmpPath, f.path, err)
	}
	return nil
}

// Discard closes and removes the temporary file. It does nothing after
// Commit, so it can be deferred.
func (f *TempFile) Discard() {
	if f.done {
		return
	}
	f.done = true
	f.Close()
	os.Remove(f.Name())
}

// WriteAtomic writes a file through fn into a temporary file in the
// same directory and renames it to path only when fn succeeds.
// On failure nothing is left at path.
func WriteAtomic(path string, fn func(w io.Writer) error) error {
	f, err := CreateTemp(path)
	if err != nil {
		return err
	}
	defer f.Discard()

	if err = fn(f); err != nil {
		return err
	}
	return f.Commit()
}
