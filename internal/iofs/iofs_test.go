package iofs

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/megantax/pkg/errcode"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEnsureDirs_CreatesDirectories verifies all required
// directories are created.
func TestEnsureDirs_CreatesDirectories(t *testing.T) {
	tmpDir := t.TempDir()

	err := EnsureDirs(tmpDir)
	require.NoError(t, err)

	dirs := []string{
		filepath.Join(tmpDir, ".config", "megantax"),
		filepath.Join(tmpDir, ".local", "share", "megantax", "logs"),
	}
	for _, dir := range dirs {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir(), dir)
		assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
	}

	// repeated calls succeed
	require.NoError(t, EnsureDirs(tmpDir))
	require.NoError(t, EnsureDirs(tmpDir))
}

func TestEnsureDir_Nested(t *testing.T) {
	newDir := filepath.Join(t.TempDir(), "out", "megan")

	require.NoError(t, EnsureDir(newDir))
	info, err := os.Stat(newDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestEnsureDir_FileInTheWay(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "file")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	err := EnsureDir(filepath.Join(path, "sub"))
	require.Error(t, err)
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.CreateDirError, gnErr.Code)
}

// TestEnsureConfigFile verifies config file is created from
// the embedded template and never overwritten.
func TestEnsureConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, EnsureDirs(tmpDir))
	require.NoError(t, EnsureConfigFile(tmpDir))

	configPath := filepath.Join(tmpDir, ".config", "megantax",
		"config.yaml")
	content, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, ConfigYAML, string(content))

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	customContent := "# Custom config\ntaxonomy:\n  max_depth: 5"
	err = os.WriteFile(configPath, []byte(customContent), 0644)
	require.NoError(t, err)

	require.NoError(t, EnsureConfigFile(tmpDir))
	content, err = os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, customContent, string(content),
		"Existing config file should not be overwritten")
}

// TestConfigYAML_Embedded verifies embedded config is
// not empty.
func TestConfigYAML_Embedded(t *testing.T) {
	for _, section := range []string{
		"taxonomy:", "mapping:", "database:", "log:",
	} {
		assert.Contains(t, ConfigYAML, section)
	}
}

func TestOpen(t *testing.T) {
	tmpDir := t.TempDir()
	data := "accession\taccession.version\ttaxid\tgi\nA0A\tA0A.1\t9606\t1\n"

	plain := filepath.Join(tmpDir, "plain.txt")
	require.NoError(t, os.WriteFile(plain, []byte(data), 0644))

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(data))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	// the extension does not matter, content does
	packed := filepath.Join(tmpDir, "packed.dat")
	require.NoError(t, os.WriteFile(packed, buf.Bytes(), 0644))

	empty := filepath.Join(tmpDir, "empty.txt")
	require.NoError(t, os.WriteFile(empty, nil, 0644))

	tests := []struct {
		msg, path, res string
	}{
		{"plain", plain, data},
		{"gzip", packed, data},
		{"empty", empty, ""},
	}

	for _, v := range tests {
		r, err := Open(v.path)
		require.NoError(t, err, v.msg)
		res, err := io.ReadAll(r)
		require.NoError(t, err, v.msg)
		require.NoError(t, r.Close(), v.msg)
		assert.Equal(t, v.res, string(res), v.msg)
	}
}

type countingReader struct {
	r io.Reader
	n int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += n
	return n, err
}

func TestOpenWrapped(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	line := []byte("A0A\t9606\n")
	_, err := gz.Write(bytes.Repeat(line, 1000))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	path := filepath.Join(t.TempDir(), "packed.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	var cr *countingReader
	r, err := OpenWrapped(path, func(r io.Reader) io.Reader {
		cr = &countingReader{r: r}
		return cr
	})
	require.NoError(t, err)
	defer r.Close()

	res, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Len(t, res, len(line)*1000)
	assert.Equal(t, buf.Len(), cr.n, "wrapper sees compressed bytes")
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.dmp"))
	require.Error(t, err)
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.ReadFileError, gnErr.Code)
	assert.ErrorIs(t, gnErr.Err, os.ErrNotExist)
}

func TestWriteAtomic(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "ncbi.tre")

	t.Run("success renames into place", func(t *testing.T) {
		err := WriteAtomic(path, func(w io.Writer) error {
			_, err := io.WriteString(w, "(b,c)a;\n")
			return err
		})
		require.NoError(t, err)
		res, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "(b,c)a;\n", string(res))
	})

	t.Run("failure keeps previous file and leaves no temp", func(t *testing.T) {
		boom := errors.New("boom")
		err := WriteAtomic(path, func(w io.Writer) error {
			_, _ = io.WriteString(w, "partial")
			return boom
		})
		assert.ErrorIs(t, err, boom)

		res, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "(b,c)a;\n", string(res))

		entries, err := os.ReadDir(tmpDir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("failure creates nothing", func(t *testing.T) {
		other := filepath.Join(tmpDir, "ncbi.map")
		err := WriteAtomic(other, func(w io.Writer) error {
			return errors.New("fail")
		})
		require.Error(t, err)
		_, err = os.Stat(other)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("missing directory", func(t *testing.T) {
		err := WriteAtomic(filepath.Join(tmpDir, "no", "dir", "f"),
			func(w io.Writer) error { return nil })
		var gnErr *gn.Error
		require.ErrorAs(t, err, &gnErr)
		assert.Equal(t, errcode.CreateFileError, gnErr.Code)
	})
}

func TestTempFile(t *testing.T) {
	tmpDir := t.TempDir()
	treePath := filepath.Join(tmpDir, "ncbi.tre")
	mapPath := filepath.Join(tmpDir, "ncbi.map")

	tf, err := CreateTemp(treePath)
	require.NoError(t, err)
	mf, err := CreateTemp(mapPath)
	require.NoError(t, err)
	assert.Equal(t, treePath, tf.Path())

	_, err = tf.WriteString("a;\n")
	require.NoError(t, err)
	_, err = mf.WriteString("a\troot\t-1\t0\n")
	require.NoError(t, err)

	// nothing is visible before commit
	_, err = os.Stat(treePath)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, tf.Commit())
	mf.Discard()
	// repeated calls are no-ops
	require.NoError(t, tf.Commit())
	tf.Discard()
	mf.Discard()

	res, err := os.ReadFile(treePath)
	require.NoError(t, err)
	assert.Equal(t, "a;\n", string(res))

	info, err := os.Stat(treePath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ncbi.tre", entries[0].Name())
}
