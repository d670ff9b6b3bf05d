package pkg

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPathExists(t *testing.T) {
	exists, err := PathExists("/invalid/path/some-dir", true)
	assert.NoError(t, err)
	assert.False(t, exists)
	exists, err = PathExists("/invalid/path/some-file", false)
	assert.NoError(t, err)
	assert.False(t, exists)

	tempDir := t.TempDir()
	exists, err = PathExists(tempDir, true)
	assert.NoError(t, err)
	assert.True(t, exists)
	exists, err = PathExists(tempDir, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
	assert.False(t, exists)

	file := filepath.Join(tempDir, "f.json")
	require.NoError(t, os.WriteFile(file, []byte("{}"), 0o600))
	exists, err = PathExists(file, false)
	assert.NoError(t, err)
	assert.True(t, exists)
	exists, err = PathExists(file, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not a directory")
	assert.False(t, exists)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	p, err := ExpandHome("~/.fitness_logger")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".fitness_logger"), p)

	p, err = ExpandHome("./data")
	require.NoError(t, err)
	assert.Equal(t, "./data", p)

	p, err = ExpandHome("~other/data")
	require.NoError(t, err)
	assert.Equal(t, "~other/data", p)
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.json")
	dst := filepath.Join(dir, "dst.json")
	require.NoError(t, os.WriteFile(src, []byte(`{"workouts": []}`), 0o640))

	n, err := CopyFile(src, dst)
	require.NoError(t, err)
	assert.Equal(t, int64(16), n)

	content, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, `{"workouts": []}`, string(content))

	_, err = CopyFile(filepath.Join(dir, "missing.json"), dst)
	assert.Error(t, err)
}

func TestCompress(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"backup_20240101_100000.json": `{"a": 1}`,
		"backup_20240102_100000.json": `{"b": 2}`,
	}
	var paths []string
	for name, content := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
		paths = append(paths, p)
	}

	buf := &bytes.Buffer{}
	require.NoError(t, Compress(paths, buf))

	gzipReader, err := gzip.NewReader(buf)
	require.NoError(t, err)
	tarReader := tar.NewReader(gzipReader)

	found := map[string]string{}
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		content, err := io.ReadAll(tarReader)
		require.NoError(t, err)
		found[header.Name] = string(content)
	}
	assert.Equal(t, files, found)

	assert.Error(t, Compress([]string{dir}, &bytes.Buffer{}))
}
