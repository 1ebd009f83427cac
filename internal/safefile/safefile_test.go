package safefile

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestOpenRegular_Success(t *testing.T) {
	path := writeFile(t, "test.txt", "test content")

	f, info, err := OpenRegular(path)
	require.NoError(t, err)
	defer f.Close()

	assert.True(t, info.Mode().IsRegular())
	assert.Equal(t, int64(12), info.Size())
}

func TestOpenRegular_FileNotExist(t *testing.T) {
	_, _, err := OpenRegular("/nonexistent/path/file.txt")
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestOpenRegular_RejectsSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink test requires Unix")
	}

	target := writeFile(t, "target.txt", "test")
	link := filepath.Join(filepath.Dir(target), "link.txt")
	require.NoError(t, os.Symlink(target, link))

	_, _, err := OpenRegular(link)
	assert.True(t, errors.Is(err, ErrNotRegularFile))
}

func TestOpenRegular_RejectsDirectory(t *testing.T) {
	_, _, err := OpenRegular(t.TempDir())
	assert.True(t, errors.Is(err, ErrNotRegularFile))
}

func TestReadRegular(t *testing.T) {
	path := writeFile(t, "fight.txt", "0 \"Start\"\n")

	data, err := ReadRegular(path, 1024)
	require.NoError(t, err)
	assert.Equal(t, "0 \"Start\"\n", string(data))
}

func TestReadRegular_Limits(t *testing.T) {
	empty := writeFile(t, "empty.txt", "")
	_, err := ReadRegular(empty, 1024)
	assert.ErrorIs(t, err, ErrEmpty)

	big := writeFile(t, "big.txt", strings.Repeat("x", 2048))
	_, err = ReadRegular(big, 1024)
	assert.ErrorIs(t, err, ErrTooLarge)

	exact := writeFile(t, "exact.txt", strings.Repeat("x", 1024))
	data, err := ReadRegular(exact, 1024)
	require.NoError(t, err)
	assert.Len(t, data, 1024)
}

func TestReadRegular_SanitizesPath(t *testing.T) {
	_, err := ReadRegular("/secret/dir/missing.txt", 1024)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "/secret/dir")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
