package comparison

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestWriteFileAtomic_Success(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chart.png")

	err := writeFileAtomic(path, func(w io.Writer) error {
		_, err := w.Write([]byte("png"))
		return err
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "png", string(data))
	require.Equal(t, []string{"chart.png"}, dirEntries(t, dir))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(outputFileMode), info.Mode().Perm())
}

func TestWriteFileAtomic_WriteErrorRemovesTemp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chart.png")
	boom := errors.New("encoder failed")

	err := writeFileAtomic(path, func(w io.Writer) error {
		if _, err := w.Write([]byte("partial")); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.Empty(t, dirEntries(t, dir))
}

func TestWriteFileAtomic_RenameErrorRemovesTemp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chart.png")
	require.NoError(t, os.Mkdir(path, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(path, "keep"), nil, 0o644))

	err := writeFileAtomic(path, func(w io.Writer) error {
		_, err := w.Write([]byte("png"))
		return err
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to move chart")
	require.Equal(t, []string{"chart.png"}, dirEntries(t, dir))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}
