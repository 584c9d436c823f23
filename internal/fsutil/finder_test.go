package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestFindFilesByExtension(t *testing.T) {
	// Arrange
	root := t.TempDir()
	for _, name := range []string{
		"a.hcl",
		"b.HCL",
		"notes.txt",
		filepath.Join("nested", "c.hcl"),
		filepath.Join(".hidden", "d.hcl"),
	} {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("# test"), 0o644))
	}

	// Act
	files, err := FindFilesByExtension(root, ".hcl")

	// Assert
	require.NoError(t, err)
	want := []string{
		filepath.Join(root, "a.hcl"),
		filepath.Join(root, "b.HCL"),
		filepath.Join(root, "nested", "c.hcl"),
	}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Errorf("FindFilesByExtension() mismatch (-want +got):\n%s", diff)
	}
}

func TestFindFilesByExtension_Errors(t *testing.T) {
	t.Run("empty extension", func(t *testing.T) {
		_, err := FindFilesByExtension(t.TempDir(), "")
		require.ErrorIs(t, err, ErrNoExtension)
	})

	t.Run("missing root", func(t *testing.T) {
		_, err := FindFilesByExtension(filepath.Join(t.TempDir(), "missing"), ".hcl")
		require.Error(t, err)
	})
}
