package fs

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFS(t *testing.T) {
	f := New()
	dir := t.TempDir()

	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, f.MkdirAll(nested))

	exists, err := f.FileExists(nested)
	require.NoError(t, err)
	assert.False(t, exists, "directories are not files")

	file := filepath.Join(nested, "model.yaml")
	exists, err = f.FileExists(file)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, f.WriteFile(file, []byte("classes: []")))
	exists, err = f.FileExists(file)
	require.NoError(t, err)
	assert.True(t, exists)

	data, err := f.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "classes: []", string(data))

	require.NoError(t, f.Remove(file))
	_, err = f.ReadFile(file)
	assert.Error(t, err)
}
