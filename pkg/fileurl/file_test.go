package fileurl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteIfMissing(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "config", "config.yaml")

	written, err := WriteIfMissing(dst, []byte("a: 1\n"), 0o644)
	require.NoError(t, err)
	assert.True(t, written)
	assert.True(t, IsExist(dst))
	assert.True(t, IsDir(filepath.Dir(dst)))

	written, err = WriteIfMissing(dst, []byte("a: 2\n"), 0o644)
	require.NoError(t, err)
	assert.False(t, written)

	data, _ := os.ReadFile(dst)
	assert.Equal(t, "a: 1\n", string(data))
}

func TestIsSQLiteMemory(t *testing.T) {
	assert.True(t, IsSQLiteMemory("file::memory:?cache=shared"))
	assert.True(t, IsSQLiteMemory(":memory:"))
	assert.True(t, IsSQLiteMemory("file:x?mode=memory"))
	assert.False(t, IsSQLiteMemory("storage/database/db.sqlite3"))
}
