package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheRoundTrip(t *testing.T) {
	c, err := New(t.TempDir(), 1, true)
	require.NoError(t, err)

	hash := HashBytes([]byte("class A {}"))
	require.NoError(t, c.Set("src/A.java", hash, []byte(`{"ok":true}`)))

	data, ok := c.Get("src/A.java", hash)
	require.True(t, ok)
	assert.Equal(t, []byte(`{"ok":true}`), data)
}

func TestCacheMissOnHashChange(t *testing.T) {
	c, err := New(t.TempDir(), 1, true)
	require.NoError(t, err)

	require.NoError(t, c.Set("src/A.java", HashBytes([]byte("v1")), []byte("one")))

	_, ok := c.Get("src/A.java", HashBytes([]byte("v2")))
	assert.False(t, ok)
}

func TestCacheDisabled(t *testing.T) {
	c, err := New("", 1, false)
	require.NoError(t, err)

	require.NoError(t, c.Set("k", "h", []byte("v")))
	_, ok := c.Get("k", "h")
	assert.False(t, ok)
	assert.NoError(t, c.Clear())
}

func TestCacheInvalidate(t *testing.T) {
	c, err := New(t.TempDir(), 1, true)
	require.NoError(t, err)

	hash := HashBytes([]byte("x"))
	require.NoError(t, c.Set("k", hash, []byte("v")))
	require.NoError(t, c.Invalidate("k"))

	_, ok := c.Get("k", hash)
	assert.False(t, ok)
}

func TestHashFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.java")
	require.NoError(t, os.WriteFile(path, []byte("class F {}"), 0o644))

	h, err := HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, HashBytes([]byte("class F {}")), h)

	_, err = HashFile(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
