package nodeenv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tierstore/fscache/core"
)

func testShardID(uuid string, n int) core.ShardID {
	return core.ShardID{Index: core.Index{Name: "idx", UUID: uuid}, ID: n}
}

func TestLayout(t *testing.T) {
	env := New("/data/node0")

	assert.Equal(t, "/data/node0", env.Root())
	assert.Equal(t, "/data/node0/indices", env.IndicesPath())
	assert.Equal(t, "/data/node0/cache", env.FileCachePath())
	assert.Equal(t, "/data/node0/cache/indices", env.CacheIndicesPath())
	assert.Equal(t, "/data/node0/cache/u1", env.IndexCachePath(core.Index{Name: "idx", UUID: "u1"}))

	sp := env.ResolveCacheShardPath(testShardID("u1", 3))
	assert.Equal(t, "/data/node0/cache/u1/3", sp.DataPath)
	assert.Equal(t, "/data/node0/cache/u1/3/local_store", sp.LocalStorePath())
	assert.Equal(t, "/data/node0/cache/u1/3/indices", sp.WarmCachePath())
}

func TestResolveShardPath(t *testing.T) {
	root := t.TempDir()
	env := New(root)
	id := testShardID("u1", 0)

	// Never materialized: not found, not an error.
	_, ok, err := env.ResolveShardPath(id, "")
	require.NoError(t, err)
	assert.False(t, ok)

	shardDir := filepath.Join(root, "indices", "u1", "0")
	require.NoError(t, os.MkdirAll(shardDir, 0o755))

	sp, ok, err := env.ResolveShardPath(id, "")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, shardDir, sp.DataPath)
	assert.Equal(t, id, sp.ShardID)
}

func TestResolveShardPath_CustomDataPath(t *testing.T) {
	root := t.TempDir()
	custom := t.TempDir()
	env := New(root)
	id := testShardID("u2", 1)

	shardDir := filepath.Join(custom, "indices", "u2", "1")
	require.NoError(t, os.MkdirAll(shardDir, 0o755))

	// Not under the node root.
	_, ok, err := env.ResolveShardPath(id, "")
	require.NoError(t, err)
	assert.False(t, ok)

	sp, ok, err := env.ResolveShardPath(id, custom)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, shardDir, sp.DataPath)
}

func TestResolveShardPath_NotADirectory(t *testing.T) {
	root := t.TempDir()
	env := New(root)
	id := testShardID("u3", 0)

	p := filepath.Join(root, "indices", "u3", "0")
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))

	_, ok, err := env.ResolveShardPath(id, "")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestFileCacheDiskUsage(t *testing.T) {
	env := New(t.TempDir())

	// Cache dir absent: falls back to the root mount.
	du, err := env.FileCacheDiskUsage()
	if err != nil {
		t.Skipf("disk usage not supported here: %v", err)
	}
	assert.Greater(t, du.TotalBytes, uint64(0))
	assert.LessOrEqual(t, du.FreeBytes, du.TotalBytes)
}
