// Package nodeenv resolves on-disk locations for index and shard data on a
// single storage node.
//
// Layout under the node root R:
//
//	R/indices/<indexUUID>/<shardID>          standard (warm) shard data
//	R/cache/<indexUUID>/<shardID>            remote-snapshot shard cache
//	R/cache/<indexUUID>/<shardID>/local_store  cached remote-snapshot files
//	R/cache/indices/<indexUUID>              warm index-level cache entries
//
// Warm shards additionally keep their cached files in an "indices" subfolder
// of the shard's standard data path.
package nodeenv

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tierstore/fscache/core"
)

const (
	cacheDirName   = "cache"
	indicesDirName = "indices"

	// LocalStoreDirName is the subfolder of a remote-snapshot shard's cache
	// path that holds the cached data files.
	LocalStoreDirName = "local_store"
)

// NodeEnvironment knows the node's on-disk layout. It performs no I/O except
// where documented; path accessors are pure computation.
type NodeEnvironment struct {
	root string
}

// New creates a NodeEnvironment rooted at the given directory.
func New(root string) *NodeEnvironment {
	return &NodeEnvironment{root: filepath.Clean(root)}
}

// Root returns the node data root.
func (e *NodeEnvironment) Root() string { return e.root }

// IndicesPath returns the root of standard per-index data directories.
func (e *NodeEnvironment) IndicesPath() string {
	return filepath.Join(e.root, indicesDirName)
}

// FileCachePath returns the root of the node's file-cache tree.
func (e *NodeEnvironment) FileCachePath() string {
	return filepath.Join(e.root, cacheDirName)
}

// CacheIndicesPath returns the directory holding warm index-level cache
// entries, one subdirectory per index UUID.
func (e *NodeEnvironment) CacheIndicesPath() string {
	return filepath.Join(e.root, cacheDirName, indicesDirName)
}

// IndexCachePath returns the file-cache root for a remote-snapshot index.
func (e *NodeEnvironment) IndexCachePath(index core.Index) string {
	return filepath.Join(e.root, cacheDirName, index.UUID)
}

// ShardPath is a resolved on-disk location for one shard's data.
type ShardPath struct {
	ShardID  core.ShardID
	DataPath string
}

// LocalStorePath returns the subfolder holding a remote-snapshot shard's
// cached files.
func (p ShardPath) LocalStorePath() string {
	return filepath.Join(p.DataPath, LocalStoreDirName)
}

// WarmCachePath returns the subfolder holding a warm shard's cached files.
func (p ShardPath) WarmCachePath() string {
	return filepath.Join(p.DataPath, indicesDirName)
}

// ResolveCacheShardPath computes the file-cache location of a remote-snapshot
// shard. The location is defined by layout alone, so resolution cannot fail;
// the directory may or may not exist.
func (e *NodeEnvironment) ResolveCacheShardPath(id core.ShardID) ShardPath {
	return ShardPath{
		ShardID:  id,
		DataPath: filepath.Join(e.root, cacheDirName, id.Index.UUID, strconv.Itoa(id.ID)),
	}
}

// ResolveShardPath locates the standard on-disk path of a shard. ok is false
// when the shard was never materialized on this node; err is non-nil only for
// a real I/O failure during lookup. customDataPath, when non-empty, replaces
// the node root.
func (e *NodeEnvironment) ResolveShardPath(id core.ShardID, customDataPath string) (ShardPath, bool, error) {
	root := e.root
	if customDataPath != "" {
		root = customDataPath
	}
	p := filepath.Join(root, indicesDirName, id.Index.UUID, strconv.Itoa(id.ID))

	info, err := os.Stat(p)
	if errors.Is(err, fs.ErrNotExist) {
		return ShardPath{}, false, nil
	}
	if err != nil {
		return ShardPath{}, false, err
	}
	if !info.IsDir() {
		return ShardPath{}, false, fmt.Errorf("shard path %s is not a directory", p)
	}
	return ShardPath{ShardID: id, DataPath: p}, true, nil
}

// DiskUsage reports capacity of the filesystem backing a path.
type DiskUsage struct {
	TotalBytes uint64
	FreeBytes  uint64
}

// FileCacheDiskUsage probes the filesystem backing the file-cache tree.
// Falls back to the node root if the cache directory does not exist yet.
func (e *NodeEnvironment) FileCacheDiskUsage() (DiskUsage, error) {
	du, err := diskUsage(e.FileCachePath())
	if errors.Is(err, fs.ErrNotExist) {
		du, err = diskUsage(e.root)
	}
	return du, err
}
