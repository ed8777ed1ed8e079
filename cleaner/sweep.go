package cleaner

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/tierstore/fscache/nodeenv"
)

const defaultSweepConcurrency = 4

// SweepOrphans removes cache state for indices that are no longer present on
// the node. The deterministic cleanup in the listener methods only runs when
// this node observes the deletion; directories orphaned while the node was
// down (or by a crash between purge and reclaim) are picked up here.
//
// live holds the UUIDs of indices still assigned to the node; any other
// index directory under the file-cache tree, in either layout, is swept:
// its files are purged from the cache by canonical path, then the directory
// is deleted. Same fixed order as the listener path.
//
// Orphaned directories are processed concurrently, bounded by
// WithSweepConcurrency and paced by WithSweepRateLimit. Per-directory
// failures are logged and absorbed; the returned error is non-nil only when
// a root listing fails or ctx is canceled.
func (c *Cleaner) SweepOrphans(ctx context.Context, env *nodeenv.NodeEnvironment, live map[string]struct{}) error {
	orphans, err := findOrphans(env, live)
	if err != nil {
		return err
	}

	var dirs, purged atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.sweepConcurrency)
	for _, dir := range orphans {
		dir := dir
		g.Go(func() error {
			if c.sweepLimiter != nil {
				if err := c.sweepLimiter.Wait(ctx); err != nil {
					return err
				}
			} else if err := ctx.Err(); err != nil {
				return err
			}
			n, ok := c.sweepOrphanDir(dir)
			purged.Add(n)
			if ok {
				dirs.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	attrs := []any{"directories", dirs.Load(), "entries_purged", purged.Load()}
	if du, err := env.FileCacheDiskUsage(); err == nil {
		attrs = append(attrs, "disk_free_bytes", du.FreeBytes, "disk_total_bytes", du.TotalBytes)
	}
	c.logger.Info("orphan cache sweep completed", attrs...)
	return nil
}

// findOrphans lists index directories in both cache layouts and keeps the
// ones whose UUID is not live.
func findOrphans(env *nodeenv.NodeEnvironment, live map[string]struct{}) ([]string, error) {
	var orphans []string
	for _, root := range []string{env.FileCachePath(), env.CacheIndicesPath()} {
		ents, err := os.ReadDir(root)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		for _, ent := range ents {
			if !ent.IsDir() {
				continue
			}
			dir := filepath.Join(root, ent.Name())
			// The warm index-level tree lives inside the file-cache tree;
			// it is a layout directory, not an index UUID.
			if dir == env.CacheIndicesPath() {
				continue
			}
			if _, ok := live[ent.Name()]; ok {
				continue
			}
			orphans = append(orphans, dir)
		}
	}
	return orphans, nil
}

// sweepOrphanDir purges cache entries for every regular file under dir, then
// deletes the tree. Returns the number of entries purged and whether the
// directory was removed.
func (c *Cleaner) sweepOrphanDir(dir string) (int64, bool) {
	var purged int64
	if fc := c.resolveCache(); fc != nil {
		err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			real, err := filepath.EvalSymlinks(p)
			if err != nil {
				return err
			}
			fc.Remove(real)
			purged++
			return nil
		})
		if err != nil {
			// Purge abandoned; the directory is still reclaimed below.
			c.logger.Error("error removing items from cache for orphaned cache directory",
				"path", dir, "error", err)
		}
	}
	if err := os.RemoveAll(dir); err != nil {
		c.logger.Error("failed to delete orphaned cache directory", "path", dir, "error", err)
		return purged, false
	}
	return purged, true
}
