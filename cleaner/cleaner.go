package cleaner

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/time/rate"

	"github.com/tierstore/fscache/core"
	"github.com/tierstore/fscache/nodeenv"
	"github.com/tierstore/fscache/store"
)

// ErrCacheUnavailable indicates the cache provider returned no handle.
var ErrCacheUnavailable = errors.New("file cache unavailable")

// CacheRemover is the slice of the file cache the cleaner consumes.
// Remove must tolerate concurrent invocation and treat absent paths as a
// no-op; *fscache.Cache satisfies it.
type CacheRemover interface {
	Remove(path string)
}

// CacheProvider supplies the lazily-resolved shared cache handle. It is
// called on every operation and never cached; returning nil means the cache
// is not (yet) available, in which case purges are skipped.
type CacheProvider func() CacheRemover

// Cleaner reacts to before-deletion notifications by purging file-cache
// entries and deleting cache directories. It implements store.Listener.
type Cleaner struct {
	cache  CacheProvider
	logger *slog.Logger

	sweepConcurrency int
	sweepLimiter     *rate.Limiter
}

var _ store.Listener = (*Cleaner)(nil)

// Option configures a Cleaner.
type Option func(*Cleaner)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Cleaner) { c.logger = l }
}

// WithSweepConcurrency bounds how many orphaned directories SweepOrphans
// works on at once. Values <= 0 fall back to the default.
func WithSweepConcurrency(n int) Option {
	return func(c *Cleaner) {
		if n > 0 {
			c.sweepConcurrency = n
		}
	}
}

// WithSweepRateLimit paces SweepOrphans directory removals to opsPerSecond,
// keeping a background sweep from saturating the cache disk.
func WithSweepRateLimit(opsPerSecond float64) Option {
	return func(c *Cleaner) {
		c.sweepLimiter = rate.NewLimiter(rate.Limit(opsPerSecond), 1)
	}
}

// New creates a Cleaner over the given cache provider.
func New(cache CacheProvider, opts ...Option) *Cleaner {
	c := &Cleaner{
		cache:            cache,
		sweepConcurrency: defaultSweepConcurrency,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// BeforeShardPathDeleted purges cache entries for the shard's cached files
// and deletes the shard's cache directory. Failures are logged, never
// returned: the caller proceeds with physical deletion regardless.
func (c *Cleaner) BeforeShardPathDeleted(id core.ShardID, settings core.Settings, env *nodeenv.NodeEnvironment) {
	switch {
	case settings.IsRemoteSnapshot():
		sp := env.ResolveCacheShardPath(id)
		c.purgeShardFiles(sp.LocalStorePath(), id, settings.Mode)
		c.reclaim(sp.DataPath, "shard", id.String(), "mode", settings.Mode.String())

	case settings.IsWarm():
		sp, ok, err := c.resolveWarmShardPath(id, settings, env)
		if err != nil || !ok {
			return
		}
		c.purgeShardFiles(sp.WarmCachePath(), id, settings.Mode)
		c.reclaim(sp.DataPath, "shard", id.String(), "mode", settings.Mode.String())
	}
}

// BeforeIndexPathDeleted deletes the index-level cache directory. No purge
// happens here: per-file entries were already purged shard by shard.
func (c *Cleaner) BeforeIndexPathDeleted(index core.Index, settings core.Settings, env *nodeenv.NodeEnvironment) {
	switch {
	case settings.IsRemoteSnapshot():
		c.reclaim(env.IndexCachePath(index), "index", index.String(), "mode", settings.Mode.String())
	case settings.IsWarm():
		c.reclaim(filepath.Join(env.CacheIndicesPath(), index.UUID), "index", index.String(), "mode", settings.Mode.String())
	}
}

func (c *Cleaner) resolveWarmShardPath(id core.ShardID, settings core.Settings, env *nodeenv.NodeEnvironment) (nodeenv.ShardPath, bool, error) {
	sp, ok, err := env.ResolveShardPath(id, settings.CustomDataPath)
	if err != nil {
		c.logger.Error("failed to resolve warm shard path, skipping file cache cleanup",
			"shard", id.String(), "mode", settings.Mode.String(), "error", err)
		return nodeenv.ShardPath{}, false, err
	}
	// ok=false means the shard's cache was never materialized on this node.
	return sp, ok, nil
}

// purgeShardFiles drops cache entries for the immediate children of dir. The
// cache keys entries by symlink-resolved real path, so each child is
// canonicalized first; a purge addressed to the logical path would miss
// entries inserted through a relocated cache mount.
//
// Best effort: the first listing or canonicalization failure abandons the
// purge for this directory. The subsequent reclaim still runs.
func (c *Cleaner) purgeShardFiles(dir string, id core.ShardID, mode core.StorageMode) {
	fc := c.resolveCache()
	if fc == nil {
		c.logger.Error("skipping cache purge during shard deletion",
			"shard", id.String(), "mode", mode.String(), "error", ErrCacheUnavailable)
		return
	}
	if err := purgeDir(fc, dir); err != nil {
		c.logger.Error("error removing items from cache during shard deletion",
			"shard", id.String(), "mode", mode.String(), "path", dir, "error", err)
	}
}

func purgeDir(fc CacheRemover, dir string) error {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, ent := range ents {
		real, err := filepath.EvalSymlinks(filepath.Join(dir, ent.Name()))
		if err != nil {
			return err
		}
		fc.Remove(real)
	}
	return nil
}

// reclaim deletes a cache directory tree. An absent path is a no-op; any
// failure is logged and the tree is left for a later pass.
func (c *Cleaner) reclaim(path string, attrs ...any) {
	if _, err := os.Lstat(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			c.logger.Error("failed to stat cache path", append(attrs, "path", path, "error", err)...)
		}
		return
	}
	if err := os.RemoveAll(path); err != nil {
		c.logger.Error("failed to delete cache path", append(attrs, "path", path, "error", err)...)
	}
}

func (c *Cleaner) resolveCache() CacheRemover {
	if c.cache == nil {
		return nil
	}
	return c.cache()
}
