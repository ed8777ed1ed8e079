// Package cleaner keeps the node's file cache consistent with shard and
// index deletion.
//
// For remote-backed indices the authoritative data lives off-node and the
// local copy is only a cache. When the storage layer is about to delete a
// shard or index path, the cached entries for the files underneath it would
// eventually be noticed and evicted lazily; the Cleaner instead removes them
// deterministically, then deletes the on-disk cache directory, before the
// storage layer proceeds.
//
// # Ordering
//
// Within one notification the order is fixed: cache entries are purged first,
// the directory is reclaimed second. Reversing it would leave a window where
// the cache still references files that no longer exist.
//
// # Failure policy
//
// Everything is best effort. No failure escapes the listener methods: each is
// logged with the shard or index identity, the storage mode, and the phase,
// and the triggering deletion proceeds regardless. A failed purge does not
// prevent the reclaim; a failed reclaim leaves the directory for a later
// pass.
//
// # Wiring
//
//	fc := fscache.New()
//	cl := cleaner.New(func() cleaner.CacheRemover { return fc })
//	dispatcher.Register(cl) // cl implements store.Listener
package cleaner
