// Package store defines the listener contract through which the storage
// lifecycle notifies interested components before it removes shard or index
// paths from disk.
package store

import (
	"github.com/tierstore/fscache/core"
	"github.com/tierstore/fscache/nodeenv"
)

// Listener is notified synchronously, strictly before the corresponding path
// is physically removed. Implementations must contain their own failures:
// returning from either method signals that the caller may proceed with
// deletion, and nothing a listener does may block or fail that deletion.
type Listener interface {
	// BeforeShardPathDeleted fires before a shard's paths are removed.
	BeforeShardPathDeleted(id core.ShardID, settings core.Settings, env *nodeenv.NodeEnvironment)

	// BeforeIndexPathDeleted fires before an index's paths are removed,
	// after all of its shards have been handled.
	BeforeIndexPathDeleted(index core.Index, settings core.Settings, env *nodeenv.NodeEnvironment)
}

// CompositeListener fans each notification out to its listeners in
// registration order.
type CompositeListener struct {
	listeners []Listener
}

// NewComposite creates a CompositeListener over the given listeners.
func NewComposite(ls ...Listener) *CompositeListener {
	return &CompositeListener{listeners: ls}
}

func (c *CompositeListener) BeforeShardPathDeleted(id core.ShardID, settings core.Settings, env *nodeenv.NodeEnvironment) {
	for _, l := range c.listeners {
		l.BeforeShardPathDeleted(id, settings, env)
	}
}

func (c *CompositeListener) BeforeIndexPathDeleted(index core.Index, settings core.Settings, env *nodeenv.NodeEnvironment) {
	for _, l := range c.listeners {
		l.BeforeIndexPathDeleted(index, settings, env)
	}
}
