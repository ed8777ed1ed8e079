package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tierstore/fscache/core"
	"github.com/tierstore/fscache/nodeenv"
)

type recordingListener struct {
	name  string
	calls *[]string
}

func (l *recordingListener) BeforeShardPathDeleted(id core.ShardID, _ core.Settings, _ *nodeenv.NodeEnvironment) {
	*l.calls = append(*l.calls, l.name+":shard:"+id.String())
}

func (l *recordingListener) BeforeIndexPathDeleted(index core.Index, _ core.Settings, _ *nodeenv.NodeEnvironment) {
	*l.calls = append(*l.calls, l.name+":index:"+index.String())
}

func TestCompositeDispatchOrder(t *testing.T) {
	var calls []string
	a := &recordingListener{name: "a", calls: &calls}
	b := &recordingListener{name: "b", calls: &calls}
	composite := NewComposite(a, b)

	env := nodeenv.New(t.TempDir())
	idx := core.Index{Name: "books", UUID: "u1"}
	id := core.ShardID{Index: idx, ID: 2}
	settings := core.Settings{Mode: core.StorageModeWarm}

	composite.BeforeShardPathDeleted(id, settings, env)
	composite.BeforeIndexPathDeleted(idx, settings, env)

	assert.Equal(t, []string{
		"a:shard:[books][2]",
		"b:shard:[books][2]",
		"a:index:[books/u1]",
		"b:index:[books/u1]",
	}, calls)
}

func TestCompositeEmpty(t *testing.T) {
	composite := NewComposite()
	env := nodeenv.New(t.TempDir())

	// Must not panic with nothing registered.
	composite.BeforeShardPathDeleted(core.ShardID{}, core.Settings{}, env)
	composite.BeforeIndexPathDeleted(core.Index{}, core.Settings{}, env)
}
