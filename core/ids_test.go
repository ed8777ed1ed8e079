package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStorageModeString(t *testing.T) {
	assert.Equal(t, "local", StorageModeLocal.String())
	assert.Equal(t, "remote_snapshot", StorageModeRemoteSnapshot.String())
	assert.Equal(t, "warm", StorageModeWarm.String())
	assert.Equal(t, "unknown(9)", StorageMode(9).String())
}

func TestSettingsPredicates(t *testing.T) {
	assert.True(t, Settings{Mode: StorageModeRemoteSnapshot}.IsRemoteSnapshot())
	assert.False(t, Settings{Mode: StorageModeRemoteSnapshot}.IsWarm())

	assert.True(t, Settings{Mode: StorageModeWarm}.IsWarm())
	assert.False(t, Settings{Mode: StorageModeWarm}.IsRemoteSnapshot())

	// Exactly one mode: local is neither.
	assert.False(t, Settings{Mode: StorageModeLocal}.IsRemoteSnapshot())
	assert.False(t, Settings{Mode: StorageModeLocal}.IsWarm())
}

func TestIdentityStrings(t *testing.T) {
	idx := Index{Name: "books", UUID: "abc123"}
	assert.Equal(t, "[books/abc123]", idx.String())

	sid := ShardID{Index: idx, ID: 7}
	assert.Equal(t, "[books][7]", sid.String())
}
