package core

import "fmt"

// Index identifies an index by its user-facing name and its immutable UUID.
// On-disk locations are keyed by UUID; the name exists for log readability.
type Index struct {
	Name string
	UUID string
}

func (i Index) String() string {
	return fmt.Sprintf("[%s/%s]", i.Name, i.UUID)
}

// ShardID identifies a single shard of an index.
type ShardID struct {
	Index Index
	ID    int
}

func (s ShardID) String() string {
	return fmt.Sprintf("[%s][%d]", s.Index.Name, s.ID)
}

// StorageMode describes where the authoritative copy of an index's data lives.
// A given index is in exactly one mode.
type StorageMode uint8

const (
	// StorageModeLocal indexes keep all data on the node; no file cache is involved.
	StorageModeLocal StorageMode = iota
	// StorageModeRemoteSnapshot indexes fetch data blocks on demand from remote
	// storage and cache them on local disk.
	StorageModeRemoteSnapshot
	// StorageModeWarm indexes keep their files primarily in a cold tier and
	// cache them locally on access.
	StorageModeWarm
)

func (m StorageMode) String() string {
	switch m {
	case StorageModeLocal:
		return "local"
	case StorageModeRemoteSnapshot:
		return "remote_snapshot"
	case StorageModeWarm:
		return "warm"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(m))
	}
}

// Settings carries the storage-related settings of an index that path
// resolution and cache cleanup need.
type Settings struct {
	Mode StorageMode

	// CustomDataPath, when non-empty, replaces the node data root for this
	// index's standard shard paths.
	CustomDataPath string
}

// IsRemoteSnapshot reports whether the index is backed by a remote snapshot.
func (s Settings) IsRemoteSnapshot() bool { return s.Mode == StorageModeRemoteSnapshot }

// IsWarm reports whether the index is a warm index.
func (s Settings) IsWarm() bool { return s.Mode == StorageModeWarm }
