// Package inventorysnapshots keeps a history of inventory snapshots in a write-ahead log.
package inventorysnapshots

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"

	"github.com/vadiminshakov/cryptotracker/internal/domain"
)

const (
	defaultDir       = "./wal/inventory"
	segmentThreshold = 1000
	maxSegments      = 100
	keyPrefix        = "inventory_snapshot_"
)

var errNotInitialized = errors.New("inventory snapshot store is not initialized")

// WALStore appends inventory snapshots to a WAL, one entry per run.
type WALStore struct {
	wal *gowal.Wal
	mu  sync.RWMutex
}

// NewWALStore opens or creates the log under dir.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = defaultDir
	}

	wal, err := gowal.NewWAL(gowal.Config{
		Dir:              dir,
		Prefix:           "inventory_",
		SegmentThreshold: segmentThreshold,
		MaxSegments:      maxSegments,
		IsInSyncDiskMode: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "init inventory snapshot WAL")
	}

	return &WALStore{wal: wal}, nil
}

// Save appends the snapshot and returns its index.
func (s *WALStore) Save(snapshot domain.InventorySnapshot) (uint64, error) {
	if s == nil || s.wal == nil {
		return 0, errNotInitialized
	}
	if snapshot.ID == "" {
		return 0, errors.New("inventory snapshot id is required")
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return 0, errors.Wrap(err, "marshal inventory snapshot")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.wal.CurrentIndex() + 1
	if err := s.wal.Write(index, keyPrefix+snapshot.ID, payload); err != nil {
		return 0, errors.Wrap(err, "write inventory snapshot")
	}

	return index, nil
}

// SnapshotsAfter returns snapshots written after index, oldest first.
func (s *WALStore) SnapshotsAfter(index uint64) ([]domain.InventorySnapshotRecord, error) {
	if s == nil || s.wal == nil {
		return nil, errNotInitialized
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.wal.CurrentIndex()
	if current <= index {
		return nil, nil
	}

	records := make([]domain.InventorySnapshotRecord, 0, current-index)
	for idx := index + 1; idx <= current; idx++ {
		key, payload, err := s.wal.Get(idx)
		if err != nil {
			continue
		}
		if !strings.HasPrefix(key, keyPrefix) {
			continue
		}
		var snapshot domain.InventorySnapshot
		if err := json.Unmarshal(payload, &snapshot); err != nil {
			return nil, errors.Wrapf(err, "decode inventory snapshot %d", idx)
		}
		records = append(records, domain.InventorySnapshotRecord{Index: idx, Snapshot: snapshot})
	}

	return records, nil
}

// Latest returns the most recent snapshot, if any.
func (s *WALStore) Latest() (domain.InventorySnapshotRecord, bool, error) {
	current := s.CurrentIndex()
	if current == 0 {
		return domain.InventorySnapshotRecord{}, false, nil
	}

	records, err := s.SnapshotsAfter(current - 1)
	if err != nil || len(records) == 0 {
		return domain.InventorySnapshotRecord{}, false, err
	}

	return records[len(records)-1], true, nil
}

func (s *WALStore) CurrentIndex() uint64 {
	if s == nil || s.wal == nil {
		return 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.wal.CurrentIndex()
}

func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return errNotInitialized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
