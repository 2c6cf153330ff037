package store

import (
	"errors"
	"fmt"

	"github.com/df-mc/goleveldb/leveldb"
	"github.com/df-mc/goleveldb/leveldb/opt"
	"github.com/df-mc/goleveldb/leveldb/storage"
	"github.com/google/uuid"

	"github.com/oriumgames/ranged"
)

// keyPrefix namespaces weapon instance keys, so the database may be shared.
const keyPrefix = "ranged:instance:"

// LevelDB is a ranged.Store backed by a LevelDB database.
//
// Concurrency:
// LevelDB is safe for concurrent use.
type LevelDB struct {
	db *leveldb.DB
}

// Compile-time check that LevelDB implements ranged.Store.
var _ ranged.Store = (*LevelDB)(nil)

// OpenLevelDB opens, or creates, the LevelDB database in dir.
func OpenLevelDB(dir string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(dir, &opt.Options{
		Compression: opt.FlateCompression,
		BlockSize:   16 * opt.KiB,
	})
	if err != nil {
		return nil, fmt.Errorf("open leveldb %q: %w", dir, err)
	}
	return &LevelDB{db: db}, nil
}

// OpenMemory opens a LevelDB database held in memory. Its contents are lost on
// Close.
func OpenMemory() (*LevelDB, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, fmt.Errorf("open memory leveldb: %w", err)
	}
	return &LevelDB{db: db}, nil
}

func key(id uuid.UUID) []byte {
	return append([]byte(keyPrefix), id[:]...)
}

// Load ...
func (l *LevelDB) Load(id uuid.UUID) (ranged.Snapshot, bool, error) {
	b, err := l.db.Get(key(id), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return ranged.Snapshot{}, false, nil
	}
	if err != nil {
		return ranged.Snapshot{}, false, fmt.Errorf("load %s: %w", id, err)
	}
	s, err := Decode(b)
	if err != nil {
		return ranged.Snapshot{}, false, fmt.Errorf("load %s: %w", id, err)
	}
	return s, true, nil
}

// Save ...
func (l *LevelDB) Save(id uuid.UUID, s ranged.Snapshot) error {
	b, err := Encode(s)
	if err != nil {
		return fmt.Errorf("save %s: %w", id, err)
	}
	if err := l.db.Put(key(id), b, nil); err != nil {
		return fmt.Errorf("save %s: %w", id, err)
	}
	return nil
}

// Delete ...
func (l *LevelDB) Delete(id uuid.UUID) error {
	if err := l.db.Delete(key(id), nil); err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	return nil
}

// Close ...
func (l *LevelDB) Close() error {
	return l.db.Close()
}
