package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// Store is a directory of msgpack-encoded Snapshots, each named by the
// SHA-256 hash of its own encoding.
type Store struct {
	dir string
}

// Open ensures dir exists and returns a Store rooted there.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) pathFor(hash string) string {
	return filepath.Join(s.dir, hash+".mir")
}

// Put encodes snap and writes it to "<hash>.mir", returning the content
// hash it was keyed under. Writing goes through a temp file and an
// atomic rename so a reader never observes a partially written entry;
// if an entry for the same hash already exists, Put leaves it alone.
func (s *Store) Put(snap *Snapshot) (string, error) {
	data, err := msgpack.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("cache: encode: %w", err)
	}
	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])
	path := s.pathFor(hash)

	if _, err := os.Stat(path); err == nil {
		return hash, nil
	}

	tmp, err := os.CreateTemp(s.dir, "tmp-*")
	if err != nil {
		return "", fmt.Errorf("cache: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("cache: %w", err)
	}
	return hash, nil
}

// Get reads back the Snapshot stored under hash, reporting whether it
// was present. Its Data fields (mir.Expr.Data, mir.Pattern.Data) come
// back as msgpack's generic map/slice representation rather than the
// original *Data struct, same as any interface-typed field decoded
// without a registered concrete type — callers that need the original
// Go shape should keep the Snapshot returned by NewSnapshot instead of
// round-tripping it through Get. A snapshot written under a different
// schemaVersion is reported as absent.
func (s *Store) Get(hash string) (*Snapshot, bool, error) {
	data, err := os.ReadFile(s.pathFor(hash))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache: %w", err)
	}
	var snap Snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return nil, false, fmt.Errorf("cache: decode: %w", err)
	}
	if snap.Schema != schemaVersion {
		return nil, false, nil
	}
	return &snap, true, nil
}
