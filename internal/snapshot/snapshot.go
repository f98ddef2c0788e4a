package snapshot

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Version is the schema version stamped on every persisted document.
// A stored document carrying any other version is treated as corrupted.
const Version = 1

var (
	ErrNotFound        = errors.New("snapshot not found")
	ErrVersionMismatch = errors.New("snapshot version mismatch")
)

type document struct {
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// Store persists named full-document JSON snapshots in a directory.
// Every save rewrites the whole document; every load reads it whole.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Save(name string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	out, err := json.Marshal(document{Version: Version, Data: raw})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path(name), out, 0o644)
}

func (s *Store) Load(name string, v any) error {
	b, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return err
	}

	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	if doc.Version != Version {
		return ErrVersionMismatch
	}
	return json.Unmarshal(doc.Data, v)
}

// Purge removes the persisted record. A missing record is not an error.
func (s *Store) Purge(name string) error {
	err := os.Remove(s.path(name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}
