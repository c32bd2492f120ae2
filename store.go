package sprout

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Keys of the documents in a Store.
const (
	KeyCash      = "cash"
	KeyPortfolio = "portfolio"
	KeyWatchlist = "watchlist"
)

// Store is a key-value durable storage for documents.
//
// Load returns an error matching fs.ErrNotExist when the key was never saved.
type Store interface {
	Load(key string) ([]byte, error)
	Save(key string, data []byte) error
}

// DirStore stores each document as a json file in a folder.
//
// The folder is meant to be human readable, and git friendly.
type DirStore struct {
	Dir string
}

func (s DirStore) path(key string) string { return filepath.Join(s.Dir, key+".json") }

func (s DirStore) Load(key string) ([]byte, error) {
	return os.ReadFile(s.path(key))
}

// Save replaces the document atomically: a crash never leaves a truncated file.
func (s DirStore) Save(key string, data []byte) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(s.Dir, "."+key+"-*.json")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, s.path(key)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("cannot replace %q: %w", s.path(key), err)
	}
	return nil
}

// MemoryStore keeps documents in memory. Its zero value is ready to use.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string][]byte
}

func (s *MemoryStore) Load(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.docs[key]
	if !ok {
		return nil, fmt.Errorf("document %q: %w", key, fs.ErrNotExist)
	}
	return append([]byte(nil), data...), nil
}

func (s *MemoryStore) Save(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.docs == nil {
		s.docs = make(map[string][]byte)
	}
	s.docs[key] = append([]byte(nil), data...)
	return nil
}
