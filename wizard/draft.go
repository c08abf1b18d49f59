package wizard

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DraftStore persists partial answer sets between wizard sessions. The zero
// draft state is an absent key: Get returns (nil, nil) when nothing was saved.
type DraftStore interface {
	Get(key string) ([]byte, error)
	Set(key string, data []byte) error
	Clear(key string) error
}

// DraftKey builds the storage key for a location's draft.
func DraftKey(slug string) string {
	return "survey-" + slug
}

// MemoryStore is an in-process DraftStore, used in tests and as a fallback
// when no draft directory is configured.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string][]byte)}
}

func (s *MemoryStore) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.items[key]
	if !ok {
		return nil, nil
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

func (s *MemoryStore) Set(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.items[key] = cp
	return nil
}

func (s *MemoryStore) Clear(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

// FileStore keeps one JSON file per draft key under a directory. Drafts have
// no expiry; a draft sits on disk until submission clears it.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create draft dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	// Keys are derived from URL-safe slugs, but don't trust them with path
	// separators anyway.
	safe := strings.ReplaceAll(key, string(os.PathSeparator), "_")
	return filepath.Join(s.dir, safe+".json")
}

func (s *FileStore) Get(key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, nil
	}
	return data, err
}

func (s *FileStore) Set(key string, data []byte) error {
	return os.WriteFile(s.path(key), data, 0o644)
}

func (s *FileStore) Clear(key string) error {
	err := os.Remove(s.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
