package identity

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStorage persists the session token in a single file, the server-side
// analogue of the browser's localStorage slot.
type FileStorage struct {
	path string
}

// NewFileStorage constructs a FileStorage rooted at the given path.
func NewFileStorage(path string) (*FileStorage, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("identity: storage path required")
	}
	return &FileStorage{path: path}, nil
}

// Load reads the persisted token.
func (s *FileStorage) Load() (string, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrTokenNotStored
	}
	if err != nil {
		return "", err
	}
	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", ErrTokenNotStored
	}
	return token, nil
}

// Save writes the token, creating parent directories as needed.
func (s *FileStorage) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(token+"\n"), 0o600)
}

// MemoryStorage keeps the token in memory only. Useful for tests and for
// callers that manage persistence themselves.
type MemoryStorage struct {
	mu    sync.Mutex
	token string
}

// NewMemoryStorage constructs an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Load returns the stored token.
func (s *MemoryStorage) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return "", ErrTokenNotStored
	}
	return s.token, nil
}

// Save stores the token.
func (s *MemoryStorage) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}
