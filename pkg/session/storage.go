package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TokenStorage persists the bearer token across restarts. Load returns
// ErrNoToken when nothing is stored.
type TokenStorage interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// MemoryTokenStorage keeps the token in memory only. Used by tests and
// short-lived tools.
type MemoryTokenStorage struct {
	mu    sync.Mutex
	token string
}

// NewMemoryTokenStorage creates an empty in-memory storage.
func NewMemoryTokenStorage() *MemoryTokenStorage {
	return &MemoryTokenStorage{}
}

func (m *MemoryTokenStorage) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == "" {
		return "", ErrNoToken
	}
	return m.token, nil
}

func (m *MemoryTokenStorage) Save(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryTokenStorage) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}

// FileTokenStorage persists the token in a file, the closest analogue
// to a browser's key-value storage for CLI clients.
type FileTokenStorage struct {
	path string
}

// NewFileTokenStorage stores the token at path, creating parent
// directories on first save.
func NewFileTokenStorage(path string) *FileTokenStorage {
	return &FileTokenStorage{path: path}
}

func (f *FileTokenStorage) Load() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNoToken
		}
		return "", err
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

func (f *FileTokenStorage) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(f.path, []byte(token), 0o600)
}

func (f *FileTokenStorage) Clear() error {
	err := os.Remove(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
