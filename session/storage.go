package session

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// Fixed storage keys. The session snapshot and the bearer token are
// persisted separately so the token never rides along with state reads.
const (
	StateKey = "auth-storage"
	TokenKey = "auth_token"
)

// Storage is durable client-side key/value storage. Values are stored as
// plain text (not encrypted); that is a noted caveat of the client state
// model, not a design target.
type Storage interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// FileStorage persists values as one file per key under a directory.
type FileStorage struct {
	dir string
}

// NewFileStorage creates the directory if needed and returns a store over it.
func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &FileStorage{dir: dir}, nil
}

func (fs *FileStorage) path(key string) string {
	return filepath.Join(fs.dir, key)
}

func (fs *FileStorage) Get(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(fs.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

func (fs *FileStorage) Set(key string, value []byte) error {
	return os.WriteFile(fs.path(key), value, 0o600)
}

func (fs *FileStorage) Delete(key string) error {
	err := os.Remove(fs.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// MemStorage is an in-memory Storage for tests and ephemeral sessions.
type MemStorage struct {
	mu sync.RWMutex
	m  map[string][]byte
}

func NewMemStorage() *MemStorage {
	return &MemStorage{m: make(map[string][]byte)}
}

func (ms *MemStorage) Get(key string) ([]byte, bool, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	value, ok := ms.m[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

func (ms *MemStorage) Set(key string, value []byte) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	ms.m[key] = stored
	return nil
}

func (ms *MemStorage) Delete(key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.m, key)
	return nil
}

// TokenStore adapts Storage to the client's bearer-token source. It
// satisfies antrean.TokenStore.
type TokenStore struct {
	storage Storage
}

func NewTokenStore(storage Storage) *TokenStore {
	return &TokenStore{storage: storage}
}

// Token reports the persisted bearer token, if any.
func (ts *TokenStore) Token() (string, bool) {
	value, ok, err := ts.storage.Get(TokenKey)
	if err != nil || !ok || len(value) == 0 {
		return "", false
	}
	return string(value), true
}

// SetToken persists the bearer token.
func (ts *TokenStore) SetToken(token string) error {
	return ts.storage.Set(TokenKey, []byte(token))
}

// ClearToken removes the persisted bearer token.
func (ts *TokenStore) ClearToken() error {
	return ts.storage.Delete(TokenKey)
}
