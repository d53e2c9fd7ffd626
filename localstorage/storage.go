package localstorage

import (
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// Keys used by the application. The database image key is shared with the
// browser build so an exported image can be moved between the two.
const (
	KeyDatabaseImage    = "ghuman-groceries-sqlite"
	KeyDarkMode         = "darkMode"
	KeyPaymentRecipient = "paymentRecipientName"
	KeyPaymentUPIID     = "paymentUpiId"
)

// Storage is a string key/value store with local-storage semantics
type Storage interface {
	GetItem(key string) (string, bool, error)
	SetItem(key, value string) error
	RemoveItem(key string) error
}

// FileStorage keeps one file per key inside a directory
type FileStorage struct {
	dir string
}

// Ensure FileStorage implements Storage
var _ Storage = (*FileStorage)(nil)

// NewFileStorage creates the directory if needed and returns a FileStorage rooted at it
func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create local storage directory %s", dir)
	}
	return &FileStorage{dir: dir}, nil
}

func (s *FileStorage) path(key string) string {
	return filepath.Join(s.dir, url.PathEscape(key)+".item")
}

// GetItem returns the stored value and whether the key exists
func (s *FileStorage) GetItem(key string) (string, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, errors.Wrapf(err, "failed to read local storage key %s", key)
	}
	return string(data), true, nil
}

// SetItem replaces the value of key. The write goes through a temp file and a
// rename so a crash never leaves a half-written image behind.
func (s *FileStorage) SetItem(key, value string) error {
	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return errors.Wrap(err, "failed to create temp file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrapf(err, "failed to write local storage key %s", key)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "failed to close local storage key %s", key)
	}
	if err := os.Rename(tmpName, s.path(key)); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "failed to replace local storage key %s", key)
	}
	return nil
}

// RemoveItem deletes key. Removing a missing key is not an error.
func (s *FileStorage) RemoveItem(key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to remove local storage key %s", key)
	}
	return nil
}

// Memory is an in-process Storage
type Memory struct {
	mu    sync.RWMutex
	items map[string]string
}

// Ensure Memory implements Storage
var _ Storage = (*Memory)(nil)

// NewMemory returns an empty Memory storage
func NewMemory() *Memory {
	return &Memory{items: make(map[string]string)}
}

func (m *Memory) GetItem(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *Memory) SetItem(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *Memory) RemoveItem(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}
