package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var ErrKeyNotFound = errors.New("key not found")

// LocalStore persists key/value pairs as JSON files in a directory.
type LocalStore struct {
	dir string
}

// persistedValue is the on-disk representation of a single entry.
type persistedValue struct {
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewLocalStore creates a file-backed store rooted at dir, creating the
// directory if it does not exist.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStore{dir: dir}, nil
}

// Set persists a value under the given key.
func (ls *LocalStore) Set(key, value string) error {
	data := persistedValue{
		Value:     value,
		UpdatedAt: time.Now(),
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	if err := os.WriteFile(ls.filePath(key), jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write value file: %w", err)
	}

	return nil
}

// Get retrieves the value stored under key, or ErrKeyNotFound.
func (ls *LocalStore) Get(key string) (string, error) {
	filePath := ls.filePath(key)

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return "", ErrKeyNotFound
	}

	jsonData, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read value file: %w", err)
	}

	var data persistedValue
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return "", fmt.Errorf("failed to unmarshal value: %w", err)
	}

	return data.Value, nil
}

// Delete removes the value stored under key.
func (ls *LocalStore) Delete(key string) error {
	if !ls.Exists(key) {
		return ErrKeyNotFound
	}

	if err := os.Remove(ls.filePath(key)); err != nil {
		return fmt.Errorf("failed to remove value file: %w", err)
	}

	return nil
}

// Exists reports whether a value is stored under key.
func (ls *LocalStore) Exists(key string) bool {
	_, err := os.Stat(ls.filePath(key))
	return err == nil
}

// filePath returns the full file path for a key. Keys are flattened so they
// cannot escape the storage directory.
func (ls *LocalStore) filePath(key string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(key)
	return filepath.Join(ls.dir, fmt.Sprintf("%s.json", safe))
}
