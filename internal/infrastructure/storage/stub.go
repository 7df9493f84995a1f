package storage

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	apppayroll "github.com/erp/payroll/internal/application/payroll"
)

var _ apppayroll.StatementStorage = (*MemoryStatementStorage)(nil)

// MemoryStatementStorage keeps statements in process. It backs local runs
// without object storage; links point at BaseURL and expire with the process.
type MemoryStatementStorage struct {
	BaseURL string

	mu      sync.RWMutex
	objects map[string]storedObject
}

type storedObject struct {
	data        []byte
	contentType string
}

// NewMemoryStatementStorage creates an empty in-memory store
func NewMemoryStatementStorage(baseURL string) *MemoryStatementStorage {
	if baseURL == "" {
		baseURL = "http://localhost:8080/files"
	}
	return &MemoryStatementStorage{BaseURL: baseURL, objects: map[string]storedObject{}}
}

// Upload stores a copy of data
func (s *MemoryStatementStorage) Upload(_ context.Context, storageKey string, data []byte, contentType string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[storageKey] = storedObject{data: append([]byte(nil), data...), contentType: contentType}
	return nil
}

// GenerateDownloadURL returns a link for a stored key
func (s *MemoryStatementStorage) GenerateDownloadURL(_ context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	s.mu.RLock()
	_, ok := s.objects[storageKey]
	s.mu.RUnlock()
	if !ok {
		return "", time.Time{}, errors.New("statement " + storageKey + " not found")
	}
	if expiresIn <= 0 {
		expiresIn = defaultPresignExpiration
	}
	expiresAt := time.Now().Add(expiresIn)
	return s.BaseURL + "/" + url.PathEscape(storageKey) + "?expires=" + url.QueryEscape(expiresAt.UTC().Format(time.RFC3339)), expiresAt, nil
}

// Get returns a stored object
func (s *MemoryStatementStorage) Get(storageKey string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.objects[storageKey]
	return o.data, o.contentType, ok
}
