package interfaces

import (
	"context"
	"errors"

	"github.com/ternarybob/respondeo/internal/models"
)

// ErrKeyNotFound is returned when a key/value lookup misses.
var ErrKeyNotFound = errors.New("key not found")

// DocumentStorage persists the per-tenant registry of source documents and
// their extraction provenance.
type DocumentStorage interface {
	SaveDocument(doc *models.Document) error
	GetDocument(id string) (*models.Document, error)
	GetDocumentByPath(tenantID, path string) (*models.Document, error)
	ListDocuments(tenantID string) ([]*models.Document, error)
	ListTenantIDs() ([]string, error)
	DeleteDocument(id string) error
	CountDocuments(tenantID string) (int, error)
}

// KeyValueStorage provides simple key/value persistence, used for API key
// resolution and small operational state.
type KeyValueStorage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string]string, error)
}

// StorageManager provides access to all storage interfaces
type StorageManager interface {
	DocumentStorage() DocumentStorage
	KeyValueStorage() KeyValueStorage
	Close() error
}
