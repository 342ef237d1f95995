// -----------------------------------------------------------------------
// Index Store - Durable per-tenant index persistence on the filesystem
// -----------------------------------------------------------------------

package index

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/interfaces"
	"github.com/ternarybob/respondeo/internal/models"
)

const indexFileName = "index.gob"

// FileStore persists tenant indexes as gob files, one directory per tenant
// under the configured root. Replacement is write-temp-then-rename so a
// crash mid-write leaves either the old complete index or the new complete
// index on disk, never a torn file.
type FileStore struct {
	root   string
	logger arbor.ILogger
}

var _ interfaces.IndexStore = (*FileStore)(nil)

// NewFileStore creates a store rooted at dir, creating it if needed.
func NewFileStore(dir string, logger arbor.ILogger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create index root directory: %w", err)
	}
	return &FileStore{
		root:   dir,
		logger: logger,
	}, nil
}

// Persist writes the index under the tenant's directory, atomically
// replacing any prior version.
func (s *FileStore) Persist(tenantID string, idx *models.TenantIndex) error {
	if tenantID == "" {
		return fmt.Errorf("tenant ID is required")
	}

	tenantDir := filepath.Join(s.root, tenantID)
	if err := os.MkdirAll(tenantDir, 0755); err != nil {
		return fmt.Errorf("failed to create tenant directory: %w", err)
	}

	// Write to a temp file in the same directory so the rename is atomic
	tmp, err := os.CreateTemp(tenantDir, indexFileName+".tmp-")
	if err != nil {
		return fmt.Errorf("failed to create temp index file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := gob.NewEncoder(tmp).Encode(idx); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to encode index: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync index file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close index file: %w", err)
	}

	finalPath := filepath.Join(tenantDir, indexFileName)
	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace index file: %w", err)
	}

	s.logger.Info().
		Str("tenant_id", tenantID).
		Int("chunks", idx.Len()).
		Str("path", finalPath).
		Msg("Persisted tenant index")

	return nil
}

// Load reads the tenant's persisted index. A missing index surfaces
// models.ErrTenantNotFound; an undecodable one is logged and surfaces
// models.ErrIndexCorrupt.
func (s *FileStore) Load(tenantID string) (*models.TenantIndex, error) {
	path := filepath.Join(s.root, tenantID, indexFileName)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("tenant %s: %w", tenantID, models.ErrTenantNotFound)
		}
		return nil, fmt.Errorf("failed to open index file: %w", err)
	}
	defer f.Close()

	var idx models.TenantIndex
	if err := gob.NewDecoder(f).Decode(&idx); err != nil {
		s.logger.Error().
			Err(err).
			Str("tenant_id", tenantID).
			Str("path", path).
			Msg("Persisted index is undecodable")
		return nil, fmt.Errorf("tenant %s: %w", tenantID, models.ErrIndexCorrupt)
	}

	return &idx, nil
}

// ListTenants enumerates tenant ids with a persisted index, sorted.
func (s *FileStore) ListTenants() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read index root: %w", err)
	}

	var tenants []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(s.root, entry.Name(), indexFileName)); err == nil {
			tenants = append(tenants, entry.Name())
		}
	}
	sort.Strings(tenants)
	return tenants, nil
}
