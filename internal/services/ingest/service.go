// -----------------------------------------------------------------------
// Ingest Service - Extract, chunk, embed and index a tenant's documents
// -----------------------------------------------------------------------

package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/common"
	"github.com/ternarybob/respondeo/internal/interfaces"
	"github.com/ternarybob/respondeo/internal/models"
)

// Service runs the full ingestion pipeline for a tenant: discover PDFs,
// extract text, chunk, embed, build the index, persist it and invalidate
// the cache entry. Ingestions for the same tenant are serialized; different
// tenants may ingest in parallel.
type Service struct {
	documentsRoot string
	extractor     interfaces.Extractor
	chunker       interfaces.Chunker
	builder       interfaces.IndexBuilder
	store         interfaces.IndexStore
	cache         interfaces.IndexCache
	docStorage    interfaces.DocumentStorage
	logger        arbor.ILogger

	mu     sync.Mutex
	locks  map[string]*sync.Mutex
	active map[string]bool
}

var _ interfaces.IngestService = (*Service)(nil)

// NewService creates an ingest service over the tenant document tree rooted
// at documentsRoot, where each tenant's PDFs live in a directory named by
// its tenant id.
func NewService(
	documentsRoot string,
	extractor interfaces.Extractor,
	chunker interfaces.Chunker,
	builder interfaces.IndexBuilder,
	store interfaces.IndexStore,
	cache interfaces.IndexCache,
	docStorage interfaces.DocumentStorage,
	logger arbor.ILogger,
) *Service {
	return &Service{
		documentsRoot: documentsRoot,
		extractor:     extractor,
		chunker:       chunker,
		builder:       builder,
		store:         store,
		cache:         cache,
		docStorage:    docStorage,
		logger:        logger,
		locks:         make(map[string]*sync.Mutex),
		active:        make(map[string]bool),
	}
}

// IngestTenant processes every PDF in the tenant's document directory.
// The previously persisted index, if any, keeps serving queries until the
// new one replaces it in a single atomic step.
func (s *Service) IngestTenant(ctx context.Context, tenantID string) (*models.IngestResult, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("tenant ID is required")
	}

	lock := s.tenantLock(tenantID)
	lock.Lock()
	defer lock.Unlock()

	s.setActive(tenantID, true)
	defer s.setActive(tenantID, false)

	start := time.Now()
	s.logger.Info().Str("tenant_id", tenantID).Msg("Starting ingestion")

	paths, err := s.discoverPDFs(tenantID)
	if err != nil {
		return nil, err
	}

	result := &models.IngestResult{TenantID: tenantID}
	var chunks []models.Chunk
	seq := 0

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		doc, err := s.registerDocument(tenantID, path)
		if err != nil {
			return nil, err
		}

		pages, err := s.extractor.Extract(ctx, doc)
		if err != nil {
			var exErr *models.ExtractionError
			if errors.As(err, &exErr) {
				// Unreadable document fails alone; the run continues
				s.logger.Warn().
					Err(err).
					Str("tenant_id", tenantID).
					Str("file", doc.FileName).
					Msg("Document unreadable, skipping")
				doc.Status = models.IngestStatusFailed
				doc.Error = exErr.Err.Error()
				if saveErr := s.docStorage.SaveDocument(doc); saveErr != nil {
					s.logger.Warn().Err(saveErr).Str("file", doc.FileName).Msg("Failed to record document failure")
				}
				result.FailedDocs = append(result.FailedDocs, doc.FileName)
				continue
			}
			return nil, err
		}

		for _, page := range pages {
			if page.Empty() {
				result.EmptyPages++
			} else {
				result.Pages++
			}
		}

		docChunks := s.chunker.Chunk(doc, pages, seq)
		seq += len(docChunks)
		chunks = append(chunks, docChunks...)

		doc.Status = models.IngestStatusIndexed
		doc.Error = ""
		if err := s.docStorage.SaveDocument(doc); err != nil {
			return nil, fmt.Errorf("failed to save document record: %w", err)
		}
		result.Documents++
	}

	// A run where every document failed must not replace the tenant's
	// previously servable index with an empty one.
	if result.Documents == 0 {
		return nil, &models.IngestFailedError{
			TenantID:   tenantID,
			FailedDocs: result.FailedDocs,
		}
	}

	// All-or-nothing: an embedding failure aborts here and the previously
	// persisted index stays servable.
	idx, err := s.builder.Build(ctx, tenantID, chunks)
	if err != nil {
		return nil, err
	}

	if err := s.store.Persist(tenantID, idx); err != nil {
		return nil, fmt.Errorf("failed to persist index: %w", err)
	}

	// Readers must never serve the superseded in-memory copy
	s.cache.Invalidate(tenantID)

	result.Chunks = idx.Len()
	result.Duration = time.Since(start)
	result.CompletedAt = time.Now()

	s.logger.Info().
		Str("tenant_id", tenantID).
		Int("documents", result.Documents).
		Int("failed_docs", len(result.FailedDocs)).
		Int("pages", result.Pages).
		Int("empty_pages", result.EmptyPages).
		Int("chunks", result.Chunks).
		Dur("duration", result.Duration).
		Msg("Ingestion complete")

	return result, nil
}

// Ingesting reports whether an ingestion is currently running for the tenant.
func (s *Service) Ingesting(tenantID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active[tenantID]
}

// discoverPDFs lists the tenant's PDF files in stable filename order.
func (s *Service) discoverPDFs(tenantID string) ([]string, error) {
	dir := filepath.Join(s.documentsRoot, tenantID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("tenant %s: %w", tenantID, models.ErrNoDocuments)
		}
		return nil, fmt.Errorf("failed to read tenant directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("tenant %s: %w", tenantID, models.ErrNoDocuments)
	}

	sort.Strings(paths)
	return paths, nil
}

// registerDocument finds or creates the registry record for a source file.
func (s *Service) registerDocument(tenantID, path string) (*models.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	doc, err := s.docStorage.GetDocumentByPath(tenantID, path)
	if err != nil {
		doc = &models.Document{
			ID:       common.NewDocumentID(),
			TenantID: tenantID,
			Path:     path,
			FileName: filepath.Base(path),
		}
	}

	doc.SizeBytes = info.Size()
	doc.Status = models.IngestStatusPending
	doc.PageStrategies = nil

	return doc, nil
}

// tenantLock returns the serialization lock for a tenant, creating it on
// first use.
func (s *Service) tenantLock(tenantID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[tenantID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[tenantID] = lock
	}
	return lock
}

func (s *Service) setActive(tenantID string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if active {
		s.active[tenantID] = true
	} else {
		delete(s.active, tenantID)
	}
}
