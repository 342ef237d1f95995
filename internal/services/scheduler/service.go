// -----------------------------------------------------------------------
// Scheduler Service - Periodic re-ingest sweep over known tenants
// -----------------------------------------------------------------------

package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/interfaces"
)

// Service periodically re-ingests every tenant with a persisted index so
// document changes on disk flow into indexes without manual triggering.
// The sweep is serialized: a run skips tenants an ingestion is already
// running for, and a new sweep never starts while the previous one runs.
type Service struct {
	ingest interfaces.IngestService
	store  interfaces.IndexStore
	cron   *cron.Cron
	logger arbor.ILogger

	mu       sync.Mutex
	running  bool
	sweeping bool
}

// NewService creates a scheduler over the given ingest service and store.
func NewService(ingest interfaces.IngestService, store interfaces.IndexStore, logger arbor.ILogger) *Service {
	return &Service{
		ingest: ingest,
		store:  store,
		cron:   cron.New(),
		logger: logger,
	}
}

// Start begins the sweep on the given cron expression.
func (s *Service) Start(cronExpr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	if cronExpr == "" {
		cronExpr = "0 */6 * * *" // Default: every six hours
	}

	if _, err := s.cron.AddFunc(cronExpr, s.runSweep); err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info().
		Str("cron_expr", cronExpr).
		Msg("Re-ingest scheduler started")

	return nil
}

// Stop halts the scheduler, waiting for a running sweep's cron goroutine.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.running = false

	s.logger.Info().Msg("Re-ingest scheduler stopped")
}

// runSweep re-ingests each tenant that has a persisted index.
func (s *Service) runSweep() {
	s.mu.Lock()
	if s.sweeping {
		s.mu.Unlock()
		s.logger.Warn().Msg("Previous sweep still running, skipping")
		return
	}
	s.sweeping = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.sweeping = false
		s.mu.Unlock()
	}()

	tenants, err := s.store.ListTenants()
	if err != nil {
		s.logger.Error().Err(err).Msg("Sweep failed to list tenants")
		return
	}

	s.logger.Info().Int("tenants", len(tenants)).Msg("Starting re-ingest sweep")

	for _, tenantID := range tenants {
		if s.ingest.Ingesting(tenantID) {
			s.logger.Debug().
				Str("tenant_id", tenantID).
				Msg("Ingestion already running, sweep skips tenant")
			continue
		}

		if _, err := s.ingest.IngestTenant(context.Background(), tenantID); err != nil {
			// One tenant's failure must not stop the sweep
			s.logger.Error().
				Err(err).
				Str("tenant_id", tenantID).
				Msg("Sweep ingestion failed for tenant")
		}
	}

	s.logger.Info().Msg("Re-ingest sweep complete")
}
