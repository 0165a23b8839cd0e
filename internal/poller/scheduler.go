package poller

import (
	"context"
	"sync"

	"github.com/roylee0704/gron"

	"hrvd/internal/models"
	"hrvd/internal/poller/interfaces"
	"hrvd/internal/providers"
	"hrvd/internal/services"
	"hrvd/internal/structures"
)

// Scheduler drives the periodic HRV polling and the cold snapshot of
// the series cache. One refresh cycle runs for every user at startup,
// then again on every poll tick for the life of the process. No jitter,
// no catch-up on missed ticks.
type Scheduler struct {
	config  *structures.Config
	logger  providers.Logger
	service services.HrvServiceInterface
	tokens  *models.TokenStore
	series  *models.SeriesCache
	cold    *ColdStorage
	cron    *gron.Cron
	opsMu   sync.Mutex
}

func (s *Scheduler) Init() {
	s.logger.Infof(providers.TypeApp, "Running initial HRV refresh for %d users", len(s.config.Users))
	s.service.RefreshAll(context.Background())

	s.cron = gron.New()

	s.cron.AddFunc(gron.Every(s.config.Poll.Interval), func() {
		s.logger.Infof(providers.TypeApp, "Polling HRV data for all users...")
		s.service.RefreshAll(context.Background())
	})

	s.cron.AddFunc(gron.Every(s.config.Persistence.SaveInterval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		err := s.cold.Snapshot(s.series.Snapshot())
		if err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while writing cold snapshot: %s", err)
			return
		}
		s.logger.Infof(providers.TypeApp, "Cold snapshot written to %s", s.cold.filePath())
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Restore reloads persisted state at startup. Disabled by default: the
// reference behavior starts with an empty token store even when a valid
// token file exists on disk (see DESIGN.md).
func (s *Scheduler) Restore() error {
	if !s.config.Persistence.RestoreOnStart {
		s.logger.Infof(providers.TypeApp, "Restore on start disabled, starting with empty stores")
		return nil
	}

	if err := s.tokens.Restore(); err != nil {
		return err
	}
	s.logger.Infof(providers.TypeApp, "Restored %d token records from %s", s.tokens.Len(), s.config.Persistence.TokenFile)

	series, err := s.cold.Restore()
	if err != nil {
		return err
	}
	if series != nil {
		s.series.PutAll(series)
	}
	return nil
}

// Persist writes a final cold snapshot. Token records need no action
// here: the store persists itself synchronously on every Put.
func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Writing final cold snapshot...")
	err := s.cold.Snapshot(s.series.Snapshot())
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while writing cold snapshot: %s", err)
		return err
	}
	return nil
}

func NewScheduler(
	config *structures.Config,
	logger providers.Logger,
	service services.HrvServiceInterface,
	tokens *models.TokenStore,
	series *models.SeriesCache,
	cold *ColdStorage,
) interfaces.SchedulerInterface {
	return &Scheduler{
		config:  config,
		logger:  logger,
		service: service,
		tokens:  tokens,
		series:  series,
		cold:    cold,
	}
}
