package services

import (
	"context"
	"errors"
	"time"

	"hrvd/internal/fitbit"
	"hrvd/internal/models"
	"hrvd/internal/providers"
	"hrvd/internal/structures"
)

// hrvWindowDays is the trailing window requested from the provider.
const hrvWindowDays = 30

type HrvServiceInterface interface {
	Refresh(ctx context.Context, user string) error
	RefreshAll(ctx context.Context)
	GetSeries(user string) ([]byte, bool)
	AuthorizedUsers() int
	CachedSeries() int
}

// HrvService is the fetch-and-cache orchestrator: it ensures a usable
// access token, pulls the trailing 30-day HRV window and overwrites the
// series cache. Single attempt per invocation; reliability comes from
// the scheduler re-invoking every tick.
type HrvService struct {
	conf    *structures.Config
	logger  providers.Logger
	client  fitbit.ClientInterface
	tokens  *models.TokenStore
	series  *models.SeriesCache
	cache   providers.CacheProviderInterface
	metrics providers.MetricsProviderInterface
}

func NewHrvService(
	conf *structures.Config,
	logger providers.Logger,
	client fitbit.ClientInterface,
	tokens *models.TokenStore,
	series *models.SeriesCache,
	cache providers.CacheProviderInterface,
	metrics providers.MetricsProviderInterface,
) HrvServiceInterface {
	return &HrvService{
		conf:    conf,
		logger:  logger,
		client:  client,
		tokens:  tokens,
		series:  series,
		cache:   cache,
		metrics: metrics,
	}
}

// Refresh fetches and caches the HRV series for one user. A refresh
// failure on an expired token is logged and the fetch is attempted
// anyway with the token on record: the call may then fail with an
// authorization error, but an occasionally-stale token must not turn
// the endpoint into a hard failure.
func (s *HrvService) Refresh(ctx context.Context, user string) error {
	userConf, ok := s.conf.User(user)
	if !ok {
		return fitbit.ErrUnknownUser
	}

	rec, ok := s.tokens.Get(user)
	if !ok || rec.AccessToken == "" {
		s.logger.Errorf(providers.TypeApp, "No access token found for %s", user)
		return fitbit.ErrNoToken
	}

	if rec.Expired(time.Now()) {
		s.logger.Infof(providers.TypeApp, "Access token for %s has expired. Refreshing token...", user)
		next, err := s.client.Refresh(ctx, userConf)
		if err != nil {
			s.metrics.IncTokenRefresh(user, false)
			s.logger.Errorf(providers.TypeApp, "Error refreshing access token for %s: %s", user, err)
		} else {
			s.metrics.IncTokenRefresh(user, true)
			if err := s.tokens.Put(user, next); err != nil {
				s.logger.Errorf(providers.TypeApp, "Error persisting refreshed token for %s: %s", user, err)
			}
		}
	}

	start, end := hrvWindow(time.Now())

	fetchStart := time.Now()
	payload, err := s.client.FetchHRV(ctx, userConf, start, end)
	s.metrics.ObserveFetchDuration(user, time.Since(fetchStart))
	if err != nil {
		s.metrics.IncFetch(user, false)
		if errors.Is(err, fitbit.ErrNoToken) {
			s.logger.Errorf(providers.TypeApp, "No access token found for %s", user)
		} else {
			s.logger.Errorf(providers.TypeApp, "Error fetching HRV data for %s: %s", user, err)
		}
		return err
	}

	s.series.Put(user, payload)
	s.cache.Del("hrv:" + user)
	s.metrics.IncFetch(user, true)
	s.logger.Infof(providers.TypeApp, "HRV data for %s cached successfully (%d bytes, %s..%s)", user, len(payload), start, end)
	return nil
}

// RefreshAll invokes Refresh for every configured user independently.
// The per-user cycles are unrelated operations, not a pipeline, so one
// slow provider call must not delay the others.
func (s *HrvService) RefreshAll(ctx context.Context) {
	for _, user := range s.conf.UserIDs() {
		go func(u string) {
			_ = s.Refresh(ctx, u)
		}(user)
	}
}

func (s *HrvService) GetSeries(user string) ([]byte, bool) {
	return s.series.Get(user)
}

func (s *HrvService) AuthorizedUsers() int {
	return s.tokens.Len()
}

func (s *HrvService) CachedSeries() int {
	return s.series.Len()
}

// hrvWindow computes the trailing window [today-30d, today] in the
// server's local calendar.
func hrvWindow(now time.Time) (start, end string) {
	end = now.Format("2006-01-02")
	start = now.AddDate(0, 0, -hrvWindowDays).Format("2006-01-02")
	return start, end
}
