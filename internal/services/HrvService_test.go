package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrvd/internal/fitbit"
	"hrvd/internal/models"
	"hrvd/internal/structures"
	"hrvd/internal/testutil"
)

func serviceConf() *structures.Config {
	return &structures.Config{
		Users: []structures.UserConfig{
			{ID: "user1", ClientID: "cid1", ClientSecret: "sec1"},
			{ID: "user2", ClientID: "cid2", ClientSecret: "sec2"},
		},
	}
}

type serviceFixture struct {
	service HrvServiceInterface
	client  *testutil.MockClient
	tokens  *models.TokenStore
	series  *models.SeriesCache
	cache   *testutil.MockCache
	logger  *testutil.MockLogger
}

func newFixture(t *testing.T) *serviceFixture {
	t.Helper()
	f := &serviceFixture{
		client: &testutil.MockClient{},
		tokens: models.NewTokenStore(&testutil.MockPersister{}),
		series: models.NewSeriesCache(),
		cache:  &testutil.MockCache{},
		logger: &testutil.MockLogger{},
	}
	f.service = NewHrvService(serviceConf(), f.logger, f.client, f.tokens, f.series, f.cache, &testutil.MockMetrics{})
	return f
}

func TestRefresh_UnknownUser(t *testing.T) {
	f := newFixture(t)
	err := f.service.Refresh(context.Background(), "nobody")
	assert.ErrorIs(t, err, fitbit.ErrUnknownUser)
}

func TestRefresh_NoTokenLeavesCacheUntouched(t *testing.T) {
	f := newFixture(t)
	f.series.Put("user1", []byte("previous"))

	err := f.service.Refresh(context.Background(), "user1")
	assert.ErrorIs(t, err, fitbit.ErrNoToken)

	payload, ok := f.series.Get("user1")
	require.True(t, ok)
	assert.Equal(t, []byte("previous"), payload)
	assert.Empty(t, f.client.FetchCalls)
}

func TestRefresh_ValidTokenSkipsRefresh(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.tokens.Put("user1", models.TokenRecord{
		AccessToken: "AT1",
		Expiry:      time.Now().Add(time.Hour),
	}))

	require.NoError(t, f.service.Refresh(context.Background(), "user1"))
	assert.Empty(t, f.client.RefreshCalls)
	require.Len(t, f.client.FetchCalls, 1)
}

func TestRefresh_ExpiredTokenTriggersRefresh(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.tokens.Put("user1", models.TokenRecord{
		AccessToken:  "AT-old",
		RefreshToken: "RT1",
		Expiry:       time.Now().Add(-time.Millisecond),
	}))
	f.client.RefreshFn = func(_ context.Context, _ structures.UserConfig) (models.TokenRecord, error) {
		return models.TokenRecord{AccessToken: "AT-new", RefreshToken: "RT2", Expiry: time.Now().Add(time.Hour)}, nil
	}

	require.NoError(t, f.service.Refresh(context.Background(), "user1"))

	assert.Equal(t, []string{"user1"}, f.client.RefreshCalls)
	rec, _ := f.tokens.Get("user1")
	assert.Equal(t, "AT-new", rec.AccessToken)
}

func TestRefresh_RefreshFailureStillAttemptsFetch(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.tokens.Put("user1", models.TokenRecord{
		AccessToken:  "AT-stale",
		RefreshToken: "RT1",
		Expiry:       time.Now().Add(-time.Hour),
	}))
	f.client.RefreshFn = func(_ context.Context, _ structures.UserConfig) (models.TokenRecord, error) {
		return models.TokenRecord{}, &fitbit.RefreshError{StatusCode: 401, Body: "nope"}
	}
	f.client.FetchFn = func(_ context.Context, _ structures.UserConfig, _, _ string) ([]byte, error) {
		return []byte(`{"hrv":[]}`), nil
	}

	// Best-effort policy: the fetch proceeds with the stale token.
	require.NoError(t, f.service.Refresh(context.Background(), "user1"))
	require.Len(t, f.client.FetchCalls, 1)

	rec, _ := f.tokens.Get("user1")
	assert.Equal(t, "AT-stale", rec.AccessToken)
}

func TestRefresh_FetchFailurePreservesCache(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.tokens.Put("user1", models.TokenRecord{
		AccessToken: "AT1",
		Expiry:      time.Now().Add(time.Hour),
	}))
	f.series.Put("user1", []byte("previous"))
	f.client.FetchFn = func(_ context.Context, _ structures.UserConfig, _, _ string) ([]byte, error) {
		return nil, &fitbit.FetchError{Err: errors.New("connection reset")}
	}

	err := f.service.Refresh(context.Background(), "user1")
	require.Error(t, err)

	payload, ok := f.series.Get("user1")
	require.True(t, ok)
	assert.Equal(t, []byte("previous"), payload)
}

func TestRefresh_SuccessOverwritesCacheAndInvalidatesResponses(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.tokens.Put("user1", models.TokenRecord{
		AccessToken: "AT1",
		Expiry:      time.Now().Add(time.Hour),
	}))
	f.series.Put("user1", []byte("old"))
	f.cache.Set("hrv:user1", []byte("old"))
	f.client.FetchFn = func(_ context.Context, _ structures.UserConfig, _, _ string) ([]byte, error) {
		return []byte(`{"hrv":[{"dateTime":"2024-01-01","value":{"dailyRmssd":42.5}}]}`), nil
	}

	require.NoError(t, f.service.Refresh(context.Background(), "user1"))

	payload, ok := f.series.Get("user1")
	require.True(t, ok)
	assert.JSONEq(t, `{"hrv":[{"dateTime":"2024-01-01","value":{"dailyRmssd":42.5}}]}`, string(payload))
	assert.Contains(t, f.cache.Dels, "hrv:user1")
}

func TestRefresh_WindowIsTrailing30Days(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.tokens.Put("user1", models.TokenRecord{
		AccessToken: "AT1",
		Expiry:      time.Now().Add(time.Hour),
	}))

	require.NoError(t, f.service.Refresh(context.Background(), "user1"))
	require.Len(t, f.client.FetchCalls, 1)

	call := f.client.FetchCalls[0]
	now := time.Now()
	assert.Equal(t, now.Format("2006-01-02"), call.End)
	assert.Equal(t, now.AddDate(0, 0, -30).Format("2006-01-02"), call.Start)
}

func TestRefreshAll_InvokesEveryUser(t *testing.T) {
	f := newFixture(t)
	for _, u := range []string{"user1", "user2"} {
		require.NoError(t, f.tokens.Put(u, models.TokenRecord{
			AccessToken: "AT-" + u,
			Expiry:      time.Now().Add(time.Hour),
		}))
	}

	f.service.RefreshAll(context.Background())

	// Per-user cycles run in their own goroutines.
	assert.Eventually(t, func() bool {
		return f.series.Len() == 2
	}, time.Second, 10*time.Millisecond)
}

func TestHrvWindowFormat(t *testing.T) {
	now := time.Date(2024, 2, 15, 12, 0, 0, 0, time.Local)
	start, end := hrvWindow(now)
	assert.Equal(t, "2024-01-16", start)
	assert.Equal(t, "2024-02-15", end)
}
