package testutil

import (
	"context"
	"sync"
	"time"

	"hrvd/internal/models"
	"hrvd/internal/providers"
	"hrvd/internal/structures"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Levels returns the recorded log levels in order.
func (m *MockLogger) Levels() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.Logs))
	for _, e := range m.Logs {
		out = append(out, e.Level)
	}
	return out
}

// MockClient implements fitbit.ClientInterface with settable funcs.
type MockClient struct {
	mu sync.Mutex

	AuthorizeURLFn func(user structures.UserConfig) string
	ExchangeFn     func(ctx context.Context, user structures.UserConfig, code string) (models.TokenRecord, error)
	RefreshFn      func(ctx context.Context, user structures.UserConfig) (models.TokenRecord, error)
	FetchFn        func(ctx context.Context, user structures.UserConfig, start, end string) ([]byte, error)

	ExchangeCalls []string // user ids
	RefreshCalls  []string
	FetchCalls    []FetchCall
}

type FetchCall struct {
	User  string
	Start string
	End   string
}

func (m *MockClient) AuthorizeURL(user structures.UserConfig) string {
	if m.AuthorizeURLFn != nil {
		return m.AuthorizeURLFn(user)
	}
	return "https://provider.example/authorize?client_id=" + user.ClientID
}

func (m *MockClient) ExchangeCode(ctx context.Context, user structures.UserConfig, code string) (models.TokenRecord, error) {
	m.mu.Lock()
	m.ExchangeCalls = append(m.ExchangeCalls, user.ID)
	m.mu.Unlock()
	if m.ExchangeFn != nil {
		return m.ExchangeFn(ctx, user, code)
	}
	return models.TokenRecord{}, nil
}

func (m *MockClient) Refresh(ctx context.Context, user structures.UserConfig) (models.TokenRecord, error) {
	m.mu.Lock()
	m.RefreshCalls = append(m.RefreshCalls, user.ID)
	m.mu.Unlock()
	if m.RefreshFn != nil {
		return m.RefreshFn(ctx, user)
	}
	return models.TokenRecord{}, nil
}

func (m *MockClient) FetchHRV(ctx context.Context, user structures.UserConfig, start, end string) ([]byte, error) {
	m.mu.Lock()
	m.FetchCalls = append(m.FetchCalls, FetchCall{User: user.ID, Start: start, End: end})
	m.mu.Unlock()
	if m.FetchFn != nil {
		return m.FetchFn(ctx, user, start, end)
	}
	return []byte(`{"hrv":[]}`), nil
}

// MockCache implements providers.CacheProviderInterface on a plain map.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
	Dels []string
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.Data[key]
	return v, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Data == nil {
		m.Data = make(map[string][]byte)
	}
	m.Data[key] = value
}

func (m *MockCache) Del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
	m.Dels = append(m.Dels, key)
}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu             sync.Mutex
	Requests       int
	CacheHits      int
	CacheMisses    int
	FetchResults   []bool
	RefreshResults []bool
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}
func (m *MockMetrics) IncFetch(_ string, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchResults = append(m.FetchResults, success)
}
func (m *MockMetrics) ObserveFetchDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncTokenExchange(_ string, _ bool)              {}
func (m *MockMetrics) IncTokenRefresh(_ string, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RefreshResults = append(m.RefreshResults, success)
}

// MockCompressor implements poller interfaces.CompressorInterface as a
// pass-through, with optional overrides.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	return val, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	return val, nil
}

func (m *MockCompressor) Close() {}

// MockPersister implements models.TokenPersisterInterface in memory.
type MockPersister struct {
	mu      sync.Mutex
	Saved   map[string]models.TokenRecord
	SaveErr error
	LoadErr error
}

func (m *MockPersister) Save(records map[string]models.TokenRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Saved = records
	return nil
}

func (m *MockPersister) Load() (map[string]models.TokenRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Saved, nil
}
