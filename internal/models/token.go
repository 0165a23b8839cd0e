package models

import (
	"errors"
	"fmt"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

// ErrPersistence marks a failed write of the token mapping to disk.
// The in-memory update is applied regardless, so callers must surface
// the error instead of dropping it.
var ErrPersistence = errors.New("token store persistence failed")

// TokenRecord is the OAuth credential set for one user. Expiry is the
// absolute instant the access token stops being valid, derived as
// issuance time + expires_in at every exchange or refresh.
type TokenRecord struct {
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
}

// tokenRecordJSON is the on-disk shape, expiry as Unix milliseconds.
type tokenRecordJSON struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Expiry       int64  `json:"expiry"`
}

func (t TokenRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(tokenRecordJSON{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		Expiry:       t.Expiry.UnixMilli(),
	})
}

func (t *TokenRecord) UnmarshalJSON(data []byte) error {
	var raw tokenRecordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t.AccessToken = raw.AccessToken
	t.RefreshToken = raw.RefreshToken
	t.Expiry = time.UnixMilli(raw.Expiry)
	return nil
}

// Expired reports whether the access token is past its expiry.
// The comparison is strict: a record expiring exactly at now is still valid.
func (t TokenRecord) Expired(now time.Time) bool {
	return now.After(t.Expiry)
}

// TokenPersisterInterface persists the whole user→record mapping.
type TokenPersisterInterface interface {
	Save(records map[string]TokenRecord) error
	Load() (map[string]TokenRecord, error)
}

// TokenStore keeps one TokenRecord per user. Every Put rewrites the
// complete mapping through the persister before returning.
type TokenStore struct {
	mu        sync.RWMutex
	records   map[string]TokenRecord
	persister TokenPersisterInterface
}

func NewTokenStore(persister TokenPersisterInterface) *TokenStore {
	return &TokenStore{
		records:   make(map[string]TokenRecord),
		persister: persister,
	}
}

func (s *TokenStore) Get(user string) (TokenRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[user]
	return rec, ok
}

// Put replaces the record for user and synchronously persists the full
// mapping. On persistence failure the in-memory update is kept and an
// ErrPersistence-wrapped error is returned.
func (s *TokenStore) Put(user string, rec TokenRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[user] = rec

	snapshot := make(map[string]TokenRecord, len(s.records))
	for u, r := range s.records {
		snapshot[u] = r
	}
	if err := s.persister.Save(snapshot); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}

// Restore replaces the in-memory mapping with the persisted one.
// Only called at startup when restore-on-start is enabled.
func (s *TokenStore) Restore() error {
	records, err := s.persister.Load()
	if err != nil {
		return err
	}
	if records == nil {
		records = make(map[string]TokenRecord)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	return nil
}

func (s *TokenStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
