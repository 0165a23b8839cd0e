package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memPersister is a local, in-memory persister for token store tests.
type memPersister struct {
	saved   map[string]TokenRecord
	saveErr error
	calls   int
}

func (p *memPersister) Save(records map[string]TokenRecord) error {
	p.calls++
	if p.saveErr != nil {
		return p.saveErr
	}
	p.saved = records
	return nil
}

func (p *memPersister) Load() (map[string]TokenRecord, error) {
	return p.saved, nil
}

func TestTokenStore_GetAbsent(t *testing.T) {
	s := NewTokenStore(&memPersister{})
	_, ok := s.Get("user1")
	assert.False(t, ok)
}

func TestTokenStore_PutOverwrites(t *testing.T) {
	s := NewTokenStore(&memPersister{})

	require.NoError(t, s.Put("user1", TokenRecord{AccessToken: "old"}))
	require.NoError(t, s.Put("user1", TokenRecord{AccessToken: "new"}))

	rec, ok := s.Get("user1")
	require.True(t, ok)
	assert.Equal(t, "new", rec.AccessToken)
	assert.Equal(t, 1, s.Len())
}

func TestTokenStore_PutPersistsWholeMapping(t *testing.T) {
	p := &memPersister{}
	s := NewTokenStore(p)

	recB := TokenRecord{AccessToken: "ATB", RefreshToken: "RTB", Expiry: time.UnixMilli(1700000000000)}
	require.NoError(t, s.Put("user2", recB))
	require.NoError(t, s.Put("user1", TokenRecord{AccessToken: "ATA"}))

	// Updating user1 must persist user2's record unchanged as well.
	require.Contains(t, p.saved, "user2")
	assert.Equal(t, recB, p.saved["user2"])
	assert.Contains(t, p.saved, "user1")
	assert.Equal(t, 2, p.calls)
}

func TestTokenStore_PutSurfacesPersistenceError(t *testing.T) {
	p := &memPersister{saveErr: errors.New("disk full")}
	s := NewTokenStore(p)

	err := s.Put("user1", TokenRecord{AccessToken: "AT1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersistence)

	// The in-memory update is never dropped.
	rec, ok := s.Get("user1")
	require.True(t, ok)
	assert.Equal(t, "AT1", rec.AccessToken)
}

func TestTokenStore_Restore(t *testing.T) {
	p := &memPersister{saved: map[string]TokenRecord{
		"user1": {AccessToken: "AT1", RefreshToken: "RT1", Expiry: time.UnixMilli(1800000000000)},
	}}
	s := NewTokenStore(p)

	require.NoError(t, s.Restore())
	rec, ok := s.Get("user1")
	require.True(t, ok)
	assert.Equal(t, "RT1", rec.RefreshToken)
}

func TestTokenRecord_ExpiredBoundary(t *testing.T) {
	now := time.Now()

	expired := TokenRecord{Expiry: now.Add(-time.Millisecond)}
	assert.True(t, expired.Expired(now))

	valid := TokenRecord{Expiry: now.Add(time.Millisecond)}
	assert.False(t, valid.Expired(now))

	// Exactly at expiry is still valid: the comparison is strictly after.
	exact := TokenRecord{Expiry: now}
	assert.False(t, exact.Expired(now))
}

func TestTokenRecord_JSONExpiryMillis(t *testing.T) {
	rec := TokenRecord{
		AccessToken:  "AT1",
		RefreshToken: "RT1",
		Expiry:       time.UnixMilli(1730000000123),
	}

	data, err := rec.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"accessToken":"AT1","refreshToken":"RT1","expiry":1730000000123}`, string(data))

	var back TokenRecord
	require.NoError(t, back.UnmarshalJSON(data))
	assert.Equal(t, rec.Expiry.UnixMilli(), back.Expiry.UnixMilli())
	assert.Equal(t, "AT1", back.AccessToken)
}
