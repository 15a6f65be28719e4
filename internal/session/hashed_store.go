package session

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/alexedwards/scs/v2"
)

// HashedStore keys session records by an HMAC of the cookie value, so the
// backing store never holds a usable session id.
type HashedStore struct {
	store  scs.Store
	secret []byte
}

var (
	_ scs.Store    = (*HashedStore)(nil)
	_ scs.CtxStore = (*HashedStore)(nil)
)

// NewHashedStore wraps store, keying records with secret.
func NewHashedStore(store scs.Store, secret string) *HashedStore {
	return &HashedStore{store: store, secret: []byte(secret)}
}

func (s *HashedStore) key(token string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}

// Find returns the session data for token.
func (s *HashedStore) Find(token string) ([]byte, bool, error) {
	return s.store.Find(s.key(token))
}

// Commit stores session data for token until expiry.
func (s *HashedStore) Commit(token string, b []byte, expiry time.Time) error {
	return s.store.Commit(s.key(token), b, expiry)
}

// Delete removes the session data for token.
func (s *HashedStore) Delete(token string) error {
	return s.store.Delete(s.key(token))
}

// FindCtx is Find with a context, forwarded when the backing store supports it.
func (s *HashedStore) FindCtx(ctx context.Context, token string) ([]byte, bool, error) {
	if cs, ok := s.store.(scs.CtxStore); ok {
		return cs.FindCtx(ctx, s.key(token))
	}
	return s.Find(token)
}

// CommitCtx is Commit with a context.
func (s *HashedStore) CommitCtx(ctx context.Context, token string, b []byte, expiry time.Time) error {
	if cs, ok := s.store.(scs.CtxStore); ok {
		return cs.CommitCtx(ctx, s.key(token), b, expiry)
	}
	return s.Commit(token, b, expiry)
}

// DeleteCtx is Delete with a context.
func (s *HashedStore) DeleteCtx(ctx context.Context, token string) error {
	if cs, ok := s.store.(scs.CtxStore); ok {
		return cs.DeleteCtx(ctx, s.key(token))
	}
	return s.Delete(token)
}
