package relay

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"devicerelay/internal/domain/entity"
	"devicerelay/internal/errors"

	"github.com/benbjohnson/clock"
	lru "github.com/hashicorp/golang-lru/v2"
)

const tokenBytes = 32

type pendingToken struct {
	identity entity.DeviceIdentity
	issuedAt time.Time
}

// TokenIssuer binds device identities to single-use handshake tokens.
// Tokens live only in memory; the oldest are evicted once capacity is reached
// and anything older than the TTL is rejected on consume.
type TokenIssuer struct {
	clock  clock.Clock
	ttl    time.Duration
	tokens *lru.Cache[string, pendingToken]
}

// NewTokenIssuer creates a token set holding at most capacity tokens.
func NewTokenIssuer(clk clock.Clock, capacity int, ttl time.Duration) (*TokenIssuer, error) {
	cache, err := lru.New[string, pendingToken](capacity)
	if err != nil {
		return nil, errors.Wrap(err, "create token cache")
	}

	return &TokenIssuer{
		clock:  clk,
		ttl:    ttl,
		tokens: cache,
	}, nil
}

// Issue generates a token bound to identity.
func (i *TokenIssuer) Issue(identity entity.DeviceIdentity) (string, error) {
	if err := ValidateIdentity(identity); err != nil {
		return "", err
	}

	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "generate token")
	}
	token := base64.RawURLEncoding.EncodeToString(buf)

	i.tokens.Add(token, pendingToken{identity: identity, issuedAt: i.clock.Now()})

	return token, nil
}

// Consume removes the token and returns its identity. A token can be consumed once.
func (i *TokenIssuer) Consume(token string) (entity.DeviceIdentity, error) {
	pending, ok := i.tokens.Peek(token)
	if !ok {
		return entity.DeviceIdentity{}, ErrTokenNotFound
	}
	i.tokens.Remove(token)

	if i.expired(pending) {
		return entity.DeviceIdentity{}, errors.Wrap(ErrTokenNotFound, "token expired")
	}

	return pending.identity, nil
}

// Live reports whether any unexpired token is outstanding.
func (i *TokenIssuer) Live() bool {
	for _, token := range i.tokens.Keys() {
		if pending, ok := i.tokens.Peek(token); ok && !i.expired(pending) {
			return true
		}
	}

	return false
}

// Purge drops every outstanding token.
func (i *TokenIssuer) Purge() {
	i.tokens.Purge()
}

func (i *TokenIssuer) expired(p pendingToken) bool {
	return i.clock.Since(p.issuedAt) > i.ttl
}
