// Package session keeps one STRAC session per browser. The browser holds a
// signed token naming its session; the sessions themselves stay in memory.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/iwvelando/strac/pkg/strac"
	"go.uber.org/zap"
)

// ErrInvalidToken is returned for tokens that are malformed or not signed
// with the store's key.
var ErrInvalidToken = errors.New("invalid session token")

type entry struct {
	session  *strac.Session
	lastSeen time.Time
}

// Store maps session ids to sessions and expires the ones left idle longer
// than its TTL.
type Store struct {
	logger   *zap.Logger
	key      []byte
	ttl      time.Duration
	now      func() time.Time
	mu       sync.Mutex
	sessions map[string]*entry
}

// NewStore creates a store signing tokens with key. An empty key is replaced
// by a random one, which invalidates tokens across restarts.
func NewStore(logger *zap.Logger, key []byte, ttl time.Duration) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("failed to generate session key: %w", err)
		}
		logger.Warn("no session key configured, using a random key",
			zap.String("op", "session.NewStore"),
		)
	}
	return &Store{
		logger:   logger,
		key:      key,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}, nil
}

// Issue starts a new empty session and returns it with its signed token.
func (s *Store) Issue() (*strac.Session, string, error) {
	id, err := newID()
	if err != nil {
		return nil, "", err
	}

	claims := jwt.RegisteredClaims{
		Subject:  id,
		IssuedAt: jwt.NewNumericDate(s.now()),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign session token: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireLocked()
	sess := strac.NewSession()
	s.sessions[id] = &entry{session: sess, lastSeen: s.now()}

	s.logger.Debug("session issued",
		zap.String("op", "session.Issue"),
		zap.Int("active", len(s.sessions)),
	)
	return sess, token, nil
}

// Resolve returns the session named by token. A valid token whose session
// has expired gets a fresh empty session under the same id.
func (s *Store) Resolve(token string) (*strac.Session, error) {
	id, err := s.subject(token)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok || s.expired(e) {
		e = &entry{session: strac.NewSession()}
		s.sessions[id] = e
	}
	e.lastSeen = s.now()
	return e.session, nil
}

// Len returns the number of sessions held, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Expire drops idle sessions and returns how many were removed.
func (s *Store) Expire() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expireLocked()
}

func (s *Store) expireLocked() int {
	removed := 0
	for id, e := range s.sessions {
		if s.expired(e) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Debug("expired idle sessions",
			zap.String("op", "session.Expire"),
			zap.Int("removed", removed),
		)
	}
	return removed
}

func (s *Store) expired(e *entry) bool {
	return s.ttl > 0 && s.now().Sub(e.lastSeen) > s.ttl
}

func (s *Store) subject(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

func newID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	return hex.EncodeToString(b), nil
}
