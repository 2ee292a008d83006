// Package pay abstracts the checkout provider. Handlers only see the
// Gateway interface, so the hosted provider can be swapped without
// touching booking code.
package pay

import (
	"context"
	"fmt"
	"sync"
	"time"

	"roamly/globals"

	"github.com/google/uuid"
)

// Session is one started checkout. The client is redirected to URL and
// the provider calls back with ID.
type Session struct {
	ID        string  `json:"id"`
	URL       string  `json:"url"`
	TourID    string  `json:"tourId"`
	UserID    string  `json:"userId"`
	Email     string  `json:"email"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	CreatedAt int64   `json:"createdAt"`
}

// Gateway starts checkout sessions and resolves provider callbacks.
type Gateway interface {
	CreateSession(ctx context.Context, s Session) (*Session, error)
	LookupSession(ctx context.Context, id string) (*Session, error)
}

// Local is the development gateway: sessions live in memory and the
// redirect URL points back at the site with the session id attached.
type Local struct {
	baseURL string

	mu       sync.RWMutex
	sessions map[string]Session
}

func NewLocal() *Local {
	return &Local{
		baseURL:  globals.Env("CHECKOUT_BASE_URL", "http://localhost:4000"),
		sessions: make(map[string]Session),
	}
}

func (l *Local) CreateSession(_ context.Context, s Session) (*Session, error) {
	s.ID = "cs_" + uuid.NewString()
	s.CreatedAt = time.Now().Unix()
	if s.Currency == "" {
		s.Currency = "usd"
	}
	s.URL = fmt.Sprintf("%s/?session=%s&tour=%s", l.baseURL, s.ID, s.TourID)

	l.mu.Lock()
	l.sessions[s.ID] = s
	l.mu.Unlock()
	return &s, nil
}

func (l *Local) LookupSession(_ context.Context, id string) (*Session, error) {
	l.mu.RLock()
	s, ok := l.sessions[id]
	l.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown checkout session %q", id)
	}
	return &s, nil
}

// Default is the process-wide gateway; tests substitute their own.
var Default Gateway = NewLocal()
