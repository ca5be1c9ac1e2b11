// Package session hands out the anonymous identifier used to attribute
// likes. The id lives in a small key/value store that plays the role of
// browser local storage: it survives restarts, never expires, and is scoped
// to one store rather than to a person.
package session

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
)

// StorageKey is the key the session id is persisted under.
const StorageKey = "session_id"

// Store is persistent client-side key/value storage.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Provider creates the session id lazily and remembers it in its store.
type Provider struct {
	store Store
	log   *log.Logger
	now   func() time.Time
}

// NewProvider returns a provider backed by store. A nil store yields a
// provider that always answers "", which disables personalization.
func NewProvider(store Store, logger *log.Logger) *Provider {
	if logger == nil {
		logger = log.Default()
	}
	return &Provider{store: store, log: logger, now: time.Now}
}

// GetOrCreateSessionID returns the stored id, creating and storing one on
// first use. Storage failures degrade to "".
func (p *Provider) GetOrCreateSessionID() string {
	if p == nil || p.store == nil {
		return ""
	}
	id, ok, err := p.store.Get(StorageKey)
	if err != nil {
		p.log.Printf("Reading session id: %v", err)
		return ""
	}
	if ok && id != "" {
		return id
	}

	id = newSessionID(p.now())
	if err := p.store.Set(StorageKey, id); err != nil {
		p.log.Printf("Storing session id: %v", err)
		return ""
	}
	return id
}

// newSessionID combines a millisecond timestamp with a 9 character random
// suffix, e.g. session_1717171717171_3f9c2a1b0.
func newSessionID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("session_%d_%s", now.UnixMilli(), suffix)
}
