package app

import (
	"slices"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/chatline/chatline/internal/core"
	"github.com/chatline/chatline/internal/domain"
)

// Presence tracks the single active connection per authenticated user.
// One entry per user: a second connection from the same identity overwrites
// the first (last-connect-wins, no multi-device fan-out). Held in memory
// only; reset on process restart.
//
// Each connection runs on its own goroutine, so mutations take a lock.
type Presence struct {
	mu      sync.RWMutex
	entries map[domain.UserID]core.ConnID
}

func NewPresence() *Presence {
	return &Presence{
		entries: make(map[domain.UserID]core.ConnID),
	}
}

// Register binds uid to its current connection. Unconditional upsert.
func (p *Presence) Register(uid domain.UserID, connID core.ConnID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries[uid] = connID
	log.Info().Str("module", "app.presence").Str("uid", string(uid)).Str("conn", string(connID)).Msg("registered connection")
}

// Remove drops uid's entry. No-op when absent.
func (p *Presence) Remove(uid domain.UserID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.entries, uid)
	log.Info().Str("module", "app.presence").Str("uid", string(uid)).Msg("removed connection")
}

// Lookup answers "what connection currently represents uid". A false return
// means the user is offline, which is the normal case, not a failure.
func (p *Presence) Lookup(uid domain.UserID) (core.ConnID, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	connID, ok := p.entries[uid]
	return connID, ok
}

// Online returns all currently-registered identities, sorted for a stable
// wire representation.
func (p *Presence) Online() []domain.UserID {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]domain.UserID, 0, len(p.entries))
	for uid := range p.entries {
		out = append(out, uid)
	}
	slices.Sort(out)
	return out
}
