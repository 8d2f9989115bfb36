// Package session tracks per-run state that log records and journal entries
// are tagged with.
package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Context holds the current session. Log handlers may read it from other
// goroutines.
type Context struct {
	mu      sync.RWMutex
	id      uuid.UUID
	started time.Time
	frame   uint64
	player  string
	bound   bool
}

// NewContext starts a session with a fresh id.
func NewContext(started time.Time) *Context {
	return &Context{id: uuid.New(), started: started}
}

// ID returns the session id.
func (c *Context) ID() uuid.UUID {
	return c.id
}

// StartedAt returns when the session began.
func (c *Context) StartedAt() time.Time {
	return c.started
}

// Advance records that a new frame began and returns its number.
func (c *Context) Advance() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frame++
	return c.frame
}

// Frame returns the current frame number.
func (c *Context) Frame() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.frame
}

// SetPlayer records the identified player's name. An empty name clears it.
func (c *Context) SetPlayer(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.player = name
}

// Player returns the identified player's name.
func (c *Context) Player() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.player
}

// SetHealthBound records whether a health binding is held.
func (c *Context) SetHealthBound(b bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bound = b
}

// HealthBound reports whether a health binding is held.
func (c *Context) HealthBound() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bound
}

// LogAttrs returns the attributes added to every log record.
func (c *Context) LogAttrs() []slog.Attr {
	c.mu.RLock()
	defer c.mu.RUnlock()
	attrs := []slog.Attr{
		slog.String("session", c.id.String()),
		slog.Uint64("frame", c.frame),
	}
	if c.player != "" {
		attrs = append(attrs, slog.String("player", c.player))
	}
	return append(attrs, slog.Bool("healthBound", c.bound))
}
