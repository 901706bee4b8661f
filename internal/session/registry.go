package session

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vancomm/minesweeper-web/internal/mines"
)

var ErrNotFound = errors.New("session not found")

// Session is a single in-memory game. The game is only reachable through
// [Session.Do] so concurrent requests for the same session are serialized.
type Session struct {
	ID int64

	mu        sync.Mutex
	game      *mines.GameState
	startedAt atomic.Int64 /* unix nanoseconds, readable inside Do */

	lastSeen time.Time /* guarded by Registry.mu */
}

// Do runs fn against the session's game while holding the session lock.
func (s *Session) Do(fn func(g *mines.GameState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.game)
}

func (s *Session) StartedAt() time.Time {
	return time.Unix(0, s.startedAt.Load())
}

// Registry keeps every live session in memory. Nothing survives a restart.
type Registry struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	lastID   int64
	rnd      *rand.Rand

	idleTimeout time.Duration
	now         func() time.Time
	logger      logrus.FieldLogger
}

type Option = func(*Registry)

func WithIdleTimeout(d time.Duration) Option {
	return func(r *Registry) {
		r.idleTimeout = d
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

func NewRegistry(rnd *rand.Rand, options ...Option) *Registry {
	r := &Registry{
		sessions:    make(map[int64]*Session),
		rnd:         rnd,
		idleTimeout: 30 * time.Minute,
		now:         time.Now,
		logger:      logrus.StandardLogger(),
	}
	for _, op := range options {
		op(r)
	}
	return r
}

func (r *Registry) newGame(params mines.GameParams) (*mines.GameState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return mines.NewGame(params, r.rnd)
}

// Create starts a new game with the given params and registers it under a
// fresh id.
func (r *Registry) Create(params mines.GameParams) (*Session, error) {
	game, err := r.newGame(params)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++
	now := r.now()
	s := &Session{
		ID:       r.lastID,
		game:     game,
		lastSeen: now,
	}
	s.startedAt.Store(now.UnixNano())
	r.sessions[s.ID] = s

	r.logger.WithFields(logrus.Fields{
		"session_id": s.ID,
		"params":     params.String(),
	}).Debug("session created")

	return s, nil
}

// Get returns the session and marks it as recently used.
func (r *Registry) Get(id int64) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	s.lastSeen = r.now()
	return s, nil
}

// Restart throws the session's board away and deals a new one with the same
// params.
func (r *Registry) Restart(s *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	game, err := r.newGame(s.game.Params())
	if err != nil {
		return err
	}
	s.game = game
	s.startedAt.Store(r.now().UnixNano())

	r.logger.WithField("session_id", s.ID).Debug("session restarted")
	return nil
}

// Delete removes a session without checking if it existed.
func (r *Registry) Delete(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep evicts sessions that have not been used for longer than the idle
// timeout and reports how many were dropped.
func (r *Registry) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, s := range r.sessions {
		if now.Sub(s.lastSeen) > r.idleTimeout {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

// Run sweeps idle sessions every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := r.Sweep(r.now()); n > 0 {
				r.logger.WithFields(logrus.Fields{
					"evicted":   n,
					"remaining": r.Count(),
				}).Info("swept idle sessions")
			}
		}
	}
}
