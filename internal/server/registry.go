package server

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sranjan/examforge/internal/assessment"
)

// Registry holds live sessions in memory, keyed by session id. Sessions
// have no persistence: dropping one discards all of its state.
type Registry struct {
	analyzer     assessment.Analyzer
	generator    assessment.PartGenerator
	stageTimeout time.Duration
	log          *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*assessment.Session
}

// NewRegistry creates an empty session registry. New sessions are wired to
// the given stages.
func NewRegistry(analyzer assessment.Analyzer, generator assessment.PartGenerator, stageTimeout time.Duration, log *zap.Logger) *Registry {
	return &Registry{
		analyzer:     analyzer,
		generator:    generator,
		stageTimeout: stageTimeout,
		log:          log,
		sessions:     make(map[string]*assessment.Session),
	}
}

// Create makes a new Idle session and registers it.
func (r *Registry) Create() *assessment.Session {
	s := assessment.NewSession(r.analyzer, r.generator, r.stageTimeout, r.log)
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

// Get returns the session with the given id, or nil.
func (r *Registry) Get(id string) *assessment.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[id]
}

// Delete removes the session with the given id.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
