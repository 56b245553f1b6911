// Package jobs is the durable worker fabric: a job_type -> Handler registry
// dispatched by a SKIP-LOCKED claim loop, with heartbeats, panic recovery,
// and cooperative cancellation.
package jobs

import (
	"context"
	"fmt"
	"sync"

	"github.com/yungbote/neurobridge-backend/internal/data/repos"
)

// RunContext is handed to a Handler for the duration of one job execution.
// Ctx is cancelled when the worker pool shuts down; handlers should check
// Cancelled periodically on long-running loops to support cooperative
// cancellation via Job.CancelFlag.
type RunContext struct {
	Ctx       context.Context
	JobID     string
	JobType   string
	Params    []byte
	Repo      repos.JobRepo
	Cancelled func() bool
	Progress  func(pct float64)
}

type Handler interface {
	Run(rc RunContext) ([]byte, error)
}

type HandlerFunc func(rc RunContext) ([]byte, error)

func (f HandlerFunc) Run(rc RunContext) ([]byte, error) { return f(rc) }

// Registry maps a job type string to the Handler that executes it.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: map[string]Handler{}}
}

func (r *Registry) Register(jobType string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[jobType] = h
}

func (r *Registry) Get(jobType string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[jobType]
	return h, ok
}

type MissingHandlerError struct{ JobType string }

func (e *MissingHandlerError) Error() string {
	return fmt.Sprintf("no handler registered for job type %q", e.JobType)
}
