// Package health provides liveness and readiness handlers for the dashboard
// process. Readiness is derived from the client lifecycle: the process is
// ready once the persisted session has been hydrated and the listener is
// accepting requests, and not-ready again while draining for shutdown.
package health

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
)

// HydrationSource reports whether the one-time load of persisted identity
// has completed. *session.Store satisfies it.
type HydrationSource interface {
	Hydrated() bool
}

// Checker derives the readiness of the dashboard process. Hydration state is
// read live from the session store; only the listener and drain transitions
// are recorded here. It is safe for concurrent use.
type Checker struct {
	sessions HydrationSource
	serving  atomic.Bool
	draining atomic.Bool
}

// NewChecker creates a Checker observing the given hydration source.
func NewChecker(sessions HydrationSource) *Checker {
	return &Checker{sessions: sessions}
}

// SetServing marks the listener as accepting requests.
func (c *Checker) SetServing() {
	c.serving.Store(true)
}

// SetDraining marks the process as shutting down. Draining is terminal.
func (c *Checker) SetDraining() {
	c.draining.Store(true)
}

// IsReady reports whether the process should receive traffic: persisted
// identity hydrated, listener up, not draining.
func (c *Checker) IsReady() bool {
	return !c.draining.Load() && c.serving.Load() && c.sessions.Hydrated()
}

// State returns the lifecycle position as a human-readable string.
func (c *Checker) State() string {
	switch {
	case c.draining.Load():
		return "draining"
	case c.IsReady():
		return "ready"
	default:
		return "starting"
	}
}

type statusBody struct {
	Status string `json:"status"`
}

// LivenessHandler always responds 200; the process is alive.
func (*Checker) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeStatus(w, http.StatusOK, "ok")
	}
}

// ReadinessHandler responds 200 when ready, 503 while starting or draining.
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		code := http.StatusOK
		if !c.IsReady() {
			code = http.StatusServiceUnavailable
		}
		writeStatus(w, code, c.State())
	}
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(statusBody{Status: status})
}
