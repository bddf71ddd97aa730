// Package server provides the local dashboard HTTP server: the public
// landing view with its login and signup forms, and the guarded dashboard
// subtree. Views only read session state and call the remote API; identity
// decisions live in pkg/session and pkg/guard.
package server

import (
	"embed"
	"html/template"
	"net/http"
	"sync"

	"github.com/Aditya3403/feedbackcentral/pkg/api"
	"github.com/Aditya3403/feedbackcentral/pkg/guard"
	"github.com/Aditya3403/feedbackcentral/pkg/health"
	"github.com/Aditya3403/feedbackcentral/pkg/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// landingPath is where signed-out visitors are sent.
const landingPath = "/"

// Server is the dashboard HTTP handler.
type Server struct {
	mux       *http.ServeMux
	sessions  *session.Store
	client    *api.Client
	guard     *guard.Guard
	checker   *health.Checker
	templates *template.Template

	// flash holds the most recent one-shot notice until a page displays it.
	flashMu sync.Mutex
	flash   *session.Notice
}

// New creates the dashboard server over a session store and API client.
// It mounts a route guard for the /dashboard subtree; hydration state is
// read from the store, so callers should hydrate before serving.
func New(sessions *session.Store, client *api.Client, checker *health.Checker) *Server {
	s := &Server{
		mux:       http.NewServeMux(),
		sessions:  sessions,
		client:    client,
		checker:   checker,
		templates: template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
	s.guard = guard.New(sessions, nil)
	s.registerRoutes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Notify records one-shot notices for display on the next rendered page.
// Wire it into the session store via session.WithNotify.
func (s *Server) Notify(n session.Notice) {
	s.flashMu.Lock()
	defer s.flashMu.Unlock()
	s.flash = &n
}

// popFlash returns and clears the pending notice, if any.
func (s *Server) popFlash() *session.Notice {
	s.flashMu.Lock()
	defer s.flashMu.Unlock()
	n := s.flash
	s.flash = nil
	return n
}

func (s *Server) registerRoutes() {
	protect := s.guard.Middleware(landingPath)

	s.mux.HandleFunc("GET /{$}", s.handleLanding)
	s.mux.HandleFunc("POST /login", s.handleLogin)
	s.mux.HandleFunc("POST /signup", s.handleSignup)
	s.mux.HandleFunc("POST /logout", s.handleLogout)
	s.mux.HandleFunc("GET /set-password", s.handleSetPasswordForm)
	s.mux.HandleFunc("POST /set-password", s.handleSetPassword)
	s.mux.HandleFunc("GET /healthz", s.checker.LivenessHandler())
	s.mux.HandleFunc("GET /readyz", s.checker.ReadinessHandler())

	s.mux.Handle("GET /dashboard", protect(http.HandlerFunc(s.handleDashboard)))
	s.mux.Handle("GET /dashboard/feedback/given", protect(http.HandlerFunc(s.handleFeedbackGiven)))
	s.mux.Handle("GET /dashboard/feedback/received", protect(http.HandlerFunc(s.handleFeedbackReceived)))
	s.mux.Handle("POST /dashboard/feedback", protect(http.HandlerFunc(s.handleCreateFeedback)))
	s.mux.Handle("POST /dashboard/feedback/{id}/acknowledge", protect(http.HandlerFunc(s.handleAcknowledge)))
	s.mux.Handle("GET /dashboard/settings", protect(http.HandlerFunc(s.handleSettings)))
}

// render writes a template with the shared page context.
func (s *Server) render(w http.ResponseWriter, name string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["Flash"]; !ok {
		data["Flash"] = s.popFlash()
	}
	data["Session"] = s.sessions.Current()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}
