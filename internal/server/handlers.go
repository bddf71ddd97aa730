package server

import (
	"log/slog"
	"net/http"

	"github.com/Aditya3403/feedbackcentral/pkg/api"
	"github.com/Aditya3403/feedbackcentral/pkg/session"
)

// handleLanding renders the public page. It stays reachable while signed
// in: signup intentionally leaves the visitor here rather than routing them
// into protected views.
func (s *Server) handleLanding(w http.ResponseWriter, _ *http.Request) {
	s.render(w, "landing.html", nil)
}

// handleLogin submits the login form. Failures keep the form open with the
// server's reason inline; the session store itself never redirects.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")
	if email == "" || password == "" {
		s.render(w, "landing.html", map[string]any{"Error": "Email and password are required"})
		return
	}

	if err := s.sessions.Login(r.Context(), email, password); err != nil {
		slog.Info("login rejected", "error", err)
		s.render(w, "landing.html", map[string]any{"Error": err.Error()})
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// handleSignup submits the registration form. Success stays on the landing
// view; the one-shot notice tells the visitor to log in.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	role := session.Role(r.FormValue("role"))
	if role != session.RoleManager && role != session.RoleEmployee {
		s.render(w, "landing.html", map[string]any{"Error": "Choose a role"})
		return
	}

	reg := api.Registration{
		FullName:   r.FormValue("full_name"),
		Email:      r.FormValue("email"),
		Company:    r.FormValue("company"),
		Department: r.FormValue("department"),
		Password:   r.FormValue("password"),
	}

	if err := s.sessions.Signup(r.Context(), reg, role); err != nil {
		s.render(w, "landing.html", map[string]any{"Error": err.Error()})
		return
	}
	http.Redirect(w, r, landingPath, http.StatusFound)
}

// handleSetPasswordForm renders the emailed-link landing. Without a token
// query parameter the link is shown as invalid.
func (s *Server) handleSetPasswordForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, "set_password.html", map[string]any{"Token": r.URL.Query().Get("token")})
}

// handleSetPassword completes a password reset. Mismatched or short
// passwords are rejected locally; everything else is the remote API's call.
func (s *Server) handleSetPassword(w http.ResponseWriter, r *http.Request) {
	token := r.FormValue("token")
	newPassword := r.FormValue("new_password")
	confirmPassword := r.FormValue("confirm_password")

	if newPassword != confirmPassword {
		s.render(w, "set_password.html", map[string]any{"Token": token, "Error": "Passwords do not match"})
		return
	}
	if len(newPassword) < 8 {
		s.render(w, "set_password.html", map[string]any{"Token": token, "Error": "Password must be at least 8 characters"})
		return
	}

	if err := s.client.SetPassword(r.Context(), token, newPassword, confirmPassword); err != nil {
		s.render(w, "set_password.html", map[string]any{"Token": token, "Error": err.Error()})
		return
	}
	s.render(w, "set_password.html", map[string]any{"Token": token, "Done": true})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.Logout(r.Context())
	http.Redirect(w, r, landingPath, http.StatusFound)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Current()

	var feedbacks []api.Feedback
	var err error
	if sess.Role == session.RoleManager {
		feedbacks, err = s.client.ListFeedbackGiven(r.Context())
	} else {
		feedbacks, err = s.client.ListFeedbackReceived(r.Context())
	}
	if err != nil {
		slog.Warn("dashboard: loading feedback failed", "error", err)
	}

	unread := 0
	for _, fb := range feedbacks {
		if !fb.Acknowledged {
			unread++
		}
	}

	s.render(w, "dashboard.html", map[string]any{
		"Total":   len(feedbacks),
		"Unread":  unread,
		"Recent":  recent(feedbacks, 3),
		"LoadErr": err != nil,
	})
}

func (s *Server) handleFeedbackGiven(w http.ResponseWriter, r *http.Request) {
	feedbacks, err := s.client.ListFeedbackGiven(r.Context())
	if err != nil {
		slog.Warn("feedback given: load failed", "error", err)
	}

	isManager := s.sessions.Current().Role == session.RoleManager
	var employees []api.User
	if isManager {
		if employees, err = s.client.ListEmployees(r.Context()); err != nil {
			slog.Warn("feedback given: employee list failed", "error", err)
		}
	}

	s.render(w, "feedback_given.html", map[string]any{
		"Feedbacks": feedbacks,
		"Employees": employees,
		"IsManager": isManager,
	})
}

func (s *Server) handleFeedbackReceived(w http.ResponseWriter, r *http.Request) {
	feedbacks, err := s.client.ListFeedbackReceived(r.Context())
	if err != nil {
		slog.Warn("feedback received: load failed", "error", err)
	}
	s.render(w, "feedback_received.html", map[string]any{"Feedbacks": feedbacks})
}

func (s *Server) handleCreateFeedback(w http.ResponseWriter, r *http.Request) {
	_, err := s.client.CreateFeedback(r.Context(), api.CreateFeedbackRequest{
		EmployeeID:   r.FormValue("employee_id"),
		Strengths:    r.FormValue("strengths"),
		Improvements: r.FormValue("improvements"),
		Sentiment:    r.FormValue("sentiment"),
	})
	if err != nil {
		s.Notify(session.Notice{Level: session.NoticeError, Message: err.Error()})
	} else {
		s.Notify(session.Notice{Level: session.NoticeSuccess, Message: "Feedback submitted"})
	}
	http.Redirect(w, r, "/dashboard/feedback/given", http.StatusFound)
}

func (s *Server) handleAcknowledge(w http.ResponseWriter, r *http.Request) {
	if err := s.client.AcknowledgeFeedback(r.Context(), r.PathValue("id")); err != nil {
		s.Notify(session.Notice{Level: session.NoticeError, Message: err.Error()})
	}
	http.Redirect(w, r, "/dashboard/feedback/received", http.StatusFound)
}

func (s *Server) handleSettings(w http.ResponseWriter, _ *http.Request) {
	s.render(w, "settings.html", nil)
}

// recent returns the newest n records, assuming API order (newest first).
func recent(feedbacks []api.Feedback, n int) []api.Feedback {
	if len(feedbacks) <= n {
		return feedbacks
	}
	return feedbacks[:n]
}
