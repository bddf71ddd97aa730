package stubapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Aditya3403/feedbackcentral/pkg/api"
)

func (s *Server) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	acct, ok := s.authenticate(r)
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	if acct.UserType != "manager" {
		writeDetail(w, http.StatusForbidden, "Managers only")
		return
	}

	s.mu.Lock()
	employees := make([]api.User, 0)
	for _, a := range s.accounts {
		if a.UserType == "employee" {
			employees = append(employees, a.User)
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, employees)
}

func (s *Server) handleCreateFeedback(w http.ResponseWriter, r *http.Request) {
	acct, ok := s.authenticate(r)
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	if acct.UserType != "manager" {
		writeDetail(w, http.StatusForbidden, "Managers only")
		return
	}

	var req api.CreateFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Malformed request body")
		return
	}

	fb := &api.Feedback{
		ID:           uuid.NewString(),
		EmployeeID:   req.EmployeeID,
		ManagerID:    acct.User.ID,
		Strengths:    req.Strengths,
		Improvements: req.Improvements,
		Sentiment:    req.Sentiment,
		CreatedAt:    time.Now().UTC(),
	}

	s.mu.Lock()
	s.feedback = append(s.feedback, fb)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, fb)
}

func (s *Server) handleFeedbackGiven(w http.ResponseWriter, r *http.Request) {
	acct, ok := s.authenticate(r)
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	s.listFeedback(w, func(fb *api.Feedback) bool { return fb.ManagerID == acct.User.ID })
}

func (s *Server) handleFeedbackReceived(w http.ResponseWriter, r *http.Request) {
	acct, ok := s.authenticate(r)
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	s.listFeedback(w, func(fb *api.Feedback) bool { return fb.EmployeeID == acct.User.ID })
}

func (s *Server) listFeedback(w http.ResponseWriter, match func(*api.Feedback) bool) {
	s.mu.Lock()
	out := make([]api.Feedback, 0)
	for _, fb := range s.feedback {
		if match(fb) {
			out = append(out, *fb)
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAcknowledge(w http.ResponseWriter, r *http.Request) {
	acct, ok := s.authenticate(r)
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	id := r.PathValue("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, fb := range s.feedback {
		if fb.ID == id {
			if fb.EmployeeID != acct.User.ID {
				writeDetail(w, http.StatusForbidden, "Not your feedback")
				return
			}
			fb.Acknowledged = true
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeDetail(w, http.StatusNotFound, "Feedback not found")
}
