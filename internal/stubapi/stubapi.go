// Package stubapi is an in-process stand-in for the remote feedback
// platform API. It exists for development runs and tests; the production
// API is a separate system reached over the network.
package stubapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Aditya3403/feedbackcentral/pkg/api"
)

const tokenTTL = 24 * time.Hour

// Server implements the auth and feedback endpoints over in-memory tables.
type Server struct {
	mux        *http.ServeMux
	signingKey []byte

	mu       sync.Mutex
	accounts map[string]*account // by email
	feedback []*api.Feedback
}

type account struct {
	User         api.User
	PasswordHash []byte
	UserType     string
}

// New creates a stub API server signing tokens with key.
func New(signingKey string) *Server {
	s := &Server{
		mux:        http.NewServeMux(),
		signingKey: []byte(signingKey),
		accounts:   make(map[string]*account),
	}
	s.registerRoutes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	s.mux.HandleFunc("POST /api/auth/signup/{role}", s.handleSignup)
	s.mux.HandleFunc("POST /api/auth/set-password", s.handleSetPassword)
	s.mux.HandleFunc("GET /api/employees", s.handleListEmployees)
	s.mux.HandleFunc("GET /api/feedback/given", s.handleFeedbackGiven)
	s.mux.HandleFunc("GET /api/feedback/received", s.handleFeedbackReceived)
	s.mux.HandleFunc("POST /api/feedback", s.handleCreateFeedback)
	s.mux.HandleFunc("POST /api/feedback/{id}/acknowledge", s.handleAcknowledge)
}

// Seed registers an account directly, for tests and dev bootstrap.
func (s *Server) Seed(user api.User, password, userType string) {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	s.accounts[user.Email] = &account{User: user, PasswordHash: hash, UserType: userType}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Malformed request body")
		return
	}

	s.mu.Lock()
	acct, ok := s.accounts[req.Email]
	s.mu.Unlock()

	if !ok || bcrypt.CompareHashAndPassword(acct.PasswordHash, []byte(req.Password)) != nil {
		writeDetail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	s.writeAuthResponse(w, acct)
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	role := r.PathValue("role")
	if role != "manager" && role != "employee" {
		writeDetail(w, http.StatusNotFound, "Unknown signup role")
		return
	}

	var req api.Registration
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Malformed request body")
		return
	}
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "full_name, email and password are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	acct := &account{
		User: api.User{
			ID:         uuid.NewString(),
			FullName:   req.FullName,
			Email:      req.Email,
			Company:    req.Company,
			Department: req.Department,
			Role:       role,
		},
		PasswordHash: hash,
		UserType:     role,
	}

	s.mu.Lock()
	if _, exists := s.accounts[req.Email]; exists {
		s.mu.Unlock()
		writeDetail(w, http.StatusConflict, "Email already registered")
		return
	}
	s.accounts[req.Email] = acct
	s.mu.Unlock()

	s.writeAuthResponse(w, acct)
}

func (s *Server) handleSetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token           string `json:"token"`
		NewPassword     string `json:"new_password"`
		ConfirmPassword string `json:"confirm_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Malformed request body")
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		writeDetail(w, http.StatusUnprocessableEntity, "Passwords do not match")
		return
	}
	if len(req.NewPassword) < 8 {
		writeDetail(w, http.StatusUnprocessableEntity, "Password must be at least 8 characters")
		return
	}

	email, err := s.subjectEmail(req.Token)
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, "The password reset link is invalid or has expired")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Failed to set password")
		return
	}

	s.mu.Lock()
	acct, ok := s.accounts[email]
	if ok {
		acct.PasswordHash = hash
	}
	s.mu.Unlock()

	if !ok {
		writeDetail(w, http.StatusUnauthorized, "The password reset link is invalid or has expired")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ResetToken mints a password-reset token for an existing account.
func (s *Server) ResetToken(email string) (string, error) {
	return s.mintToken(email)
}

func (s *Server) writeAuthResponse(w http.ResponseWriter, acct *account) {
	token, err := s.mintToken(acct.User.Email)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}
	writeJSON(w, http.StatusOK, api.AuthResponse{
		User:        &acct.User,
		AccessToken: token,
		UserType:    acct.UserType,
	})
}

func (s *Server) mintToken(email string) (string, error) {
	claims := jwt.MapClaims{
		"sub": email,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(tokenTTL).Unix(),
		"jti": uuid.NewString(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
}

// subjectEmail validates a bearer token and returns the account email.
func (s *Server) subjectEmail(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(*jwt.Token) (any, error) {
		return s.signingKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	return parsed.Claims.GetSubject()
}

// authenticate resolves the Authorization header to an account.
func (s *Server) authenticate(r *http.Request) (*account, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return nil, false
	}
	email, err := s.subjectEmail(token)
	if err != nil {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[email]
	return acct, ok
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
