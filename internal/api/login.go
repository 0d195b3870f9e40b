// ABOUTME: HTTP handler for POST /auth/login
// ABOUTME: Verifies credentials and issues a bearer token

package api

import (
	"errors"
	"net/http"

	"github.com/hivelabs/taskhive/internal/auth"
	"github.com/hivelabs/taskhive/internal/store"
)

// tokenResponse is the JSON body for a successful login.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// handleLogin handles POST /auth/login requests. The body is form-encoded
// with username (the email) and password fields. Failures share one generic
// message so the response does not reveal whether the email is registered.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid form body")
		return
	}

	email := r.PostFormValue("username")
	password := r.PostFormValue("password")

	fields := map[string]string{}
	if email == "" {
		fields["username"] = "required"
	}
	if password == "" {
		fields["password"] = "required"
	}
	if len(fields) > 0 {
		writeValidationError(w, fields)
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), email)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusForbidden, "invalid credentials")
		return
	}
	if err != nil {
		s.logger.Error("looking up user for login", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		writeError(w, http.StatusForbidden, "invalid credentials")
		return
	}

	token, err := s.issuer.Issue(user.ID)
	if err != nil {
		s.logger.Error("issuing token", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}
