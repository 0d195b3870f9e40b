// ABOUTME: HTTP handlers for user registration and public profile lookup
// ABOUTME: Maps duplicate emails to 409 and missing users to 404

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hivelabs/taskhive/internal/auth"
	"github.com/hivelabs/taskhive/internal/store"
)

// emailPattern is a light-weight shape check; real validation happens when
// mail is actually sent, which is out of scope here.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// createUserRequest is the JSON request body for POST /users/.
type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userResponse is the JSON body for user endpoints. It never carries the
// password hash.
type userResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *store.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}

// handleCreateUser handles POST /users/ requests.
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	fields := map[string]string{}
	if req.Email == "" {
		fields["email"] = "required"
	} else if !emailPattern.MatchString(req.Email) {
		fields["email"] = "must be a valid email address"
	}
	if req.Password == "" {
		fields["password"] = "required"
	}
	if len(fields) > 0 {
		writeValidationError(w, fields)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("hashing password", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	user, err := s.store.CreateUser(r.Context(), req.Email, hash)
	if errors.Is(err, store.ErrDuplicateEmail) {
		writeError(w, http.StatusConflict, "email already registered")
		return
	}
	if err != nil {
		s.logger.Error("creating user", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

// handleGetUser handles GET /users/{id} requests. The profile is public.
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		writeNotFound(w, idParam)
		return
	}

	user, err := s.store.GetUserByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeNotFound(w, idParam)
		return
	}
	if err != nil {
		s.logger.Error("getting user", "user_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}
