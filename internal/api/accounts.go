package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/VitaminP8/postboard/internal/auth"
	"github.com/VitaminP8/postboard/internal/storage"
	"github.com/VitaminP8/postboard/models"
)

type registerRequest struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     *string `json:"name"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// POST /api/auth/register
func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	const op = "Error registering user"

	var req registerRequest
	if !decode(w, r, &req, op) {
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username, email and password are required")
		return
	}

	user, err := h.users.RegisterUser(r.Context(), req.Username, req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			writeError(w, http.StatusConflict, "Username is already taken")
			return
		}
		if errors.Is(err, storage.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "Email is already registered")
			return
		}
		handleServiceError(w, err, op)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"user":    user,
		"message": "User registered successfully",
	})
}

// POST /api/auth/login - выдает JWT и заодно открывает cookie-сессию
func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	const op = "Error logging in"

	var req loginRequest
	if !decode(w, r, &req, op) {
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		handleServiceError(w, err, op)
		return
	}

	token, err := auth.IssueToken(h.auth.Secret(), user.ID, user.Username, h.tokenTTL)
	if err != nil {
		handleServiceError(w, err, op)
		return
	}

	if err := h.auth.StartSession(w, r, user.ID); err != nil {
		// токен уже выдан, без cookie клиент все равно сможет работать
		log.Printf("could not start session for user %d: %v", user.ID, err)
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

// POST /api/auth/logout
func (h *handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.EndSession(w, r); err != nil {
		handleServiceError(w, err, "Error logging out")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// GET /api/auth/me
func (h *handler) me(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.users.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// токен пережил удаленного пользователя
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		handleServiceError(w, err, "Error fetching user")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}
