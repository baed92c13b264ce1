package handlers

import (
	"net/http"
	"strings"

	"Reelpick/logger"
	"Reelpick/services"

	json "github.com/goccy/go-json"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Register handles POST /api/register.
func Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body", "")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Username and password are required", "")
		return
	}

	user, err := services.RegisterUser(req.Username, req.Password)
	if err != nil {
		logger.Error().Err(err).Str("username", req.Username).Msg("registration failed")
		respondError(w, http.StatusInternalServerError, "Registration failed", "")
		return
	}

	if err := setupUserSession(w, r, user.ID, user.Username); err != nil {
		logger.Error().Err(err).Msg("failed to create session after registration")
		respondError(w, http.StatusInternalServerError, "Session setup failed", "")
		return
	}

	respondJSON(w, http.StatusCreated, userResponse{ID: user.ID, Username: user.Username})
}

// Login handles POST /api/login.
func Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body", "")
		return
	}

	user, err := services.AuthenticateUser(strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid credentials", "")
		return
	}

	if err := setupUserSession(w, r, user.ID, user.Username); err != nil {
		logger.Error().Err(err).Msg("failed to create session after login")
		respondError(w, http.StatusInternalServerError, "Session setup failed", "")
		return
	}

	respondJSON(w, http.StatusOK, userResponse{ID: user.ID, Username: user.Username})
}

// Logout handles POST /api/logout.
func Logout(w http.ResponseWriter, r *http.Request) {
	session, err := services.GetSession(r)
	if err == nil {
		session.Options.MaxAge = -1
		services.SaveSession(w, r, session)
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func setupUserSession(w http.ResponseWriter, r *http.Request, userID int64, username string) error {
	session, err := services.GetSession(r)
	if err != nil {
		return err
	}
	session.Values["user_id"] = userID
	session.Values["username"] = username
	return services.SaveSession(w, r, session)
}
