package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"coursetracker/internal/security"
	"coursetracker/internal/service"
)

// AuthHandler handles signup, validation and sessions
type AuthHandler struct {
	authService *service.AuthService
	log         *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

type signupRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Admin    bool   `json:"admin"`
}

// Signup registers a pending account
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decode(w, r, &req) {
		return
	}
	user, err := h.authService.Signup(r.Context(), service.SignupInput{
		Email: req.Email, Name: req.Name, Password: req.Password, Admin: req.Admin,
	})
	if err != nil {
		respondWithError(w, requestLogger(r.Context(), h.log), err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"success": true, "user": newUserView(user)})
}

type validateRequest struct {
	Identity string `json:"identity"`
	Password string `json:"password"`
}

// Validate sets the first password of a pending account
func (h *AuthHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.authService.ValidateUser(r.Context(), req.Identity, req.Password); err != nil {
		respondWithError(w, requestLogger(r.Context(), h.log), err)
		return
	}
	respondMessage(w, "password set")
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a bearer token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}
	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithError(w, requestLogger(r.Context(), h.log), err)
		return
	}
	respondOK(w, map[string]any{
		"success":  true,
		"identity": result.User.Identity,
		"name":     result.User.Name,
		"token":    result.Token,
		"ttl":      int64(result.TTL.Seconds()),
		"is_admin": result.User.IsAdmin,
	})
}

// Session reports whether the bearer token is live
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	valid, err := h.authService.IsValid(r.Context(), security.TokenFromRequest(r))
	if err != nil {
		respondWithError(w, requestLogger(r.Context(), h.log), err)
		return
	}
	respondOK(w, map[string]any{"success": true, "valid": valid})
}

// Logout ends every session of the caller
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if err := h.authService.Logout(r.Context(), user.ID); err != nil {
		respondWithError(w, requestLogger(r.Context(), h.log), err)
		return
	}
	respondMessage(w, "logged out")
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangePassword replaces the caller's password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if !decode(w, r, &req) {
		return
	}
	user := GetUserFromContext(r.Context())
	if err := h.authService.ChangePassword(r.Context(), user, req.OldPassword, req.NewPassword); err != nil {
		respondWithError(w, requestLogger(r.Context(), h.log), err)
		return
	}
	respondMessage(w, "password changed")
}
