package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"coursetracker/internal/service"
)

// AdminHandler handles user, rights and archive administration
type AdminHandler struct {
	userService    *service.UserService
	rightsService  *service.RightsService
	archiveService *service.ArchiveService
	log            *zap.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(userService *service.UserService, rightsService *service.RightsService, archiveService *service.ArchiveService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		userService:    userService,
		rightsService:  rightsService,
		archiveService: archiveService,
		log:            log,
	}
}

type addUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Admin bool   `json:"admin"`
}

// AddUser creates a pending account
func (h *AdminHandler) AddUser(w http.ResponseWriter, r *http.Request) {
	var req addUserRequest
	if !decode(w, r, &req) {
		return
	}
	user, err := h.userService.AddUser(r.Context(), GetUserFromContext(r.Context()), service.NewUserInput{
		Email: req.Email, Name: req.Name, Admin: req.Admin,
	})
	if err != nil {
		respondWithError(w, requestLogger(r.Context(), h.log), err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"success": true, "user": newUserView(user)})
}

// ListUsers lists every account
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers(r.Context(), GetUserFromContext(r.Context()))
	if err != nil {
		respondWithError(w, requestLogger(r.Context(), h.log), err)
		return
	}
	views := make([]userView, 0, len(users))
	for i := range users {
		views = append(views, newUserView(&users[i]))
	}
	respondOK(w, map[string]any{"success": true, "users": views})
}

type nameRequest struct {
	Name string `json:"name"`
}

// UpdateName renames a user; users may rename themselves
func (h *AdminHandler) UpdateName(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.userService.UpdateName(r.Context(), GetUserFromContext(r.Context()), r.PathValue("id"), req.Name); err != nil {
		respondWithError(w, requestLogger(r.Context(), h.log), err)
		return
	}
	respondMessage(w, "name updated")
}

type adminFlagRequest struct {
	Admin bool `json:"admin"`
}

// SetAdmin grants or revokes admin status
func (h *AdminHandler) SetAdmin(w http.ResponseWriter, r *http.Request) {
	var req adminFlagRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.userService.SetAdmin(r.Context(), GetUserFromContext(r.Context()), r.PathValue("id"), req.Admin); err != nil {
		respondWithError(w, requestLogger(r.Context(), h.log), err)
		return
	}
	respondMessage(w, "admin status updated")
}

// ResetPassword clears a user's password
func (h *AdminHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	if err := h.userService.ResetPassword(r.Context(), GetUserFromContext(r.Context()), r.PathValue("id")); err != nil {
		respondWithError(w, requestLogger(r.Context(), h.log), err)
		return
	}
	respondMessage(w, "password reset")
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

// DeleteUser archives a user's history and removes the account
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	var req reasonRequest
	if !decode(w, r, &req) {
		return
	}
	result, err := h.userService.DeleteUser(r.Context(), GetUserFromContext(r.Context()), r.PathValue("id"), req.Reason)
	if err != nil {
		respondWithError(w, requestLogger(r.Context(), h.log), err)
		return
	}
	respondOK(w, archiveResultBody(result))
}

type grantRequest struct {
	Identity   string   `json:"identity"`
	Categories []string `json:"categories"`
}

// Grant replaces a user's rights
func (h *AdminHandler) Grant(w http.ResponseWriter, r *http.Request) {
	var req grantRequest
	if !decode(w, r, &req) {
		return
	}
	granted, err := h.rightsService.Grant(r.Context(), GetUserFromContext(r.Context()), req.Identity, req.Categories)
	if err != nil {
		respondWithError(w, requestLogger(r.Context(), h.log), err)
		return
	}
	respondOK(w, map[string]any{"success": true, "categories": categoryNames(granted)})
}

// ListRights lists a user's rights; admins or the user only
func (h *AdminHandler) ListRights(w http.ResponseWriter, r *http.Request) {
	categories, err := h.rightsService.ListRights(r.Context(), GetUserFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		respondWithError(w, requestLogger(r.Context(), h.log), err)
		return
	}
	respondOK(w, map[string]any{"success": true, "categories": categoryNames(categories)})
}

// Archive lists archived log entries
func (h *AdminHandler) Archive(w http.ResponseWriter, r *http.Request) {
	entries, err := h.archiveService.ListArchive(r.Context(), GetUserFromContext(r.Context()))
	if err != nil {
		respondWithError(w, requestLogger(r.Context(), h.log), err)
		return
	}
	views := make([]archiveView, 0, len(entries))
	for _, e := range entries {
		views = append(views, archiveView{
			BatchID:      e.BatchID,
			UserIdentity: e.UserIdentity,
			UserName:     e.UserName,
			Course:       e.CourseName,
			Category:     e.CategoryName,
			Duration:     e.Duration,
			StartedAt:    e.StartedAt,
			LoggedAt:     e.LoggedAt,
			ArchivedAt:   e.ArchivedAt,
			Reason:       e.Reason,
		})
	}
	respondOK(w, map[string]any{"success": true, "archive": views})
}
