package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"coursetracker/internal/models"
	"coursetracker/internal/service"
)

// ReportHandler serves the leaderboard and per-user reports
type ReportHandler struct {
	reportService *service.ReportService
	log           *zap.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService, log *zap.Logger) *ReportHandler {
	return &ReportHandler{reportService: reportService, log: log}
}

// Leaderboard ranks every user by total logged time
func (h *ReportHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.reportService.Leaderboard(r.Context())
	if err != nil {
		respondWithError(w, requestLogger(r.Context(), h.log), err)
		return
	}
	views := make([]leaderboardView, 0, len(entries))
	for i, e := range entries {
		views = append(views, leaderboardView{
			Rank:         i + 1,
			Identity:     e.Identity,
			Name:         e.Name,
			TotalSeconds: e.TotalSeconds,
			Total:        models.FormatElapsed(e.TotalSeconds),
		})
	}
	respondOK(w, map[string]any{"success": true, "leaderboard": views})
}

// History returns a user's completed work; admins or the user only
func (h *ReportHandler) History(w http.ResponseWriter, r *http.Request) {
	history, err := h.reportService.UserHistory(r.Context(), GetUserFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		respondWithError(w, requestLogger(r.Context(), h.log), err)
		return
	}
	entries := make([]logView, 0, len(history.Entries))
	for _, e := range history.Entries {
		entries = append(entries, logView{
			Course:    e.CourseName,
			Duration:  e.Duration,
			StartedAt: e.StartedAt,
			LoggedAt:  e.LoggedAt,
			Rating:    e.Rating,
		})
	}
	respondOK(w, map[string]any{
		"success":       true,
		"name":          history.User.Name,
		"history":       entries,
		"total_seconds": history.TotalSeconds,
		"total":         history.Total(),
	})
}

// Stats returns a user's total logged seconds
func (h *ReportHandler) Stats(w http.ResponseWriter, r *http.Request) {
	total, err := h.reportService.UserStats(r.Context(), GetUserFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		respondWithError(w, requestLogger(r.Context(), h.log), err)
		return
	}
	respondOK(w, map[string]any{"success": true, "total_seconds": total})
}
