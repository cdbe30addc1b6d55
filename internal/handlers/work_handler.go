package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"coursetracker/internal/service"
)

// WorkHandler handles the work-session endpoints
type WorkHandler struct {
	workService *service.WorkService
	log         *zap.Logger
}

// NewWorkHandler creates a new work handler
func NewWorkHandler(workService *service.WorkService, log *zap.Logger) *WorkHandler {
	return &WorkHandler{workService: workService, log: log}
}

type startRequest struct {
	Course string `json:"course"`
}

type durationRequest struct {
	// pointer so a missing field is rejected rather than read as zero
	Seconds *int64 `json:"seconds"`
}

// Start begins work on a course
func (h *WorkHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if !decode(w, r, &req) {
		return
	}
	ws, err := h.workService.StartWork(r.Context(), GetUserFromContext(r.Context()), req.Course)
	if err != nil {
		respondWithError(w, requestLogger(r.Context(), h.log), err)
		return
	}
	respondOK(w, map[string]any{"success": true, "course": ws.CourseName, "since": ws.Since})
}

// Stop ends the caller's session and logs the elapsed time
func (h *WorkHandler) Stop(w http.ResponseWriter, r *http.Request) {
	var req durationRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Seconds == nil {
		respondWithError(w, requestLogger(r.Context(), h.log), service.ErrInvalidDuration)
		return
	}
	entry, err := h.workService.StopWork(r.Context(), GetUserFromContext(r.Context()), *req.Seconds)
	if err != nil {
		respondWithError(w, requestLogger(r.Context(), h.log), err)
		return
	}
	respondOK(w, map[string]any{"success": true, "duration": entry.Duration})
}

// Time stores a heartbeat of the live duration
func (h *WorkHandler) Time(w http.ResponseWriter, r *http.Request) {
	var req durationRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Seconds == nil {
		respondWithError(w, requestLogger(r.Context(), h.log), service.ErrInvalidDuration)
		return
	}
	if err := h.workService.UpdateTime(r.Context(), GetUserFromContext(r.Context()), *req.Seconds); err != nil {
		respondWithError(w, requestLogger(r.Context(), h.log), err)
		return
	}
	respondMessage(w, "time updated")
}

type forceStopRequest struct {
	Identity string `json:"identity"`
}

// ForceStop ends another user's session; admins or the user only
func (h *WorkHandler) ForceStop(w http.ResponseWriter, r *http.Request) {
	var req forceStopRequest
	if !decode(w, r, &req) {
		return
	}
	entry, err := h.workService.ForceStop(r.Context(), GetUserFromContext(r.Context()), req.Identity)
	if err != nil {
		respondWithError(w, requestLogger(r.Context(), h.log), err)
		return
	}
	respondOK(w, map[string]any{"success": true, "duration": entry.Duration})
}

// Status reports whether the caller is working
func (h *WorkHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.workService.IsWorking(r.Context(), GetUserFromContext(r.Context()).ID)
	if err != nil {
		respondWithError(w, requestLogger(r.Context(), h.log), err)
		return
	}
	respondOK(w, newWorkStatusView(status))
}

// Working lists every open session (admin)
func (h *WorkHandler) Working(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.workService.ListActiveWorkers(r.Context(), GetUserFromContext(r.Context()))
	if err != nil {
		respondWithError(w, requestLogger(r.Context(), h.log), err)
		return
	}
	workers := make([]workerView, 0, len(sessions))
	for _, s := range sessions {
		workers = append(workers, workerView{Name: s.UserName, Course: s.CourseName, Since: s.Since, ElapsedSeconds: s.ElapsedSeconds})
	}
	respondOK(w, map[string]any{"success": true, "working": workers})
}
