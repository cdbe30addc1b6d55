package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"coursetracker/internal/service"
)

// statusFor maps a service error kind to an HTTP status
func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindAmbiguous, service.KindConflict, service.KindActiveWorker:
		return http.StatusConflict
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindInvalidInput:
		return http.StatusBadRequest
	case service.KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Code     string `json:"code,omitempty"`
	Identity string `json:"identity,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondOK(w http.ResponseWriter, payload any) {
	respondJSON(w, http.StatusOK, payload)
}

func respondMessage(w http.ResponseWriter, msg string) {
	respondOK(w, map[string]any{"success": true, "message": msg})
}

// respondWithError writes a {success:false} body. Only storage failures are
// logged at error level; their cause never reaches the client.
func respondWithError(w http.ResponseWriter, log *zap.Logger, err error) {
	kind := service.KindOf(err)
	body := errorBody{Message: err.Error(), Code: kind.String()}

	var pending *service.NotValidatedError
	if errors.As(err, &pending) {
		body.Identity = pending.Identity
	}

	if kind == service.KindStorage {
		body.Message = ErrInternalServerError
		log.Error("request failed", zap.Error(err))
	} else {
		log.Debug("request rejected", zap.String("kind", kind.String()), zap.String("message", body.Message))
	}

	respondJSON(w, statusFor(kind), body)
}

func respondBadRequest(w http.ResponseWriter, msg string) {
	respondJSON(w, http.StatusBadRequest, errorBody{Message: msg, Code: service.KindInvalidInput.String()})
}

// decode reads a JSON body into dst, rejecting unknown fields
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		respondBadRequest(w, ErrInvalidJSON)
		return false
	}
	return true
}
