package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"coursetracker/internal/service"
)

// CatalogHandler handles course and category endpoints
type CatalogHandler struct {
	catalogService *service.CatalogService
	log            *zap.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *service.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, log: log}
}

// Courses lists the names of the courses the caller may see
func (h *CatalogHandler) Courses(w http.ResponseWriter, r *http.Request) {
	names, err := h.catalogService.ListCourses(r.Context(), GetUserFromContext(r.Context()))
	if err != nil {
		respondWithError(w, requestLogger(r.Context(), h.log), err)
		return
	}
	respondOK(w, map[string]any{"success": true, "courses": names})
}

// CourseDetails lists the full records of the courses the caller may see
func (h *CatalogHandler) CourseDetails(w http.ResponseWriter, r *http.Request) {
	courses, err := h.catalogService.ListCoursesWithDetails(r.Context(), GetUserFromContext(r.Context()))
	if err != nil {
		respondWithError(w, requestLogger(r.Context(), h.log), err)
		return
	}
	views := make([]courseView, 0, len(courses))
	for i := range courses {
		views = append(views, newCourseView(&courses[i]))
	}
	respondOK(w, map[string]any{"success": true, "courses": views})
}

// Categories lists every category
func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogService.ListCategories(r.Context())
	if err != nil {
		respondWithError(w, requestLogger(r.Context(), h.log), err)
		return
	}
	respondOK(w, map[string]any{"success": true, "categories": categoryNames(categories)})
}

type rateRequest struct {
	Course string `json:"course"`
	Rating *int   `json:"rating"`
}

// Rate stores the caller's rating of a course
func (h *CatalogHandler) Rate(w http.ResponseWriter, r *http.Request) {
	var req rateRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Rating == nil {
		respondWithError(w, requestLogger(r.Context(), h.log), service.ErrInvalidRating)
		return
	}
	if err := h.catalogService.RateCourse(r.Context(), GetUserFromContext(r.Context()), req.Course, *req.Rating); err != nil {
		respondWithError(w, requestLogger(r.Context(), h.log), err)
		return
	}
	respondMessage(w, "rating saved")
}

type categoryRequest struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// AddCategory creates a category (admin)
func (h *CatalogHandler) AddCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decode(w, r, &req) {
		return
	}
	category, err := h.catalogService.AddCategory(r.Context(), GetUserFromContext(r.Context()), req.Name)
	if err != nil {
		respondWithError(w, requestLogger(r.Context(), h.log), err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"success": true, "category": category.Name})
}

// DeleteCategory archives and removes a category (admin)
func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decode(w, r, &req) {
		return
	}
	result, err := h.catalogService.DeleteCategory(r.Context(), GetUserFromContext(r.Context()), req.Name, req.Reason)
	if err != nil {
		respondWithError(w, requestLogger(r.Context(), h.log), err)
		return
	}
	respondOK(w, archiveResultBody(result))
}

type courseRequest struct {
	Name                 string `json:"name"`
	URL                  string `json:"url"`
	Category             string `json:"category"`
	Description          string `json:"description"`
	About                string `json:"about"`
	Syllabus             string `json:"syllabus"`
	Notes                string `json:"notes"`
	WeeklyCommitmentLow  int    `json:"weekly_commitment_low"`
	WeeklyCommitmentHigh *int   `json:"weekly_commitment_high"`
	DurationWeeks        int    `json:"duration_weeks"`
}

// AddCourse creates a course (admin)
func (h *CatalogHandler) AddCourse(w http.ResponseWriter, r *http.Request) {
	var req courseRequest
	if !decode(w, r, &req) {
		return
	}
	course, err := h.catalogService.AddCourse(r.Context(), GetUserFromContext(r.Context()), service.CourseInput{
		Name:                 req.Name,
		URL:                  req.URL,
		Category:             req.Category,
		Description:          req.Description,
		About:                req.About,
		Syllabus:             req.Syllabus,
		Notes:                req.Notes,
		WeeklyCommitmentLow:  req.WeeklyCommitmentLow,
		WeeklyCommitmentHigh: req.WeeklyCommitmentHigh,
		DurationWeeks:        req.DurationWeeks,
	})
	if err != nil {
		respondWithError(w, requestLogger(r.Context(), h.log), err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"success": true, "course": newCourseView(course)})
}

type deleteCourseRequest struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// DeleteCourse archives and removes a course (admin)
func (h *CatalogHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	var req deleteCourseRequest
	if !decode(w, r, &req) {
		return
	}
	result, err := h.catalogService.DeleteCourse(r.Context(), GetUserFromContext(r.Context()), req.Name, req.Reason)
	if err != nil {
		respondWithError(w, requestLogger(r.Context(), h.log), err)
		return
	}
	respondOK(w, archiveResultBody(result))
}

func archiveResultBody(result *service.ArchiveResult) map[string]any {
	return map[string]any{"success": true, "batch_id": result.BatchID, "archived": result.Archived}
}
