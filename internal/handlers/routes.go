package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"coursetracker/internal/service"
)

// Services bundles the engine the HTTP layer calls into
type Services struct {
	Auth    *service.AuthService
	Users   *service.UserService
	Rights  *service.RightsService
	Catalog *service.CatalogService
	Work    *service.WorkService
	Archive *service.ArchiveService
	Reports *service.ReportService
}

// NewRouter registers every endpoint and wraps the mux in request logging
func NewRouter(svc Services, middleware *Middleware, log *zap.Logger) http.Handler {
	authHandler := NewAuthHandler(svc.Auth, log)
	workHandler := NewWorkHandler(svc.Work, log)
	catalogHandler := NewCatalogHandler(svc.Catalog, log)
	reportHandler := NewReportHandler(svc.Reports, log)
	adminHandler := NewAdminHandler(svc.Users, svc.Rights, svc.Archive, log)

	auth := middleware.RequireAuth
	mux := http.NewServeMux()

	// Sessions
	mux.HandleFunc("POST /signup", middleware.RateLimit(authHandler.Signup))
	mux.HandleFunc("POST /login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("POST /validate", middleware.RateLimit(authHandler.Validate))
	mux.HandleFunc("GET /session", authHandler.Session)
	mux.HandleFunc("POST /logout", auth(authHandler.Logout))
	mux.HandleFunc("POST /password", auth(authHandler.ChangePassword))

	// Work
	mux.HandleFunc("POST /work/start", auth(workHandler.Start))
	mux.HandleFunc("POST /work/stop", auth(workHandler.Stop))
	mux.HandleFunc("POST /work/time", auth(workHandler.Time))
	mux.HandleFunc("POST /work/force-stop", auth(workHandler.ForceStop))
	mux.HandleFunc("GET /work/status", auth(workHandler.Status))

	// Catalog
	mux.HandleFunc("GET /categories", auth(catalogHandler.Categories))
	mux.HandleFunc("GET /courses", auth(catalogHandler.Courses))
	mux.HandleFunc("GET /courses/details", auth(catalogHandler.CourseDetails))
	mux.HandleFunc("POST /courses/rate", auth(catalogHandler.Rate))

	// Reports
	mux.HandleFunc("GET /leaderboard", reportHandler.Leaderboard)
	mux.HandleFunc("GET /users/{id}/history", auth(reportHandler.History))
	mux.HandleFunc("GET /users/{id}/stats", auth(reportHandler.Stats))

	// Admin
	mux.HandleFunc("POST /admin/users", auth(adminHandler.AddUser))
	mux.HandleFunc("GET /admin/users", auth(adminHandler.ListUsers))
	mux.HandleFunc("POST /admin/users/{id}/name", auth(adminHandler.UpdateName))
	mux.HandleFunc("POST /admin/users/{id}/admin", auth(adminHandler.SetAdmin))
	mux.HandleFunc("POST /admin/users/{id}/reset-password", auth(adminHandler.ResetPassword))
	mux.HandleFunc("POST /admin/users/{id}/delete", auth(adminHandler.DeleteUser))
	mux.HandleFunc("POST /admin/rights", auth(adminHandler.Grant))
	mux.HandleFunc("GET /admin/rights/{id}", auth(adminHandler.ListRights))
	mux.HandleFunc("POST /admin/categories", auth(catalogHandler.AddCategory))
	mux.HandleFunc("POST /admin/categories/delete", auth(catalogHandler.DeleteCategory))
	mux.HandleFunc("POST /admin/courses", auth(catalogHandler.AddCourse))
	mux.HandleFunc("POST /admin/courses/delete", auth(catalogHandler.DeleteCourse))
	mux.HandleFunc("GET /admin/archive", auth(adminHandler.Archive))
	mux.HandleFunc("GET /admin/working", auth(workHandler.Working))

	return middleware.Logging(mux)
}
