package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"coursetracker/internal/models"
)

// ExportVersion is written into every export so readers can detect format changes
const ExportVersion = "1.0"

// ExportData is an administrative snapshot of the archive and the leaderboard
type ExportData struct {
	Version     string              `json:"version"`
	ExportedAt  time.Time           `json:"exported_at"`
	Leaderboard []LeaderboardExport `json:"leaderboard"`
	Archive     []ArchiveExport     `json:"archive"`
}

// LeaderboardExport is one ranked leaderboard row
type LeaderboardExport struct {
	Rank         int    `json:"rank"`
	Identity     string `json:"identity"`
	Name         string `json:"name"`
	TotalSeconds int64  `json:"total_seconds"`
	Total        string `json:"total"`
}

// ArchiveExport is one archived log entry
type ArchiveExport struct {
	BatchID    string    `json:"batch_id"`
	User       string    `json:"user"`
	Email      string    `json:"email"`
	Course     string    `json:"course"`
	CourseURL  string    `json:"course_url"`
	Category   string    `json:"category"`
	Duration   int64     `json:"duration"`
	StartedAt  time.Time `json:"started_at"`
	LoggedAt   time.Time `json:"logged_at"`
	ArchivedAt time.Time `json:"archived_at"`
}

const (
	leaderboardSheet = "Leaderboard"
	archiveSheet     = "Archive"
)

// ExportService builds export snapshots for operators
type ExportService struct {
	base
	archive *ArchiveService
	reports *ReportService
}

// NewExportService creates a new export service
func NewExportService(deps Deps, archive *ArchiveService, reports *ReportService) *ExportService {
	return &ExportService{base: newBase(deps, "export"), archive: archive, reports: reports}
}

// Export collects the leaderboard and archive; admins only
func (s *ExportService) Export(ctx context.Context, actor *models.User) (*ExportData, error) {
	entries, err := s.archive.ListArchive(ctx, actor)
	if err != nil {
		return nil, err
	}
	board, err := s.reports.Leaderboard(ctx)
	if err != nil {
		return nil, err
	}

	data := &ExportData{
		Version:     ExportVersion,
		ExportedAt:  s.now(),
		Leaderboard: make([]LeaderboardExport, 0, len(board)),
		Archive:     make([]ArchiveExport, 0, len(entries)),
	}
	for i, e := range board {
		data.Leaderboard = append(data.Leaderboard, LeaderboardExport{
			Rank:         i + 1,
			Identity:     e.Identity,
			Name:         e.Name,
			TotalSeconds: e.TotalSeconds,
			Total:        models.FormatElapsed(e.TotalSeconds),
		})
	}
	for _, e := range entries {
		data.Archive = append(data.Archive, ArchiveExport{
			BatchID:    e.BatchID,
			User:       e.UserName,
			Email:      e.UserEmail,
			Course:     e.CourseName,
			CourseURL:  e.CourseURL,
			Category:   e.CategoryName,
			Duration:   e.Duration,
			StartedAt:  e.StartedAt,
			LoggedAt:   e.LoggedAt,
			ArchivedAt: e.ArchivedAt,
		})
	}
	return data, nil
}

// WriteJSON writes data as indented JSON
func WriteJSON(w io.Writer, data *ExportData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return nil
}

// WriteXLSX writes data as a workbook with one sheet for the leaderboard and
// one for the archive
func WriteXLSX(w io.Writer, data *ExportData) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", leaderboardSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(archiveSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	rows := [][]any{{"Rank", "Identity", "Name", "Total seconds", "Total"}}
	for _, e := range data.Leaderboard {
		rows = append(rows, []any{e.Rank, e.Identity, e.Name, e.TotalSeconds, e.Total})
	}
	if err := writeRows(f, leaderboardSheet, rows); err != nil {
		return err
	}

	rows = [][]any{{"Batch", "User", "Email", "Course", "URL", "Category", "Duration", "Started", "Logged", "Archived"}}
	for _, e := range data.Archive {
		rows = append(rows, []any{
			e.BatchID, e.User, e.Email, e.Course, e.CourseURL, e.Category, e.Duration,
			e.StartedAt.Format(time.RFC3339), e.LoggedAt.Format(time.RFC3339), e.ArchivedAt.Format(time.RFC3339),
		})
	}
	if err := writeRows(f, archiveSheet, rows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
