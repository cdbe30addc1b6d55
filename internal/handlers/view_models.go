package handlers

import (
	"time"

	"coursetracker/internal/models"
	"coursetracker/internal/service"
)

type userView struct {
	Identity  string `json:"identity"`
	Name      string `json:"name"`
	IsAdmin   bool   `json:"is_admin"`
	Validated bool   `json:"validated"`
}

func newUserView(u *models.User) userView {
	return userView{Identity: u.Identity, Name: u.Name, IsAdmin: u.IsAdmin, Validated: u.Validated()}
}

type courseView struct {
	Name                 string `json:"name"`
	URL                  string `json:"url"`
	Category             string `json:"category"`
	Description          string `json:"description,omitempty"`
	About                string `json:"about,omitempty"`
	Syllabus             string `json:"syllabus,omitempty"`
	Notes                string `json:"notes,omitempty"`
	WeeklyCommitmentLow  int    `json:"weekly_commitment_low"`
	WeeklyCommitmentHigh *int   `json:"weekly_commitment_high,omitempty"`
	DurationWeeks        int    `json:"duration_weeks"`
}

func newCourseView(c *models.Course) courseView {
	return courseView{
		Name:                 c.Name,
		URL:                  c.URL,
		Category:             c.CategoryName,
		Description:          c.Description,
		About:                c.About,
		Syllabus:             c.Syllabus,
		Notes:                c.Notes,
		WeeklyCommitmentLow:  c.WeeklyCommitmentLow,
		WeeklyCommitmentHigh: c.WeeklyCommitmentHigh,
		DurationWeeks:        c.DurationWeeks,
	}
}

type workStatusView struct {
	Success        bool       `json:"success"`
	Working        bool       `json:"working"`
	Course         string     `json:"course,omitempty"`
	Since          *time.Time `json:"since,omitempty"`
	ElapsedSeconds int64      `json:"elapsed_so_far,omitempty"`
}

func newWorkStatusView(s *service.WorkStatus) workStatusView {
	v := workStatusView{Success: true, Working: s.Working}
	if s.Working {
		since := s.Since
		v.Course = s.CourseName
		v.Since = &since
		v.ElapsedSeconds = s.ElapsedSeconds
	}
	return v
}

type workerView struct {
	Name           string    `json:"name"`
	Course         string    `json:"course"`
	Since          time.Time `json:"since"`
	ElapsedSeconds int64     `json:"elapsed_seconds"`
}

type logView struct {
	Course    string    `json:"course,omitempty"`
	Duration  int64     `json:"duration"`
	StartedAt time.Time `json:"started_at"`
	LoggedAt  time.Time `json:"logged_at"`
	Rating    *int      `json:"rating,omitempty"`
}

type leaderboardView struct {
	Rank         int    `json:"rank"`
	Identity     string `json:"identity"`
	Name         string `json:"name"`
	TotalSeconds int64  `json:"total_seconds"`
	Total        string `json:"total"`
}

type archiveView struct {
	BatchID      string    `json:"batch_id"`
	UserIdentity string    `json:"user_identity"`
	UserName     string    `json:"user_name"`
	Course       string    `json:"course"`
	Category     string    `json:"category"`
	Duration     int64     `json:"duration"`
	StartedAt    time.Time `json:"started_at"`
	LoggedAt     time.Time `json:"logged_at"`
	ArchivedAt   time.Time `json:"archived_at"`
	Reason       string    `json:"reason"`
}

func categoryNames(categories []models.Category) []string {
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	return names
}
