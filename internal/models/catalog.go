package models

// Category groups courses and is the unit rights are granted on
type Category struct {
	ID   int64
	Name string
}

// Course is an online course members work on
type Course struct {
	ID                   int64
	Name                 string
	URL                  string
	CategoryID           int64
	CategoryName         string
	Description          string
	About                string
	Syllabus             string
	Notes                string
	WeeklyCommitmentLow  int
	WeeklyCommitmentHigh *int
	DurationWeeks        int
}

// Right grants a user access to a category
type Right struct {
	UserID     int64
	CategoryID int64
}

// Rating is a user's 0-5 score for a course
type Rating struct {
	UserID   int64
	CourseID int64
	Value    int
}
