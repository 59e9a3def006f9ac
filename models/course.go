package models

import "time"

// GolfCourse is read-only reference data supplied by the course provider.
type GolfCourse struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	CountryCode string    `json:"country_code"`
	Par         int       `json:"par"`
	// StrokeIndexes ranks the 18 holes by difficulty: StrokeIndexes[i] is the
	// stroke index (1 = hardest) of hole i+1. Drives stroke allocation.
	StrokeIndexes []int     `json:"stroke_indexes"`
	CreatedAt     time.Time `json:"created_at"`

	Tees []TeeSet `json:"tees,omitempty"`
}

// TeeSet carries the WHS difficulty ratings for one set of tees.
type TeeSet struct {
	ID           int     `json:"id"`
	CourseID     int     `json:"course_id"`
	Category     string  `json:"category"` // e.g. "white", "yellow", "red"
	Gender       *string `json:"gender,omitempty"`
	CourseRating float64 `json:"course_rating"`
	SlopeRating  int     `json:"slope_rating"`
}

// TeeByCategory finds a tee set on the course, nil when absent.
func (c *GolfCourse) TeeByCategory(category string) *TeeSet {
	for i := range c.Tees {
		if c.Tees[i].Category == category {
			return &c.Tees[i]
		}
	}
	return nil
}
