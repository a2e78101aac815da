package models

import "time"

type Feedback struct {
	ID        int64     `json:"id"`
	Student   string    `json:"student"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"-"`
}

type ReviewMode string

const (
	ReviewModeSubmit ReviewMode = "submit"
	ReviewModeView   ReviewMode = "view"
)

// ReviewSummary is the View mode of the review workflow.
type ReviewSummary struct {
	SkillID int64      `json:"skill_id"`
	Mode    ReviewMode `json:"mode"`
	Rating  float64    `json:"rating"`
	Count   int        `json:"count"`
	Recent  []Feedback `json:"recent"`
	All     []Feedback `json:"feedbacks"`
}
