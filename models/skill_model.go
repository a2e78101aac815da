package models

import "time"

type Skill struct {
	ID                int64              `json:"id"`
	Name              string             `json:"name"`
	Description       string             `json:"description"`
	Teacher           string             `json:"teacher"`
	Receiver          string             `json:"receiver"`
	Rate              float64            `json:"rate"`
	Category          string             `json:"category"`
	Level             string             `json:"level"`
	SessionsCompleted int                `json:"sessions_completed"`
	Rating            float64            `json:"rating"`
	Availability      []AvailabilitySlot `json:"availability"`
	Feedbacks         []Feedback         `json:"feedbacks"`
	CreatedAt         time.Time          `json:"created_at"`
}

// SkillView is a catalog entry with meeting links redacted for unbooked slots.
type SkillView struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	Description       string     `json:"description"`
	Teacher           string     `json:"teacher"`
	Receiver          string     `json:"receiver"`
	Rate              float64    `json:"rate"`
	Category          string     `json:"category"`
	Level             string     `json:"level"`
	SessionsCompleted int        `json:"sessions_completed"`
	Rating            float64    `json:"rating"`
	ReviewCount       int        `json:"review_count"`
	Availability      []SlotView `json:"availability"`
	RecentReviews     []Feedback `json:"recent_reviews"`
	Reviewable        bool       `json:"reviewable"`
}

type SkillFilters struct {
	Category string  `query:"category"`
	Level    string  `query:"level"`
	MinRate  float64 `query:"min_rate"`
	MaxRate  float64 `query:"max_rate"`
}

func (f *SkillFilters) IsZero() bool {
	return f == nil || (f.Category == "" && f.Level == "" && f.MinRate == 0 && f.MaxRate == 0)
}
