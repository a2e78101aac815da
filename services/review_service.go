package services

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/anjiri1684/skill_swap/chain"
	"github.com/anjiri1684/skill_swap/models"
	"github.com/anjiri1684/skill_swap/utils"
)

const (
	minRating = 1
	maxRating = 5
)

type notifier interface {
	Notify(address string, kind models.NotificationType, title, message string) models.Notification
}

type reviewKey struct {
	skillID  int64
	reviewer string
}

// ReviewService runs the review workflow of each reviewer and skill. A
// workflow starts in Submit mode and switches to View after a successful
// submission.
type ReviewService struct {
	catalog  *Catalog
	notifier notifier

	mu    sync.Mutex
	modes map[reviewKey]models.ReviewMode
}

func NewReviewService(catalog *Catalog, notifier notifier) *ReviewService {
	return &ReviewService{
		catalog:  catalog,
		notifier: notifier,
		modes:    make(map[reviewKey]models.ReviewMode),
	}
}

func (s *ReviewService) Submit(skillID int64, reviewer string, rating int, comment string) (models.ReviewSummary, error) {
	if reviewer == "" {
		return models.ReviewSummary{}, chain.ErrWalletNotConnected
	}
	if rating < minRating || rating > maxRating {
		return models.ReviewSummary{}, invalid("rating", fmt.Sprintf("Rating must be between %d and %d.", minRating, maxRating))
	}
	comment = utils.SanitizeInput(comment)
	if comment == "" {
		return models.ReviewSummary{}, invalid("comment", "Please write a comment.")
	}

	now := time.Now()
	skill, err := s.catalog.AppendFeedback(skillID, models.Feedback{
		Student:   reviewer,
		Rating:    rating,
		Comment:   comment,
		Date:      now.Format("2006-01-02"),
		CreatedAt: now,
	})
	if err != nil {
		return models.ReviewSummary{}, err
	}

	s.SetMode(skillID, reviewer, models.ReviewModeView)
	if s.notifier != nil {
		s.notifier.Notify(reviewer, models.NotifySuccess, "Review submitted", "Review submitted successfully!")
		s.notifier.Notify(skill.Teacher, models.NotifyMessage, "New review",
			fmt.Sprintf("%s received a %d-star review.", skill.Name, rating))
	}
	return summarize(skill, models.ReviewModeView), nil
}

func (s *ReviewService) SetMode(skillID int64, reviewer string, mode models.ReviewMode) {
	s.mu.Lock()
	s.modes[reviewKey{skillID, reviewer}] = mode
	s.mu.Unlock()
}

func (s *ReviewService) Mode(skillID int64, reviewer string) models.ReviewMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if mode, ok := s.modes[reviewKey{skillID, reviewer}]; ok {
		return mode
	}
	return models.ReviewModeSubmit
}

// Summary lists the feedback of a skill in insertion order.
func (s *ReviewService) Summary(skillID int64, reviewer string) (models.ReviewSummary, error) {
	skill, err := s.catalog.Skill(skillID)
	if err != nil {
		return models.ReviewSummary{}, err
	}
	return summarize(skill, s.Mode(skillID, reviewer)), nil
}

func summarize(skill models.Skill, mode models.ReviewMode) models.ReviewSummary {
	return models.ReviewSummary{
		SkillID: skill.ID,
		Mode:    mode,
		Rating:  skill.Rating,
		Count:   len(skill.Feedbacks),
		Recent:  recentFeedback(skill.Feedbacks),
		All:     skill.Feedbacks,
	}
}

// ParseReviewMode accepts "submit" and "view"; anything else is rejected.
func ParseReviewMode(raw string) (models.ReviewMode, bool) {
	switch models.ReviewMode(strings.ToLower(strings.TrimSpace(raw))) {
	case models.ReviewModeSubmit:
		return models.ReviewModeSubmit, true
	case models.ReviewModeView:
		return models.ReviewModeView, true
	}
	return "", false
}
