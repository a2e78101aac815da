package services

import (
	"fmt"
	"math"
	"sort"

	"github.com/anjiri1684/skill_swap/models"
)

const recentActivityLimit = 10

type DashboardService struct {
	catalog *Catalog
}

func NewDashboardService(catalog *Catalog) *DashboardService {
	return &DashboardService{catalog: catalog}
}

func (s *DashboardService) Stats(address string) models.DashboardStats {
	var stats models.DashboardStats
	if address == "" {
		return stats
	}

	for _, b := range s.catalog.Bookings(address) {
		stats.TotalSessions++
		if b.Completed {
			stats.CompletedSessions++
		} else {
			stats.UpcomingSessions++
		}
		if b.Teacher == address {
			stats.TotalEarnings += b.Amount
		}
	}
	stats.TotalEarnings = math.Round(stats.TotalEarnings*1e6) / 1e6

	total, rated := 0.0, 0
	for _, skill := range s.catalog.Skills() {
		if skill.Teacher != address || len(skill.Feedbacks) == 0 {
			continue
		}
		total += skill.Rating
		rated++
	}
	if rated > 0 {
		stats.AverageRating = math.Round(total/float64(rated)*10) / 10
	}
	return stats
}

// RecentActivity lists the newest booking, payment and completion events
// involving address.
func (s *DashboardService) RecentActivity(address string) []models.RecentActivity {
	out := make([]models.RecentActivity, 0)
	if address == "" {
		return out
	}

	for _, b := range s.catalog.Bookings(address) {
		if b.Learner == address {
			out = append(out, models.RecentActivity{
				Type:        models.ActivitySessionBooked,
				Title:       "Session booked",
				Description: fmt.Sprintf("%s, %s", b.SkillName, b.Slot),
				Timestamp:   b.CreatedAt,
			})
		}
		if b.Teacher == address {
			out = append(out, models.RecentActivity{
				Type:        models.ActivityPaymentReceived,
				Title:       "Payment received",
				Description: fmt.Sprintf("%g ALGO for %s", b.Amount, b.SkillName),
				Timestamp:   b.CreatedAt,
			})
		}
		if b.Completed && b.CompletedAt != nil {
			out = append(out, models.RecentActivity{
				Type:        models.ActivitySessionCompleted,
				Title:       "Session completed",
				Description: fmt.Sprintf("%s, %s", b.SkillName, b.Slot),
				Timestamp:   *b.CompletedAt,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > recentActivityLimit {
		out = out[:recentActivityLimit]
	}
	return out
}
