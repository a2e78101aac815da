package models

import "time"

type DashboardStats struct {
	TotalSessions     int     `json:"total_sessions"`
	UpcomingSessions  int     `json:"upcoming_sessions"`
	CompletedSessions int     `json:"completed_sessions"`
	TotalEarnings     float64 `json:"total_earnings"`
	AverageRating     float64 `json:"average_rating"`
}

type ActivityType string

const (
	ActivitySessionBooked    ActivityType = "session_booked"
	ActivitySessionCompleted ActivityType = "session_completed"
	ActivityPaymentReceived  ActivityType = "payment_received"
)

type RecentActivity struct {
	Type        ActivityType `json:"type"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Timestamp   time.Time    `json:"timestamp"`
}
