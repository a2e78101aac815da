package models

import (
	"time"

	"github.com/google/uuid"
)

// Booking pairs a skill with a booked slot label.
type Booking struct {
	ID            int64      `json:"id"`
	SkillID       int64      `json:"skill_id"`
	SkillName     string     `json:"skill_name"`
	Slot          string     `json:"slot"`
	Learner       string     `json:"learner"`
	Teacher       string     `json:"teacher"`
	Amount        float64    `json:"amount"`
	TxID          string     `json:"tx_id"`
	CollectibleID *uint64    `json:"collectible_id,omitempty"`
	Completed     bool       `json:"completed"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type BookingState string

const (
	BookingIdle                BookingState = "idle"
	BookingAwaitingInput       BookingState = "awaiting_input"
	BookingSubmitting          BookingState = "submitting"
	BookingAwaitingCollectible BookingState = "awaiting_collectible"
	BookingConfirmed           BookingState = "confirmed"
	BookingErrored             BookingState = "errored"
)

// BookingFlowView is the externally visible state of one booking workflow.
type BookingFlowView struct {
	ID            uuid.UUID          `json:"id"`
	State         BookingState       `json:"state"`
	SkillID       int64              `json:"skill_id"`
	Slot          string             `json:"slot"`
	Rate          float64            `json:"rate"`
	Receiver      string             `json:"receiver"`
	Error         string             `json:"error,omitempty"`
	TxID          string             `json:"tx_id,omitempty"`
	CollectibleID *uint64            `json:"collectible_id,omitempty"`
	MeetingLink   string             `json:"meeting_link,omitempty"`
	Slots         []AvailabilitySlot `json:"slots,omitempty"`
}
