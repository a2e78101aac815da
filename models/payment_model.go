package models

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentConfirmed PaymentStatus = "confirmed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentUnknown   PaymentStatus = "unknown"
)

type PaymentPurpose string

const (
	PaymentForBooking PaymentPurpose = "booking"
	PaymentForListing PaymentPurpose = "listing"
)

// PaymentRecord journals one payment submitted to the ledger.
type PaymentRecord struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TxID           string         `gorm:"size:64;index" json:"tx_id"`
	Sender         string         `gorm:"size:58;not null" json:"sender"`
	Receiver       string         `gorm:"size:58;not null" json:"receiver"`
	MicroAlgos     uint64         `gorm:"not null" json:"micro_algos"`
	Purpose        PaymentPurpose `gorm:"size:20;not null" json:"purpose"`
	SkillID        int64          `json:"skill_id"`
	Slot           string         `gorm:"size:100" json:"slot"`
	Status         PaymentStatus  `gorm:"size:20;not null;default:'pending';index" json:"status"`
	ConfirmedRound uint64         `json:"confirmed_round"`
	FailureReason  *string        `gorm:"type:text" json:"failure_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
