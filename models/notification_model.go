package models

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotifyInfo    NotificationType = "info"
	NotifySuccess NotificationType = "success"
	NotifyWarning NotificationType = "warning"
	NotifyError   NotificationType = "error"

	NotifySessionRequest NotificationType = "session_request"
	NotifyConfirmation   NotificationType = "confirmation"
	NotifyMessage        NotificationType = "message"
)

type Notification struct {
	ID        uuid.UUID        `json:"id"`
	Recipient string           `json:"recipient"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	Read      bool             `json:"read"`
}
