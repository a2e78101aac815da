package services

import (
	"errors"
	"fmt"

	"github.com/anjiri1684/skill_swap/chain"
	config "github.com/anjiri1684/skill_swap/configs"
)

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrNotFound             = errors.New("not found")
	ErrForbidden            = errors.New("forbidden")
	ErrSubmissionInProgress = errors.New("submission in progress")
	ErrInvalidTransition    = errors.New("invalid state transition")
	ErrSlotAlreadyBooked    = errors.New("slot already booked")
)

// InputError is a validation failure with a user-visible message.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

func invalid(field, message string) error {
	return &InputError{Field: field, Message: message}
}

// UserMessage is the text shown to a user for err.
func UserMessage(err error) string {
	var ie *InputError
	switch {
	case errors.As(err, &ie):
		return ie.Message
	case errors.Is(err, chain.ErrWalletNotConnected):
		return config.MsgWalletNotConnected
	default:
		return err.Error()
	}
}
