package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/anjiri1684/skill_swap/chain"
	config "github.com/anjiri1684/skill_swap/configs"
	"github.com/anjiri1684/skill_swap/metrics"
	"github.com/anjiri1684/skill_swap/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type bookingPayer interface {
	Pay(ctx context.Context, req PaymentRequest) (string, error)
}

type collectibleIssuer interface {
	IssueCollectible(ctx context.Context, owner string, signer chain.Signer, skillID int64, sessionID *int64) *models.CollectibleRecord
}

// bookingFlow is one run of the booking workflow. Its mutex is never held
// across ledger calls; the Submitting and AwaitingCollectible states keep a
// second submission out instead.
type bookingFlow struct {
	mu sync.Mutex

	id        uuid.UUID
	sessionID uuid.UUID
	learner   string

	state    models.BookingState
	skill    models.Skill
	slot     models.AvailabilitySlot
	rate     float64
	receiver string
	message  string
	held     bool

	txID          string
	collectibleID *uint64
	updatedAt     time.Time
}

func (f *bookingFlow) transition(state models.BookingState) {
	f.state = state
	f.updatedAt = time.Now()
	metrics.RecordBookingTransition(string(state))
}

func (f *bookingFlow) fail(message string) {
	f.message = message
	f.transition(models.BookingErrored)
}

func (f *bookingFlow) view() models.BookingFlowView {
	v := models.BookingFlowView{
		ID:            f.id,
		State:         f.state,
		SkillID:       f.skill.ID,
		Slot:          f.slot.Slot,
		Rate:          f.rate,
		Receiver:      f.receiver,
		Error:         f.message,
		TxID:          f.txID,
		CollectibleID: f.collectibleID,
	}
	if f.state == models.BookingConfirmed {
		v.MeetingLink = f.slot.Link
		v.Slots = append([]models.AvailabilitySlot{}, f.skill.Availability...)
	}
	return v
}

func (f *bookingFlow) busy() bool {
	return f.state == models.BookingSubmitting || f.state == models.BookingAwaitingCollectible
}

type BookingService struct {
	catalog         *Catalog
	payer           bookingPayer
	issuer          collectibleIssuer
	notifier        notifier
	defaultReceiver string

	mu    sync.RWMutex
	flows map[uuid.UUID]*bookingFlow

	log zerolog.Logger
}

func NewBookingService(catalog *Catalog, payer bookingPayer, issuer collectibleIssuer, notifier notifier, defaultReceiver string) *BookingService {
	return &BookingService{
		catalog:         catalog,
		payer:           payer,
		issuer:          issuer,
		notifier:        notifier,
		defaultReceiver: defaultReceiver,
		flows:           make(map[uuid.UUID]*bookingFlow),
		log:             log.With().Str("component", "booking").Logger(),
	}
}

// Start selects a skill and slot, moving a new flow from Idle to AwaitingInput.
func (s *BookingService) Start(sess *Session, skillID int64, slot string) (models.BookingFlowView, error) {
	if sess == nil {
		return models.BookingFlowView{}, chain.ErrWalletNotConnected
	}
	skill, err := s.catalog.Skill(skillID)
	if err != nil {
		return models.BookingFlowView{}, err
	}

	label := strings.TrimSpace(slot)
	var selected *models.AvailabilitySlot
	for i := range skill.Availability {
		if skill.Availability[i].Slot == label {
			selected = &skill.Availability[i]
			break
		}
	}
	if selected == nil {
		return models.BookingFlowView{}, invalid("slot", fmt.Sprintf("Skill %d has no slot %q.", skillID, label))
	}
	if s.catalog.IsBooked(skillID, label) {
		return models.BookingFlowView{}, invalid("slot", "This slot is already booked.")
	}

	receiver := skill.Receiver
	if receiver == "" {
		receiver = s.defaultReceiver
	}

	f := &bookingFlow{
		id:        uuid.New(),
		sessionID: sess.ID,
		learner:   sess.Address,
		state:     models.BookingIdle,
		skill:     skill,
		slot:      *selected,
		rate:      skill.Rate,
		receiver:  receiver,
	}
	f.transition(models.BookingAwaitingInput)

	s.mu.Lock()
	s.flows[f.id] = f
	s.mu.Unlock()

	s.log.Debug().Str("flow_id", f.id.String()).Int64("skill_id", skillID).Str("slot", label).Msg("booking flow started")
	return f.view(), nil
}

func (s *BookingService) flow(sess *Session, id uuid.UUID) (*bookingFlow, error) {
	s.mu.RLock()
	f, ok := s.flows[id]
	s.mu.RUnlock()
	if !ok || sess == nil || f.sessionID != sess.ID {
		return nil, fmt.Errorf("booking flow %s: %w", id, ErrNotFound)
	}
	return f, nil
}

func (s *BookingService) Get(sess *Session, id uuid.UUID) (models.BookingFlowView, error) {
	f, err := s.flow(sess, id)
	if err != nil {
		return models.BookingFlowView{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.view(), nil
}

// SetReceiver edits the receiver address. An errored flow returns to
// AwaitingInput, which is also how a failed booking is retried.
func (s *BookingService) SetReceiver(sess *Session, id uuid.UUID, receiver string) (models.BookingFlowView, error) {
	f, err := s.flow(sess, id)
	if err != nil {
		return models.BookingFlowView{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	switch {
	case f.busy():
		return f.view(), ErrSubmissionInProgress
	case f.state == models.BookingConfirmed:
		return f.view(), fmt.Errorf("booking already confirmed: %w", ErrInvalidTransition)
	}

	f.receiver = strings.TrimSpace(receiver)
	f.message = ""
	if f.state != models.BookingAwaitingInput {
		f.transition(models.BookingAwaitingInput)
	} else {
		f.updatedAt = time.Now()
	}
	return f.view(), nil
}

// Confirm validates the flow and, if it passes, submits the payment and
// issues the booking collectible.
func (s *BookingService) Confirm(ctx context.Context, sess *Session, id uuid.UUID) (models.BookingFlowView, error) {
	f, err := s.flow(sess, id)
	if err != nil {
		return models.BookingFlowView{}, err
	}

	f.mu.Lock()
	switch {
	case f.busy():
		defer f.mu.Unlock()
		return f.view(), ErrSubmissionInProgress
	case f.state == models.BookingConfirmed:
		defer f.mu.Unlock()
		return f.view(), fmt.Errorf("booking already confirmed: %w", ErrInvalidTransition)
	case f.state != models.BookingAwaitingInput:
		defer f.mu.Unlock()
		return f.view(), fmt.Errorf("edit the booking before retrying: %w", ErrInvalidTransition)
	}

	if err := s.validate(f, sess); err != nil {
		f.fail(UserMessage(err))
		defer f.mu.Unlock()
		return f.view(), err
	}
	if !f.held {
		if err := s.catalog.Hold(f.skill.ID, f.slot.Slot, f.id); err != nil {
			msg := "This slot is already booked."
			if errors.Is(err, ErrSubmissionInProgress) {
				msg = "This slot is being booked by someone else."
			}
			f.fail(msg)
			defer f.mu.Unlock()
			return f.view(), invalid("slot", msg)
		}
		f.held = true
	}

	f.transition(models.BookingSubmitting)
	req := PaymentRequest{
		Session:  sess,
		Receiver: f.receiver,
		Amount:   f.rate,
		Purpose:  models.PaymentForBooking,
		SkillID:  f.skill.ID,
		Slot:     f.slot.Slot,
	}
	f.mu.Unlock()

	s.notify(f.learner, models.NotifyInfo, "Processing payment", "Processing payment...")
	txID, payErr := s.payer.Pay(ctx, req)

	f.mu.Lock()
	if payErr != nil {
		view, err := s.paymentFailed(f, txID, payErr)
		f.mu.Unlock()
		return view, err
	}
	f.txID = txID
	f.transition(models.BookingAwaitingCollectible)
	f.mu.Unlock()

	s.notify(f.learner, models.NotifySuccess, "Payment successful", fmt.Sprintf("Payment successful! TxID: %s", txID))

	record := s.issuer.IssueCollectible(ctx, sess.Address, sess.Signer(), f.skill.ID, nil)
	metrics.RecordCollectible("booking", record != nil)

	f.mu.Lock()
	defer f.mu.Unlock()
	if record != nil {
		id := record.AssetID
		f.collectibleID = &id
	}
	booking, err := s.catalog.RecordBooking(models.Booking{
		SkillID:       f.skill.ID,
		Slot:          f.slot.Slot,
		Learner:       f.learner,
		Amount:        f.rate,
		TxID:          txID,
		CollectibleID: f.collectibleID,
	})
	if err != nil {
		s.log.Error().Err(err).Str("flow_id", f.id.String()).Str("tx_id", txID).Msg("paid booking could not be recorded")
	}
	f.held = false
	f.transition(models.BookingConfirmed)

	if record != nil {
		s.notify(f.learner, models.NotifySuccess, "Booking confirmed",
			fmt.Sprintf("Booking confirmed! NFT #%d has been added to your wallet.", record.AssetID))
	} else {
		s.notify(f.learner, models.NotifyWarning, "Booking confirmed",
			"Booking confirmed, but NFT creation failed.")
	}
	s.notify(booking.Teacher, models.NotifySessionRequest, "New booking",
		fmt.Sprintf("%s booked %s for %s.", f.learner, f.skill.Name, f.slot.Slot))

	s.log.Info().Str("flow_id", f.id.String()).Int64("skill_id", f.skill.ID).Str("slot", f.slot.Slot).Str("tx_id", txID).Msg("booking confirmed")
	return f.view(), nil
}

func (s *BookingService) validate(f *bookingFlow, sess *Session) error {
	if !chain.ValidateAddress(f.receiver) {
		return invalid("receiver", config.MsgInvalidAddress)
	}
	if f.rate <= 0 {
		return invalid("rate", config.MsgInvalidRate)
	}
	if sess.Address == "" || !sess.CanSign() {
		return chain.ErrWalletNotConnected
	}
	return nil
}

// paymentFailed moves a submitting flow to Errored. An unconfirmed payment
// keeps the slot held until the flow is closed so it is not sold twice while
// the outcome is reconciled. Called with f.mu held.
func (s *BookingService) paymentFailed(f *bookingFlow, txID string, err error) (models.BookingFlowView, error) {
	if errors.Is(err, chain.ErrPaymentUnconfirmed) {
		f.txID = txID
		f.fail(fmt.Sprintf("Payment %s was sent but not confirmed yet. It is awaiting reconciliation; check your payments before retrying.", txID))
		s.notify(f.learner, models.NotifyWarning, "Payment pending", f.message)
		s.log.Warn().Str("flow_id", f.id.String()).Str("tx_id", txID).Msg("booking payment unconfirmed")
		return f.view(), err
	}

	if f.held {
		s.catalog.Release(f.skill.ID, f.slot.Slot, f.id)
		f.held = false
	}
	f.fail(fmt.Sprintf("Booking failed: %s", err.Error()))
	s.notify(f.learner, models.NotifyError, "Booking failed", f.message)
	s.log.Warn().Err(err).Str("flow_id", f.id.String()).Msg("booking payment failed")
	return f.view(), err
}

// Close discards a flow. Recorded bookings are kept.
func (s *BookingService) Close(sess *Session, id uuid.UUID) error {
	f, err := s.flow(sess, id)
	if err != nil {
		return err
	}

	f.mu.Lock()
	if f.busy() {
		f.mu.Unlock()
		return ErrSubmissionInProgress
	}
	s.releaseLocked(f)
	f.mu.Unlock()

	s.mu.Lock()
	delete(s.flows, id)
	s.mu.Unlock()
	return nil
}

// CloseSession drops every flow owned by a disconnected session. Flows in
// the middle of a submission finish on their own and are then unreachable.
func (s *BookingService) CloseSession(sessionID uuid.UUID) int {
	return s.removeWhere(func(f *bookingFlow) bool { return f.sessionID == sessionID })
}

// Sweep drops idle flows not touched within ttl.
func (s *BookingService) Sweep(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)
	return s.removeWhere(func(f *bookingFlow) bool { return !f.busy() && f.updatedAt.Before(cutoff) })
}

func (s *BookingService) removeWhere(match func(*bookingFlow) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, f := range s.flows {
		f.mu.Lock()
		if match(f) {
			if !f.busy() {
				s.releaseLocked(f)
			}
			delete(s.flows, id)
			removed++
		}
		f.mu.Unlock()
	}
	return removed
}

func (s *BookingService) releaseLocked(f *bookingFlow) {
	if f.held {
		s.catalog.Release(f.skill.ID, f.slot.Slot, f.id)
		f.held = false
	}
}

func (s *BookingService) notify(address string, kind models.NotificationType, title, message string) {
	if s.notifier != nil {
		s.notifier.Notify(address, kind, title, message)
	}
}
