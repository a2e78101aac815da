package services

import (
	"context"
	"fmt"
	"time"

	"github.com/anjiri1684/skill_swap/chain"
	"github.com/anjiri1684/skill_swap/metrics"
	"github.com/anjiri1684/skill_swap/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const certificateTimeout = 2 * time.Minute

type sessionCompleter interface {
	CompleteSession(ctx context.Context, address string, sessionID, skillID int64, signer chain.Signer) (string, *models.CollectibleRecord)
}

type certificateIssuer interface {
	Issue(ctx context.Context, data CertificateData) (string, error)
}

type CompletionResult struct {
	Message     string                    `json:"message"`
	Booking     models.Booking            `json:"booking"`
	Collectible *models.CollectibleRecord `json:"collectible,omitempty"`
}

// CompletionService closes out an attended session: the skill's counter
// grows, the learner is awarded a completion collectible and, when enabled,
// a PDF certificate is produced in the background.
type CompletionService struct {
	catalog      *Catalog
	completer    sessionCompleter
	certificates certificateIssuer
	notifier     notifier
	log          zerolog.Logger
}

func NewCompletionService(catalog *Catalog, completer sessionCompleter, certificates certificateIssuer, notifier notifier) *CompletionService {
	return &CompletionService{
		catalog:      catalog,
		completer:    completer,
		certificates: certificates,
		notifier:     notifier,
		log:          log.With().Str("component", "completion").Logger(),
	}
}

func (s *CompletionService) Complete(ctx context.Context, sess *Session, skillID int64, slot string) (CompletionResult, error) {
	if sess == nil || !sess.CanSign() {
		return CompletionResult{}, chain.ErrWalletNotConnected
	}

	booking, err := s.catalog.CompleteBooking(skillID, slot, sess.Address)
	if err != nil {
		return CompletionResult{}, err
	}

	message, record := s.completer.CompleteSession(ctx, sess.Address, booking.ID, skillID, sess.Signer())
	metrics.RecordCollectible("completion", record != nil)

	if record != nil {
		s.catalog.SetBookingCollectible(skillID, slot, record.AssetID)
		id := record.AssetID
		booking.CollectibleID = &id
		s.notify(sess.Address, models.NotifySuccess, "Session completed", message)
	} else {
		s.notify(sess.Address, models.NotifyWarning, "Session completed", message)
	}
	s.notify(booking.Teacher, models.NotifyConfirmation, "Session completed",
		fmt.Sprintf("%s completed %s (%s).", sess.Address, booking.SkillName, booking.Slot))

	if s.certificates != nil {
		go s.issueCertificate(booking)
	}

	return CompletionResult{Message: message, Booking: booking, Collectible: record}, nil
}

func (s *CompletionService) issueCertificate(b models.Booking) {
	ctx, cancel := context.WithTimeout(context.Background(), certificateTimeout)
	defer cancel()

	data := CertificateData{
		Learner: b.Learner,
		Teacher: b.Teacher,
		Skill:   b.SkillName,
		Slot:    b.Slot,
	}
	if b.CollectibleID != nil {
		data.CollectibleID = *b.CollectibleID
	}

	url, err := s.certificates.Issue(ctx, data)
	if err != nil {
		s.log.Error().Err(err).Int64("booking_id", b.ID).Msg("failed to issue certificate")
		return
	}
	s.notify(b.Learner, models.NotifySuccess, "Certificate ready", fmt.Sprintf("Your certificate is ready: %s", url))
}

func (s *CompletionService) notify(address string, kind models.NotificationType, title, message string) {
	if s.notifier != nil {
		s.notifier.Notify(address, kind, title, message)
	}
}
