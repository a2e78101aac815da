package services

import (
	"context"
	"errors"
	"time"

	"github.com/anjiri1684/skill_swap/chain"
	"github.com/anjiri1684/skill_swap/database"
	"github.com/anjiri1684/skill_swap/metrics"
	"github.com/anjiri1684/skill_swap/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type paymentLedger interface {
	SubmitPayment(ctx context.Context, sender, receiver string, amount float64, signer chain.Signer) (string, error)
	TransactionStatus(ctx context.Context, txID string) (chain.TxStatus, error)
}

type PaymentRequest struct {
	Session  *Session
	Receiver string
	Amount   float64
	Purpose  models.PaymentPurpose
	SkillID  int64
	Slot     string
}

// PaymentService submits payments through the ledger and journals every
// attempt that reached it.
type PaymentService struct {
	ledger  paymentLedger
	journal database.PaymentJournal
	log     zerolog.Logger
}

func NewPaymentService(ledger paymentLedger, journal database.PaymentJournal) *PaymentService {
	return &PaymentService{
		ledger:  ledger,
		journal: journal,
		log:     log.With().Str("component", "payments").Logger(),
	}
}

func (s *PaymentService) Pay(ctx context.Context, req PaymentRequest) (string, error) {
	if req.Session == nil || !req.Session.CanSign() {
		return "", chain.ErrWalletNotConnected
	}

	txID, err := s.ledger.SubmitPayment(ctx, req.Session.Address, req.Receiver, req.Amount, req.Session.Signer())

	status := models.PaymentConfirmed
	reason := ""
	switch {
	case err == nil:
	case errors.Is(err, chain.ErrPaymentUnconfirmed):
		status = models.PaymentUnknown
	case errors.Is(err, chain.ErrPaymentRejected):
		status = models.PaymentFailed
		reason = err.Error()
	default:
		// never reached the ledger
		return "", err
	}
	metrics.RecordPayment(string(req.Purpose), string(status))

	rec := &models.PaymentRecord{
		TxID:       txID,
		Sender:     req.Session.Address,
		Receiver:   req.Receiver,
		MicroAlgos: chain.AlgoToMicro(req.Amount),
		Purpose:    req.Purpose,
		SkillID:    req.SkillID,
		Slot:       req.Slot,
		Status:     status,
	}
	if reason != "" {
		rec.FailureReason = &reason
	}
	if jerr := s.journal.Record(ctx, rec); jerr != nil {
		s.log.Error().Err(jerr).Str("tx_id", txID).Str("status", string(status)).Msg("failed to journal payment")
	}

	return txID, err
}

// History lists the journaled payments sent by address, newest first.
func (s *PaymentService) History(ctx context.Context, address string) ([]models.PaymentRecord, error) {
	return s.journal.ListBySender(ctx, address)
}

// Payment returns one journaled payment sent by address.
func (s *PaymentService) Payment(ctx context.Context, address string, id uuid.UUID) (*models.PaymentRecord, error) {
	rec, err := s.journal.Get(ctx, id)
	if errors.Is(err, database.ErrPaymentNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if rec.Sender != address {
		return nil, ErrNotFound
	}
	return rec, nil
}

// Reconcile resolves journaled payments whose outcome is unknown. It returns
// how many records changed status.
func (s *PaymentService) Reconcile(ctx context.Context) (int, error) {
	pending, err := s.journal.ListByStatus(ctx, models.PaymentUnknown)
	if err != nil {
		return 0, err
	}

	resolved := 0
	for _, rec := range pending {
		if ctx.Err() != nil {
			return resolved, ctx.Err()
		}
		st, err := s.ledger.TransactionStatus(ctx, rec.TxID)
		if err != nil {
			s.log.Debug().Err(err).Str("tx_id", rec.TxID).Msg("payment still unresolved")
			continue
		}

		var next models.PaymentStatus
		switch {
		case st.Confirmed():
			next = models.PaymentConfirmed
		case st.Rejected():
			next = models.PaymentFailed
		default:
			continue
		}
		if err := s.journal.UpdateStatus(ctx, rec.ID, next, st.ConfirmedRound, st.PoolError); err != nil {
			s.log.Error().Err(err).Str("tx_id", rec.TxID).Msg("failed to update payment status")
			continue
		}
		metrics.RecordReconciled(string(next))
		s.log.Info().Str("tx_id", rec.TxID).Str("status", string(next)).
			Dur("age", time.Since(rec.CreatedAt)).Msg("payment reconciled")
		resolved++
	}
	return resolved, nil
}
