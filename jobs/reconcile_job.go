package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

const reconcileTimeout = 45 * time.Second

type paymentReconciler interface {
	Reconcile(ctx context.Context) (int, error)
}

// ReconcilePayments returns the cron job that resolves payments whose ledger
// outcome was unknown when they were submitted.
func ReconcilePayments(r paymentReconciler) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
		defer cancel()

		resolved, err := r.Reconcile(ctx)
		if err != nil {
			log.Error().Err(err).Str("job", "reconcile_payments").Msg("reconciliation failed")
			return
		}
		if resolved > 0 {
			log.Info().Str("job", "reconcile_payments").Int("resolved", resolved).Msg("payments reconciled")
		}
	}
}
