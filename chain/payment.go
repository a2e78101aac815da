package chain

import (
	"context"
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/transaction"
)

// SubmitPayment sends amount Algos from sender to receiver and waits for
// confirmation. When the transaction was sent but its confirmation was not
// observed, the tx id is returned together with ErrPaymentUnconfirmed.
func (c *Client) SubmitPayment(ctx context.Context, sender, receiver string, amount float64, signer Signer) (string, error) {
	if !canSignFor(signer, sender) {
		return "", ErrWalletNotConnected
	}
	if !ValidateAddress(receiver) {
		return "", fmt.Errorf("%w: %v", ErrPaymentRejected, ErrInvalidAddress)
	}
	micro := AlgoToMicro(amount)
	if micro == 0 {
		return "", fmt.Errorf("%w: amount must be positive", ErrPaymentRejected)
	}

	callCtx, cancel := c.withTimeout(ctx)
	defer cancel()

	params, err := c.node.SuggestedParams(callCtx)
	if err != nil {
		return "", fmt.Errorf("%w: suggested params: %v", ErrPaymentRejected, err)
	}
	tx, err := transaction.MakePaymentTxn(sender, receiver, micro, nil, "", params)
	if err != nil {
		return "", fmt.Errorf("%w: build transaction: %v", ErrPaymentRejected, err)
	}
	txID, stx, err := signer.SignTransaction(tx)
	if err != nil {
		return "", fmt.Errorf("%w: sign: %v", ErrPaymentRejected, err)
	}
	if _, err := c.node.SendRawTransaction(callCtx, stx); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPaymentRejected, err)
	}
	c.log.Info().Str("tx_id", txID).Str("sender", sender).Str("receiver", receiver).Uint64("micro_algos", micro).Msg("payment sent")

	waitCtx, waitCancel := c.confirmationContext(ctx)
	defer waitCancel()
	info, err := c.node.WaitForConfirmation(waitCtx, txID, c.confirmRounds)
	// The node reports a pool rejection with both PoolError and a non-nil error.
	if info.PoolError != "" {
		c.log.Warn().Str("tx_id", txID).Str("pool_error", info.PoolError).Msg("payment rejected by pool")
		return "", fmt.Errorf("%w: %s", ErrPaymentRejected, info.PoolError)
	}
	if err != nil {
		c.log.Warn().Err(err).Str("tx_id", txID).Msg("payment confirmation not observed")
		return txID, fmt.Errorf("%w: %v", ErrPaymentUnconfirmed, err)
	}

	c.log.Info().Str("tx_id", txID).Uint64("round", info.ConfirmedRound).Msg("payment confirmed")
	return txID, nil
}

// TxStatus is the reconciliation view of a previously sent transaction.
type TxStatus struct {
	ConfirmedRound uint64
	PoolError      string
}

func (s TxStatus) Confirmed() bool { return s.ConfirmedRound > 0 }
func (s TxStatus) Rejected() bool  { return s.PoolError != "" }

// TransactionStatus asks the node (and, once the transaction has left the
// pool, the indexer) what happened to txID.
func (c *Client) TransactionStatus(ctx context.Context, txID string) (TxStatus, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	info, err := c.node.PendingTransaction(ctx, txID)
	if err == nil {
		return TxStatus{ConfirmedRound: info.ConfirmedRound, PoolError: info.PoolError}, nil
	}

	round, idxErr := c.indexer.TransactionRound(ctx, txID)
	if idxErr != nil {
		return TxStatus{}, fmt.Errorf("%w: tx %s: node: %v, indexer: %v", ErrQueryFailed, txID, err, idxErr)
	}
	return TxStatus{ConfirmedRound: round}, nil
}
