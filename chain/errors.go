package chain

import "errors"

var (
	ErrWalletNotConnected        = errors.New("wallet not connected")
	ErrInvalidAddress            = errors.New("invalid address")
	ErrPaymentRejected           = errors.New("payment rejected")
	ErrPaymentUnconfirmed        = errors.New("payment submitted but not confirmed")
	ErrCollectibleIssuanceFailed = errors.New("collectible issuance failed")
	ErrQueryFailed               = errors.New("ledger query failed")
)
