package chain

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/algorand/go-algorand-sdk/v2/client/v2/common/models"
	"github.com/algorand/go-algorand-sdk/v2/types"
)

var errLedgerDown = errors.New("ledger unavailable")

type fakeNode struct {
	mu sync.Mutex

	amount     uint64
	amountErr  error
	paramsErr  error
	sendErr    error
	waitErr    error
	poolError  error
	assetIndex uint64
	pending    map[string]models.PendingTransactionInfoResponse

	sent int
}

func (n *fakeNode) AccountAmount(context.Context, string) (uint64, error) {
	return n.amount, n.amountErr
}

func (n *fakeNode) SuggestedParams(context.Context) (types.SuggestedParams, error) {
	if n.paramsErr != nil {
		return types.SuggestedParams{}, n.paramsErr
	}
	return testParams(), nil
}

func (n *fakeNode) SendRawTransaction(context.Context, []byte) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.sendErr != nil {
		return "", n.sendErr
	}
	n.sent++
	return "sent", nil
}

func (n *fakeNode) WaitForConfirmation(_ context.Context, txID string, _ uint64) (models.PendingTransactionInfoResponse, error) {
	if n.waitErr != nil {
		return models.PendingTransactionInfoResponse{}, n.waitErr
	}
	if n.poolError != nil {
		info := models.PendingTransactionInfoResponse{PoolError: n.poolError.Error()}
		return info, fmt.Errorf("transaction rejected: %s", info.PoolError)
	}
	return models.PendingTransactionInfoResponse{ConfirmedRound: 100, AssetIndex: n.assetIndex}, nil
}

func (n *fakeNode) PendingTransaction(_ context.Context, txID string) (models.PendingTransactionInfoResponse, error) {
	info, ok := n.pending[txID]
	if !ok {
		return models.PendingTransactionInfoResponse{}, errors.New("not in pool")
	}
	return info, nil
}

type fakeIndexer struct {
	holdings    []models.AssetHolding
	holdingsErr error
	assets      map[uint64]models.Asset
	rounds      map[string]uint64

	assetLookups int
}

func (i *fakeIndexer) AccountAssets(context.Context, string) ([]models.AssetHolding, error) {
	return i.holdings, i.holdingsErr
}

func (i *fakeIndexer) Asset(_ context.Context, id uint64) (models.Asset, error) {
	i.assetLookups++
	a, ok := i.assets[id]
	if !ok {
		return models.Asset{}, errors.New("asset not found")
	}
	return a, nil
}

func (i *fakeIndexer) TransactionRound(_ context.Context, txID string) (uint64, error) {
	r, ok := i.rounds[txID]
	if !ok {
		return 0, errors.New("transaction not found")
	}
	return r, nil
}

func testParams() types.SuggestedParams {
	hash := make([]byte, 32)
	hash[0] = 1
	return types.SuggestedParams{
		Fee:             0,
		MinFee:          1000,
		FlatFee:         true,
		GenesisID:       "testnet-v1.0",
		GenesisHash:     hash,
		FirstRoundValid: 1,
		LastRoundValid:  1001,
	}
}

func collectible(id uint64, decimals uint64, unit string) models.Asset {
	return models.Asset{Index: id, Params: models.AssetParams{Decimals: decimals, UnitName: unit, Total: 1}}
}
