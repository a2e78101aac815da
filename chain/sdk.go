package chain

import (
	"context"

	"github.com/algorand/go-algorand-sdk/v2/client/v2/algod"
	"github.com/algorand/go-algorand-sdk/v2/client/v2/common/models"
	"github.com/algorand/go-algorand-sdk/v2/client/v2/indexer"
	"github.com/algorand/go-algorand-sdk/v2/transaction"
	"github.com/algorand/go-algorand-sdk/v2/types"
)

// Node is the part of algod the facade depends on.
type Node interface {
	AccountAmount(ctx context.Context, address string) (uint64, error)
	SuggestedParams(ctx context.Context) (types.SuggestedParams, error)
	SendRawTransaction(ctx context.Context, stx []byte) (string, error)
	WaitForConfirmation(ctx context.Context, txID string, rounds uint64) (models.PendingTransactionInfoResponse, error)
	PendingTransaction(ctx context.Context, txID string) (models.PendingTransactionInfoResponse, error)
}

// Indexer is the part of the indexer API the facade depends on.
type Indexer interface {
	AccountAssets(ctx context.Context, address string) ([]models.AssetHolding, error)
	Asset(ctx context.Context, assetID uint64) (models.Asset, error)
	TransactionRound(ctx context.Context, txID string) (uint64, error)
}

type algodNode struct {
	client *algod.Client
}

func (n *algodNode) AccountAmount(ctx context.Context, address string) (uint64, error) {
	info, err := n.client.AccountInformation(address).Do(ctx)
	if err != nil {
		return 0, err
	}
	return info.Amount, nil
}

func (n *algodNode) SuggestedParams(ctx context.Context) (types.SuggestedParams, error) {
	return n.client.SuggestedParams().Do(ctx)
}

func (n *algodNode) SendRawTransaction(ctx context.Context, stx []byte) (string, error) {
	return n.client.SendRawTransaction(stx).Do(ctx)
}

func (n *algodNode) WaitForConfirmation(ctx context.Context, txID string, rounds uint64) (models.PendingTransactionInfoResponse, error) {
	return transaction.WaitForConfirmation(n.client, txID, rounds, ctx)
}

func (n *algodNode) PendingTransaction(ctx context.Context, txID string) (models.PendingTransactionInfoResponse, error) {
	info, _, err := n.client.PendingTransactionInformation(txID).Do(ctx)
	return info, err
}

type indexerClient struct {
	client *indexer.Client
}

func (i *indexerClient) AccountAssets(ctx context.Context, address string) ([]models.AssetHolding, error) {
	var holdings []models.AssetHolding
	next := ""
	for {
		req := i.client.LookupAccountAssets(address)
		if next != "" {
			req = req.Next(next)
		}
		resp, err := req.Do(ctx)
		if err != nil {
			return nil, err
		}
		holdings = append(holdings, resp.Assets...)
		if resp.NextToken == "" || len(resp.Assets) == 0 {
			return holdings, nil
		}
		next = resp.NextToken
	}
}

func (i *indexerClient) Asset(ctx context.Context, assetID uint64) (models.Asset, error) {
	_, asset, err := i.client.LookupAssetByID(assetID).Do(ctx)
	return asset, err
}

func (i *indexerClient) TransactionRound(ctx context.Context, txID string) (uint64, error) {
	resp, err := i.client.LookupTransaction(txID).Do(ctx)
	if err != nil {
		return 0, err
	}
	return resp.Transaction.ConfirmedRound, nil
}
