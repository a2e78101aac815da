// Package chain is the facade over the Algorand node and indexer used by the
// skill swap services. Nothing outside this package talks to the SDK.
package chain

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/algorand/go-algorand-sdk/v2/client/v2/algod"
	"github.com/algorand/go-algorand-sdk/v2/client/v2/indexer"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const microAlgosPerAlgo = 1_000_000

// MetadataHost publishes a collectible metadata document and returns its URL.
type MetadataHost interface {
	UploadJSON(ctx context.Context, publicID string, doc []byte) (string, error)
}

// Config holds client configuration.
type Config struct {
	AlgodServer   string
	AlgodToken    string
	IndexerServer string
	IndexerToken  string
	Timeout       time.Duration
	ConfirmRounds uint64
	MetadataHost  MetadataHost
}

// Client implements the ledger operations of the skill swap marketplace.
type Client struct {
	node          Node
	indexer       Indexer
	timeout       time.Duration
	confirmRounds uint64
	metadataHost  MetadataHost
	log           zerolog.Logger

	assetsMu sync.RWMutex
	assets   map[uint64]assetInfo
}

type assetInfo struct {
	decimals uint64
	unitName string
}

// NewClient connects to algod and the indexer described by cfg.
func NewClient(cfg Config) (*Client, error) {
	if cfg.AlgodServer == "" {
		return nil, fmt.Errorf("algod server required")
	}
	if cfg.IndexerServer == "" {
		return nil, fmt.Errorf("indexer server required")
	}

	algodClient, err := algod.MakeClient(cfg.AlgodServer, cfg.AlgodToken)
	if err != nil {
		return nil, fmt.Errorf("create algod client: %w", err)
	}
	idxClient, err := indexer.MakeClient(cfg.IndexerServer, cfg.IndexerToken)
	if err != nil {
		return nil, fmt.Errorf("create indexer client: %w", err)
	}

	return New(&algodNode{client: algodClient}, &indexerClient{client: idxClient}, cfg), nil
}

// New builds a client over explicit node and indexer implementations.
func New(node Node, idx Indexer, cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	rounds := cfg.ConfirmRounds
	if rounds == 0 {
		rounds = 4
	}

	return &Client{
		node:          node,
		indexer:       idx,
		timeout:       timeout,
		confirmRounds: rounds,
		metadataHost:  cfg.MetadataHost,
		log:           log.With().Str("component", "chain").Logger(),
		assets:        make(map[uint64]assetInfo),
	}
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

// confirmationContext allows four seconds per awaited round on
// top of the regular call timeout.
func (c *Client) confirmationContext(ctx context.Context) (context.Context, context.CancelFunc) {
	budget := c.timeout + time.Duration(c.confirmRounds)*4*time.Second
	return context.WithTimeout(ctx, budget)
}

// AlgoToMicro converts a display amount to microAlgos, rounding to the
// nearest microAlgo.
func AlgoToMicro(algo float64) uint64 {
	if algo <= 0 {
		return 0
	}
	return uint64(algo*microAlgosPerAlgo + 0.5)
}

func MicroToAlgo(micro uint64) float64 {
	return float64(micro) / microAlgosPerAlgo
}
