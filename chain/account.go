package chain

import (
	"context"
	"fmt"
	"strings"
)

// GetBalance returns the spendable balance of address in Algos.
func (c *Client) GetBalance(ctx context.Context, address string) Result[float64] {
	if !ValidateAddress(address) {
		return failed[float64](fmt.Errorf("%w: %s", ErrInvalidAddress, address))
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	amount, err := c.node.AccountAmount(ctx, address)
	if err != nil {
		c.log.Warn().Err(err).Str("address", address).Msg("balance lookup failed")
		return failed[float64](fmt.Errorf("%w: balance: %v", ErrQueryFailed, err))
	}
	balance := MicroToAlgo(amount)
	c.log.Debug().Str("address", address).Float64("algo", balance).Msg("balance fetched")
	return ok(balance)
}

// GetReputation counts the session collectibles held by address. Zero means
// the address holds none.
func (c *Client) GetReputation(ctx context.Context, address string) Result[int] {
	held := c.collectibles(ctx, address)
	if held.Failed {
		return failed[int](held.Err)
	}
	count := 0
	for _, a := range held.Value {
		if strings.HasPrefix(a.unitName, unitNamePrefix) {
			count++
		}
	}
	return ok(count)
}
