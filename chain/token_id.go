package chain

import (
	"fmt"
	"hash/fnv"

	"github.com/algorand/go-algorand-sdk/v2/types"
)

const (
	tokenIDFloor = 100_000_000
	tokenIDSpan  = 900_000_000
)

// SkillTokenID derives the 9-digit skill token id of an address. It is a pure
// function of the decoded public key, so repeated registrations agree.
func SkillTokenID(address string) (uint64, error) {
	decoded, err := types.DecodeAddress(address)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	h := fnv.New64a()
	_, _ = h.Write(decoded[:])
	return tokenIDFloor + h.Sum64()%tokenIDSpan, nil
}

// RegisterUser returns the registration label for a wallet and role.
func (c *Client) RegisterUser(address, role string) (string, error) {
	id, err := SkillTokenID(address)
	if err != nil {
		return "", err
	}
	c.log.Info().Str("address", address).Str("role", role).Uint64("token_id", id).Msg("wallet registered")
	return fmt.Sprintf("Wallet %s registered successfully with Skill Token ID %d", address, id), nil
}
