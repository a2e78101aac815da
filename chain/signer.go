package chain

import (
	"crypto/ed25519"
	"fmt"
	"strings"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/mnemonic"
	"github.com/algorand/go-algorand-sdk/v2/types"
)

// Signer is a transaction-signing capability bound to one address.
type Signer interface {
	Address() string
	SignTransaction(tx types.Transaction) (txID string, stx []byte, err error)
}

// AccountSigner signs with an in-memory ed25519 key.
type AccountSigner struct {
	address string
	key     ed25519.PrivateKey
}

func NewAccountSigner(account crypto.Account) *AccountSigner {
	return &AccountSigner{address: account.Address.String(), key: account.PrivateKey}
}

// NewMnemonicSigner derives the key from a 25-word Algorand mnemonic.
func NewMnemonicSigner(phrase string) (*AccountSigner, error) {
	words := strings.Join(strings.Fields(phrase), " ")
	key, err := mnemonic.ToPrivateKey(words)
	if err != nil {
		return nil, fmt.Errorf("invalid mnemonic: %w", err)
	}
	addr, err := crypto.GenerateAddressFromSK(key)
	if err != nil {
		return nil, fmt.Errorf("derive address: %w", err)
	}
	return &AccountSigner{address: addr.String(), key: key}, nil
}

func (s *AccountSigner) Address() string {
	return s.address
}

func (s *AccountSigner) SignTransaction(tx types.Transaction) (string, []byte, error) {
	return crypto.SignTransaction(s.key, tx)
}

// ValidateAddress reports whether address is a well-formed Algorand address
// (base32, correct length and checksum).
func ValidateAddress(address string) bool {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return false
	}
	_, err := types.DecodeAddress(trimmed)
	return err == nil
}

func canSignFor(signer Signer, address string) bool {
	return signer != nil && address != "" && signer.Address() == address
}
