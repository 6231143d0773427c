package exchange

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Identity is a 32-byte on-chain identity, hex encoded as "0x" + 64 hex chars.
type Identity string

// ParseIdentity validates the fixed hex format and returns the identity.
func ParseIdentity(s string) (Identity, error) {
	if !strings.HasPrefix(s, "0x") {
		return "", &InvalidIdentityError{Value: s}
	}
	b, err := hexutil.Decode(s)
	if err != nil || len(b) != common.HashLength {
		return "", &InvalidIdentityError{Value: s}
	}
	return Identity(s), nil
}

func (id Identity) String() string { return string(id) }

// Checker resolves owner identities and their sub-accounts against an
// external identity source. CheckIdentity fails with UnknownIdentityError,
// CheckPortfolio with InvalidSubAccountError; both are validation failures
// from the store's point of view.
type Checker interface {
	CheckIdentity(ctx context.Context, id Identity) error
	CheckPortfolio(ctx context.Context, id Identity, subAccount uint64) error
}
