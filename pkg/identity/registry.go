// Package identity provides a local stand-in for the ledger's identity
// service: a registry of known identities and the numbered sub-accounts
// (portfolios) each one owns.
package identity

import (
	"context"
	"errors"
	"slices"

	"github.com/uhyunpark/settlex/pkg/exchange"
	"github.com/uhyunpark/settlex/pkg/storage"
)

type record struct {
	Portfolios []uint64 `json:"portfolios"`
}

// Registry is a document-backed exchange.Checker.
type Registry struct {
	docs *storage.DocStore[record]
}

func NewRegistry(med storage.Medium) *Registry {
	return &Registry{docs: storage.NewDocStore[record](med)}
}

// Add registers an identity together with the numbered portfolios it owns.
// Re-adding an identity replaces its portfolio set.
func (r *Registry) Add(ctx context.Context, id exchange.Identity, portfolios ...uint64) error {
	if _, err := exchange.ParseIdentity(string(id)); err != nil {
		return err
	}
	return r.docs.Put(string(id), record{Portfolios: portfolios})
}

func (r *Registry) CheckIdentity(ctx context.Context, id exchange.Identity) error {
	_, err := r.docs.Get(string(id))
	if err != nil {
		var nf *storage.NotFoundError
		if errors.As(err, &nf) {
			return &exchange.UnknownIdentityError{Identity: id}
		}
		return err
	}
	return nil
}

func (r *Registry) CheckPortfolio(ctx context.Context, id exchange.Identity, subAccount uint64) error {
	rec, err := r.docs.Get(string(id))
	if err != nil {
		var nf *storage.NotFoundError
		if errors.As(err, &nf) {
			return &exchange.UnknownIdentityError{Identity: id}
		}
		return err
	}
	if !slices.Contains(rec.Portfolios, subAccount) {
		return &exchange.InvalidSubAccountError{Identity: id, SubAccount: subAccount}
	}
	return nil
}

var _ exchange.Checker = (*Registry)(nil)
