package exchange

import (
	"context"
	"errors"

	"github.com/uhyunpark/settlex/pkg/storage"
)

func isNotFound(err error) bool {
	var nf *storage.NotFoundError
	return errors.As(err, &nf)
}

// OrderStore keeps orders keyed by trader-supplied id. Before accepting a
// put it cross-checks the order's owner against the identity collaborator:
// the identity must be known, and a set sub-account must belong to it.
type OrderStore struct {
	docs *storage.DocStore[OrderRecord]
	ids  Checker
}

func NewOrderStore(med storage.Medium, ids Checker) *OrderStore {
	return &OrderStore{docs: storage.NewDocStore[OrderRecord](med), ids: ids}
}

func (s *OrderStore) Put(ctx context.Context, key string, o OrderRecord) error {
	if err := s.ids.CheckIdentity(ctx, o.Owner); err != nil {
		return err
	}
	if o.SubAccount != nil {
		if err := s.ids.CheckPortfolio(ctx, o.Owner, *o.SubAccount); err != nil {
			return err
		}
	}
	return s.docs.Put(key, o)
}

func (s *OrderStore) Get(key string) (OrderRecord, error) {
	return s.docs.Get(key)
}

func (s *OrderStore) Delete(key string) error {
	return s.docs.Delete(key)
}

func (s *OrderStore) List() ([]AssignedOrder, error) {
	entries, err := s.docs.List()
	if err != nil {
		return nil, err
	}
	out := make([]AssignedOrder, 0, len(entries))
	for _, e := range entries {
		out = append(out, AssignedOrder{ID: e.Key, Order: e.Value})
	}
	return out, nil
}

// SettlementStore keeps settlements keyed by generated id.
type SettlementStore struct {
	docs *storage.DocStore[SettlementRecord]
}

func NewSettlementStore(med storage.Medium) *SettlementStore {
	return &SettlementStore{docs: storage.NewDocStore[SettlementRecord](med)}
}

func (s *SettlementStore) Put(key string, rec SettlementRecord) error {
	return s.docs.Put(key, rec)
}

func (s *SettlementStore) Get(key string) (SettlementRecord, error) {
	return s.docs.Get(key)
}

// List returns settlements in insertion order. With a non-empty party id it
// returns exactly the settlements where that id is buyer or seller.
func (s *SettlementStore) List(partyExternalID string) ([]FullSettlement, error) {
	entries, err := s.docs.List()
	if err != nil {
		return nil, err
	}
	out := make([]FullSettlement, 0, len(entries))
	for _, e := range entries {
		if partyExternalID != "" && !e.Value.Involves(partyExternalID) {
			continue
		}
		out = append(out, FullSettlement{ID: e.Key, Settlement: e.Value})
	}
	return out, nil
}
