package exchange

import (
	"context"

	"go.uber.org/zap"
)

// Service is the operation surface exposed to the surrounding application
// layer. It owns no transport; callers bring their own.
type Service struct {
	orders      *OrderStore
	settlements *SettlementStore
	log         *zap.SugaredLogger
}

func NewService(orders *OrderStore, settlements *SettlementStore, logger *zap.Logger) *Service {
	return &Service{
		orders:      orders,
		settlements: settlements,
		log:         logger.Sugar(),
	}
}

// CreateOrGetOrder validates raw into an order and stores it under key.
// If a record already exists under key, that record is returned unchanged
// and the input is ignored.
func (s *Service) CreateOrGetOrder(ctx context.Context, key string, raw []byte) (OrderRecord, error) {
	existing, err := s.orders.Get(key)
	if err == nil {
		return existing, nil
	}
	if !isNotFound(err) {
		return OrderRecord{}, err
	}
	order, perr := ParseOrder(raw)
	if perr != nil {
		return OrderRecord{}, perr
	}
	if err := s.orders.Put(ctx, key, *order); err != nil {
		return OrderRecord{}, err
	}
	s.log.Infow("order_created", "key", key, "token", order.Token, "is_buy", order.IsBuy,
		"quantity", order.Quantity, "price", order.Price)
	return *order, nil
}

// GetOrder returns the order under key, or NotFound.
func (s *Service) GetOrder(ctx context.Context, key string) (OrderRecord, error) {
	return s.orders.Get(key)
}

// DeleteOrder cancels the order under key. Idempotent.
func (s *Service) DeleteOrder(ctx context.Context, key string) error {
	if err := s.orders.Delete(key); err != nil {
		return err
	}
	s.log.Infow("order_deleted", "key", key)
	return nil
}

// ListOrders returns every stored order with its key, in insertion order.
func (s *Service) ListOrders(ctx context.Context) ([]AssignedOrder, error) {
	return s.orders.List()
}

// MatchOrders crosses the two referenced orders, persists the resulting
// settlement under a fresh key and applies both residual instructions to
// the order store. The three writes are sequential, not transactional: a
// crash in between leaves the stores inconsistent.
func (s *Service) MatchOrders(ctx context.Context, buyKey, sellKey string) (string, SettlementRecord, error) {
	buy, err := s.orders.Get(buyKey)
	if err != nil {
		return "", SettlementRecord{}, err
	}
	sell, err := s.orders.Get(sellKey)
	if err != nil {
		return "", SettlementRecord{}, err
	}
	settlement, buyRest, sellRest, err := Match(buyKey, &buy, sellKey, &sell)
	if err != nil {
		return "", SettlementRecord{}, err
	}
	key := NewSettlementKey()
	if err := s.settlements.Put(key, *settlement); err != nil {
		return "", SettlementRecord{}, err
	}
	for _, rest := range []Residual{buyRest, sellRest} {
		if rest.Replace == nil {
			err = s.orders.Delete(rest.Key)
		} else {
			err = s.orders.Put(ctx, rest.Key, *rest.Replace)
		}
		if err != nil {
			return "", SettlementRecord{}, err
		}
	}
	s.log.Infow("orders_matched", "buy_key", buyKey, "sell_key", sellKey,
		"settlement_key", key, "token", settlement.Token,
		"quantity", settlement.Quantity, "price", settlement.Price)
	return key, *settlement, nil
}

// GetSettlement returns the settlement under key, or NotFound.
func (s *Service) GetSettlement(ctx context.Context, key string) (SettlementRecord, error) {
	return s.settlements.Get(key)
}

// ListSettlements returns settlements with their keys, optionally filtered
// to those involving the given party external id.
func (s *Service) ListSettlements(ctx context.Context, partyExternalID string) ([]FullSettlement, error) {
	return s.settlements.List(partyExternalID)
}

// PutSettlement validates raw into a settlement and stores it under key,
// replacing any existing record. This is how callers flip the isPaid and
// isDelivered flags.
func (s *Service) PutSettlement(ctx context.Context, key string, raw []byte) (SettlementRecord, error) {
	settlement, err := ParseSettlement(raw)
	if err != nil {
		return SettlementRecord{}, err
	}
	if err := s.settlements.Put(key, *settlement); err != nil {
		return SettlementRecord{}, err
	}
	s.log.Infow("settlement_stored", "key", key,
		"is_paid", settlement.IsPaid, "is_delivered", settlement.IsDelivered)
	return *settlement, nil
}
