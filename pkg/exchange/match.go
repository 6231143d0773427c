package exchange

// Residual describes what the caller must do with a consumed order after a
// match: delete it outright, or replace it with a reduced-quantity copy.
// Replace is nil when the order was fully consumed.
type Residual struct {
	Key     string
	Replace *OrderRecord
}

// Match crosses a buy order against a sell order and computes the resulting
// settlement plus a residual instruction for each side. The two store keys
// become the parties' external ids. Match performs no I/O; persisting the
// settlement and applying the residuals is the caller's job, and those three
// writes are not transactional.
//
// The fill is min of the two quantities. The execution price is the integer
// mean of the two limit prices, truncated toward zero: 33 against 35 settles
// at 34, 33 against 36 at 34 as well.
func Match(buyKey string, buy *OrderRecord, sellKey string, sell *OrderRecord) (*SettlementRecord, Residual, Residual, error) {
	if !buy.IsBuy {
		return nil, Residual{}, Residual{}, &WrongOrderSideError{ExpectedBuy: true}
	}
	if sell.IsBuy {
		return nil, Residual{}, Residual{}, &WrongOrderSideError{ExpectedBuy: false}
	}
	if buy.Token != sell.Token {
		return nil, Residual{}, Residual{}, &IncompatibleTokenError{BuyToken: buy.Token, SellToken: sell.Token}
	}

	buyer := SettlementParty{ExternalID: buyKey, Owner: buy.Owner, SubAccount: buy.SubAccount}
	seller := SettlementParty{ExternalID: sellKey, Owner: sell.Owner, SubAccount: sell.SubAccount}

	fill := min(buy.Quantity, sell.Quantity)
	price := (buy.Price + sell.Price) / 2

	settlement, err := assembleSettlement(buyer, seller, fill, buy.Token, price, false, false)
	if err != nil {
		return nil, Residual{}, Residual{}, err
	}

	return settlement, residualFor(buyKey, buy, fill), residualFor(sellKey, sell, fill), nil
}

func residualFor(key string, o *OrderRecord, fill int64) Residual {
	if o.Quantity == fill {
		return Residual{Key: key}
	}
	rest := *o
	rest.Quantity = o.Quantity - fill
	return Residual{Key: key, Replace: &rest}
}
