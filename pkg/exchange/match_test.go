package exchange

import (
	"reflect"
	"testing"
)

func buyOrder(qty, price int64) *OrderRecord {
	return &OrderRecord{IsBuy: true, Quantity: qty, Token: "ACME", Price: price, Owner: Identity(testOwner)}
}

func sellOrder(qty, price int64) *OrderRecord {
	return &OrderRecord{IsBuy: false, Quantity: qty, Token: "ACME", Price: price, Owner: Identity(testOtherOwner)}
}

func TestMatch_SellerLarger(t *testing.T) {
	buy := buyOrder(10, 33)
	sell := sellOrder(15, 35)

	settlement, buyRest, sellRest, err := Match("alice-1", buy, "bob-1", sell)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settlement.Quantity != 10 || settlement.Token != "ACME" || settlement.Price != 34 {
		t.Errorf("settlement = %+v, want quantity 10, token ACME, price 34", settlement)
	}
	if settlement.IsPaid || settlement.IsDelivered {
		t.Error("fresh settlement must start unpaid and undelivered")
	}
	if settlement.Buyer.ExternalID != "alice-1" || settlement.Seller.ExternalID != "bob-1" {
		t.Errorf("parties = %q/%q", settlement.Buyer.ExternalID, settlement.Seller.ExternalID)
	}

	// Buyer fully consumed: delete. Seller keeps 5 at its original price.
	if buyRest.Replace != nil {
		t.Errorf("buyer residual = %+v, want delete", buyRest.Replace)
	}
	if sellRest.Replace == nil {
		t.Fatal("seller residual = delete, want replace")
	}
	wantSell := *sellOrder(5, 35)
	if !reflect.DeepEqual(*sellRest.Replace, wantSell) {
		t.Errorf("seller residual = %+v, want %+v", *sellRest.Replace, wantSell)
	}
}

func TestMatch_BuyerLarger(t *testing.T) {
	buy := buyOrder(15, 33)
	sell := sellOrder(10, 35)

	settlement, buyRest, sellRest, err := Match("alice-1", buy, "bob-1", sell)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settlement.Quantity != 10 || settlement.Price != 34 {
		t.Errorf("settlement = %+v, want quantity 10, price 34", settlement)
	}
	if buyRest.Replace == nil {
		t.Fatal("buyer residual = delete, want replace")
	}
	wantBuy := *buyOrder(5, 33)
	if !reflect.DeepEqual(*buyRest.Replace, wantBuy) {
		t.Errorf("buyer residual = %+v, want %+v", *buyRest.Replace, wantBuy)
	}
	if sellRest.Replace != nil {
		t.Errorf("seller residual = %+v, want delete", sellRest.Replace)
	}
}

// The execution price is the truncated integer mean of the two limits.
func TestMatch_PriceTruncation(t *testing.T) {
	tests := []struct {
		buyPrice, sellPrice, want int64
	}{
		{33, 35, 34},
		{33, 36, 34}, // 69/2 truncates to 34
		{1, 2, 1},
	}
	for _, tt := range tests {
		settlement, _, _, err := Match("alice-1", buyOrder(1, tt.buyPrice), "bob-1", sellOrder(1, tt.sellPrice))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if settlement.Price != tt.want {
			t.Errorf("price(%d, %d) = %d, want %d", tt.buyPrice, tt.sellPrice, settlement.Price, tt.want)
		}
	}
}

func TestMatch_EqualQuantitiesDeleteBoth(t *testing.T) {
	_, buyRest, sellRest, err := Match("alice-1", buyOrder(10, 33), "bob-1", sellOrder(10, 35))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buyRest.Replace != nil || sellRest.Replace != nil {
		t.Error("both residuals must be deletes when quantities match exactly")
	}
}

func TestMatch_Errors(t *testing.T) {
	sameOwnerSell := sellOrder(5, 35)
	sameOwnerSell.Owner = Identity(testOwner)

	tests := []struct {
		name    string
		buyKey  string
		buy     *OrderRecord
		sellKey string
		sell    *OrderRecord
		wantErr error
	}{
		{
			name:   "buy side is a sell",
			buyKey: "alice-1", buy: sellOrder(10, 33),
			sellKey: "bob-1", sell: sellOrder(15, 35),
			wantErr: &WrongOrderSideError{ExpectedBuy: true},
		},
		{
			name:   "sell side is a buy",
			buyKey: "alice-1", buy: buyOrder(10, 33),
			sellKey: "bob-1", sell: buyOrder(15, 35),
			wantErr: &WrongOrderSideError{ExpectedBuy: false},
		},
		{
			name:   "token mismatch",
			buyKey: "alice-1", buy: buyOrder(10, 33),
			sellKey: "bob-1", sell: &OrderRecord{IsBuy: false, Quantity: 15, Token: "ECMN", Price: 35, Owner: Identity(testOtherOwner)},
			wantErr: &IncompatibleTokenError{BuyToken: "ACME", SellToken: "ECMN"},
		},
		{
			name:   "same key on both sides",
			buyKey: "alice-1", buy: buyOrder(10, 33),
			sellKey: "alice-1", sell: sellOrder(15, 35),
			wantErr: &DuplicatePartiesError{ExternalID: "alice-1"},
		},
		{
			name:   "same trader on both sides",
			buyKey: "alice-1", buy: buyOrder(10, 33),
			sellKey: "bob-1", sell: sameOwnerSell,
			wantErr: &DuplicateIdentityError{Identity: Identity(testOwner)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := Match(tt.buyKey, tt.buy, tt.sellKey, tt.sell)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !reflect.DeepEqual(err, tt.wantErr) {
				t.Errorf("error = %#v, want %#v", err, tt.wantErr)
			}
		})
	}
}
