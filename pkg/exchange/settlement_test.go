package exchange

import (
	"encoding/json"
	"reflect"
	"testing"
)

func validSettlementJSON() string {
	return `{
		"buyer": {"externalId": "alice-1", "ownerIdentity": "` + testOwner + `"},
		"seller": {"externalId": "bob-1", "ownerIdentity": "` + testOtherOwner + `", "subAccountId": 2},
		"quantity": 10,
		"token": "ACME",
		"price": 34,
		"isPaid": false,
		"isDelivered": false
	}`
}

func TestParseSettlement_Valid(t *testing.T) {
	s, err := ParseSettlement([]byte(validSettlementJSON()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Buyer.ExternalID != "alice-1" || s.Seller.ExternalID != "bob-1" {
		t.Errorf("parties = %q/%q", s.Buyer.ExternalID, s.Seller.ExternalID)
	}
	if s.Seller.SubAccount == nil || *s.Seller.SubAccount != 2 {
		t.Errorf("seller sub-account = %v, want 2", s.Seller.SubAccount)
	}
	if s.Quantity != 10 || s.Token != "ACME" || s.Price != 34 || s.IsPaid || s.IsDelivered {
		t.Errorf("unexpected record: %+v", s)
	}
}

func TestParseSettlement_Errors(t *testing.T) {
	buyer := `{"externalId": "alice-1", "ownerIdentity": "` + testOwner + `"}`
	seller := `{"externalId": "bob-1", "ownerIdentity": "` + testOtherOwner + `"}`

	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{
			name:    "missing buyer",
			raw:     `{"seller": ` + seller + `, "quantity":10,"token":"ACME","price":34,"isPaid":false,"isDelivered":false}`,
			wantErr: &MissingFieldError{Field: "buyer"},
		},
		{
			name:    "buyer wrong type",
			raw:     `{"buyer": "alice", "seller": ` + seller + `, "quantity":10,"token":"ACME","price":34,"isPaid":false,"isDelivered":false}`,
			wantErr: &WrongTypeError{Field: "buyer", Actual: "string"},
		},
		{
			name:    "buyer missing externalId",
			raw:     `{"buyer": {"ownerIdentity": "` + testOwner + `"}, "seller": ` + seller + `, "quantity":10,"token":"ACME","price":34,"isPaid":false,"isDelivered":false}`,
			wantErr: &MissingFieldError{Field: "buyer.externalId"},
		},
		{
			name:    "seller bad identity",
			raw:     `{"buyer": ` + buyer + `, "seller": {"externalId": "bob-1", "ownerIdentity": "0xdead"}, "quantity":10,"token":"ACME","price":34,"isPaid":false,"isDelivered":false}`,
			wantErr: &InvalidIdentityError{Value: "0xdead"},
		},
		{
			name:    "missing quantity",
			raw:     `{"buyer": ` + buyer + `, "seller": ` + seller + `, "token":"ACME","price":34,"isPaid":false,"isDelivered":false}`,
			wantErr: &MissingFieldError{Field: "quantity"},
		},
		{
			name:    "zero quantity",
			raw:     `{"buyer": ` + buyer + `, "seller": ` + seller + `, "quantity":0,"token":"ACME","price":34,"isPaid":false,"isDelivered":false}`,
			wantErr: &ZeroValueError{Field: "quantity"},
		},
		{
			name:    "missing isPaid",
			raw:     `{"buyer": ` + buyer + `, "seller": ` + seller + `, "quantity":10,"token":"ACME","price":34,"isDelivered":false}`,
			wantErr: &MissingFieldError{Field: "isPaid"},
		},
		{
			name:    "isDelivered wrong type",
			raw:     `{"buyer": ` + buyer + `, "seller": ` + seller + `, "quantity":10,"token":"ACME","price":34,"isPaid":false,"isDelivered":1}`,
			wantErr: &WrongTypeError{Field: "isDelivered", Actual: "number"},
		},
		{
			name:    "duplicate external ids",
			raw:     `{"buyer": ` + buyer + `, "seller": {"externalId": "alice-1", "ownerIdentity": "` + testOtherOwner + `"}, "quantity":10,"token":"ACME","price":34,"isPaid":false,"isDelivered":false}`,
			wantErr: &DuplicatePartiesError{ExternalID: "alice-1"},
		},
		{
			name:    "duplicate identities",
			raw:     `{"buyer": ` + buyer + `, "seller": {"externalId": "bob-1", "ownerIdentity": "` + testOwner + `"}, "quantity":10,"token":"ACME","price":34,"isPaid":false,"isDelivered":false}`,
			wantErr: &DuplicateIdentityError{Identity: Identity(testOwner)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSettlement([]byte(tt.raw))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !reflect.DeepEqual(err, tt.wantErr) {
				t.Errorf("error = %#v, want %#v", err, tt.wantErr)
			}
		})
	}
}

// When both parties are invalid, the buyer's error wins: the buyer is fully
// validated before the seller is looked at.
func TestParseSettlement_BuyerValidatedFirst(t *testing.T) {
	raw := `{"buyer": {"externalId": "alice-1"}, "seller": {"ownerIdentity": "0xdead"}, "quantity":10,"token":"ACME","price":34,"isPaid":false,"isDelivered":false}`
	_, err := ParseSettlement([]byte(raw))
	want := &MissingFieldError{Field: "buyer.ownerIdentity"}
	if !reflect.DeepEqual(err, want) {
		t.Errorf("error = %#v, want %#v", err, want)
	}
}

// Field completeness and types are checked before the cross-party
// duplicate checks.
func TestParseSettlement_FieldsBeforeDuplicates(t *testing.T) {
	raw := `{
		"buyer": {"externalId": "alice-1", "ownerIdentity": "` + testOwner + `"},
		"seller": {"externalId": "alice-1", "ownerIdentity": "` + testOwner + `"},
		"token":"ACME","price":34,"isPaid":false,"isDelivered":false
	}`
	_, err := ParseSettlement([]byte(raw))
	want := &MissingFieldError{Field: "quantity"}
	if !reflect.DeepEqual(err, want) {
		t.Errorf("error = %#v, want %#v", err, want)
	}
}

func TestSettlementCanonicalRoundTrip(t *testing.T) {
	two := uint64(2)
	want := SettlementRecord{
		Buyer:       SettlementParty{ExternalID: "alice-1", Owner: Identity(testOwner)},
		Seller:      SettlementParty{ExternalID: "bob-1", Owner: Identity(testOtherOwner), SubAccount: &two},
		Quantity:    10,
		Token:       "ACME",
		Price:       34,
		IsPaid:      true,
		IsDelivered: false,
	}
	data, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := ParseSettlement(data)
	if err != nil {
		t.Fatalf("parse canonical %s: %v", data, err)
	}
	if !reflect.DeepEqual(*got, want) {
		t.Errorf("round trip: got %+v, want %+v", *got, want)
	}
}
