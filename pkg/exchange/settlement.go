package exchange

import "encoding/json"

// SettlementParty identifies one side of a settlement: the external id the
// order was stored under, the trader's on-chain identity, and optionally a
// sub-account (portfolio) number.
type SettlementParty struct {
	ExternalID string   `json:"externalId"`
	Owner      Identity `json:"ownerIdentity"`
	SubAccount *uint64  `json:"subAccountId,omitempty"`
}

// SettlementRecord is a validated settlement instruction between two
// distinct parties. Once created, only the IsPaid and IsDelivered flags may
// change; everything else is immutable.
type SettlementRecord struct {
	Buyer       SettlementParty `json:"buyer"`
	Seller      SettlementParty `json:"seller"`
	Quantity    int64           `json:"quantity"`
	Token       string          `json:"token"`
	Price       int64           `json:"price"`
	IsPaid      bool            `json:"isPaid"`
	IsDelivered bool            `json:"isDelivered"`
}

// FullSettlement pairs a settlement with the key it is stored under.
type FullSettlement struct {
	ID         string           `json:"id"`
	Settlement SettlementRecord `json:"settlement"`
}

// Involves reports whether the party id is the buyer or the seller.
func (s SettlementRecord) Involves(externalID string) bool {
	return s.Buyer.ExternalID == externalID || s.Seller.ExternalID == externalID
}

// ParseSettlement validates raw JSON into a settlement. The buyer is fully
// validated before the seller, field completeness and types before the
// cross-party duplicate checks, so error reporting is deterministic.
func ParseSettlement(raw []byte) (*SettlementRecord, error) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return SettlementFromMap(fields)
}

// SettlementFromMap validates an already-decoded JSON object into a
// settlement.
func SettlementFromMap(fields map[string]any) (*SettlementRecord, error) {
	buyer, err := partyFromField(fields, "buyer")
	if err != nil {
		return nil, err
	}
	seller, err := partyFromField(fields, "seller")
	if err != nil {
		return nil, err
	}
	quantity, err := requirePositive(fields, "quantity")
	if err != nil {
		return nil, err
	}
	token, err := requireString(fields, "token")
	if err != nil {
		return nil, err
	}
	price, err := requirePositive(fields, "price")
	if err != nil {
		return nil, err
	}
	isPaid, err := requireBool(fields, "isPaid")
	if err != nil {
		return nil, err
	}
	isDelivered, err := requireBool(fields, "isDelivered")
	if err != nil {
		return nil, err
	}
	return assembleSettlement(*buyer, *seller, quantity, token, price, isPaid, isDelivered)
}

// partyFromField validates one nested party object. Nested field names are
// reported with the party prefix, e.g. "buyer.externalId".
func partyFromField(fields map[string]any, name string) (*SettlementParty, error) {
	v, ok := fields[name]
	if !ok {
		return nil, &MissingFieldError{Field: name}
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &WrongTypeError{Field: name, Actual: jsonTypeName(v)}
	}
	externalID, err := requireString(obj, "externalId")
	if err != nil {
		return nil, prefixField(err, name)
	}
	rawOwner, err := requireString(obj, "ownerIdentity")
	if err != nil {
		return nil, prefixField(err, name)
	}
	owner, err := ParseIdentity(rawOwner)
	if err != nil {
		return nil, err
	}
	subAccount, err := optionalSubAccount(obj, "subAccountId")
	if err != nil {
		return nil, prefixField(err, name)
	}
	return &SettlementParty{ExternalID: externalID, Owner: owner, SubAccount: subAccount}, nil
}

// prefixField rewrites a nested field name with its party prefix.
func prefixField(err error, prefix string) error {
	switch e := err.(type) {
	case *MissingFieldError:
		e.Field = prefix + "." + e.Field
	case *WrongTypeError:
		e.Field = prefix + "." + e.Field
	case *InvalidNumberError:
		e.Field = prefix + "." + e.Field
	}
	return err
}

// assembleSettlement applies the cross-party invariants shared by the
// validator and the matching engine: the two sides must be distinct parties
// with distinct owner identities.
func assembleSettlement(buyer, seller SettlementParty, quantity int64, token string, price int64, isPaid, isDelivered bool) (*SettlementRecord, error) {
	if buyer.ExternalID == seller.ExternalID {
		return nil, &DuplicatePartiesError{ExternalID: buyer.ExternalID}
	}
	if buyer.Owner == seller.Owner {
		return nil, &DuplicateIdentityError{Identity: buyer.Owner}
	}
	return &SettlementRecord{
		Buyer:       buyer,
		Seller:      seller,
		Quantity:    quantity,
		Token:       token,
		Price:       price,
		IsPaid:      isPaid,
		IsDelivered: isDelivered,
	}, nil
}

// UnmarshalJSON runs the full validator, mirroring OrderRecord.
func (s *SettlementRecord) UnmarshalJSON(b []byte) error {
	r, err := ParseSettlement(b)
	if err != nil {
		return err
	}
	*s = *r
	return nil
}
