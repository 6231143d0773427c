package exchange

import (
	"encoding/json"
	"strconv"
)

// OrderRecord is a validated two-sided trade order. Quantity and price are
// limit values in the token's smallest unit; SubAccount is nil when the
// order trades from the owner's default portfolio.
type OrderRecord struct {
	IsBuy      bool
	Quantity   int64
	Token      string
	Price      int64
	Owner      Identity
	SubAccount *uint64
}

// AssignedOrder pairs an order with the key it is stored under.
type AssignedOrder struct {
	ID    string      `json:"id"`
	Order OrderRecord `json:"order"`
}

// ParseOrder validates raw JSON into an order. Fields are checked in fixed
// order (isBuy, quantity, token, price, ownerIdentity, subAccountId) so a
// given bad input always reports the same error.
func ParseOrder(raw []byte) (*OrderRecord, error) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return OrderFromMap(fields)
}

// OrderFromMap validates an already-decoded JSON object into an order.
func OrderFromMap(fields map[string]any) (*OrderRecord, error) {
	isBuy, err := requireBool(fields, "isBuy")
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
	rawOwner, err := requireString(fields, "ownerIdentity")
	if err != nil {
		return nil, err
	}
	owner, err := ParseIdentity(rawOwner)
	if err != nil {
		return nil, err
	}
	subAccount, err := optionalSubAccount(fields, "subAccountId")
	if err != nil {
		return nil, err
	}
	return &OrderRecord{
		IsBuy:      isBuy,
		Quantity:   quantity,
		Token:      token,
		Price:      price,
		Owner:      owner,
		SubAccount: subAccount,
	}, nil
}

// MarshalJSON writes the canonical wire shape. The sub-account travels as a
// decimal string and is omitted entirely when absent, so parsing the output
// yields a record deeply equal to the input.
func (o OrderRecord) MarshalJSON() ([]byte, error) {
	type wire struct {
		IsBuy      bool    `json:"isBuy"`
		Quantity   int64   `json:"quantity"`
		Token      string  `json:"token"`
		Price      int64   `json:"price"`
		Owner      string  `json:"ownerIdentity"`
		SubAccount *string `json:"subAccountId,omitempty"`
	}
	w := wire{
		IsBuy:    o.IsBuy,
		Quantity: o.Quantity,
		Token:    o.Token,
		Price:    o.Price,
		Owner:    string(o.Owner),
	}
	if o.SubAccount != nil {
		s := strconv.FormatUint(*o.SubAccount, 10)
		w.SubAccount = &s
	}
	return json.Marshal(w)
}

// UnmarshalJSON runs the full validator, so anything decoded from a store
// document satisfies the same invariants as fresh input.
func (o *OrderRecord) UnmarshalJSON(b []byte) error {
	r, err := ParseOrder(b)
	if err != nil {
		return err
	}
	*o = *r
	return nil
}

// jsonTypeName names the JSON primitive type of a decoded value, for
// WrongTypeError diagnostics.
func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "unknown"
	}
}

func requireBool(fields map[string]any, name string) (bool, error) {
	v, ok := fields[name]
	if !ok {
		return false, &MissingFieldError{Field: name}
	}
	b, ok := v.(bool)
	if !ok {
		return false, &WrongTypeError{Field: name, Actual: jsonTypeName(v)}
	}
	return b, nil
}

func requireString(fields map[string]any, name string) (string, error) {
	v, ok := fields[name]
	if !ok {
		return "", &MissingFieldError{Field: name}
	}
	s, ok := v.(string)
	if !ok {
		return "", &WrongTypeError{Field: name, Actual: jsonTypeName(v)}
	}
	return s, nil
}

func requireNumber(fields map[string]any, name string) (int64, error) {
	v, ok := fields[name]
	if !ok {
		return 0, &MissingFieldError{Field: name}
	}
	f, ok := v.(float64)
	if !ok {
		return 0, &WrongTypeError{Field: name, Actual: jsonTypeName(v)}
	}
	return int64(f), nil
}

// requirePositive type-checks a number then rejects zero. Negative values
// pass through unchanged; the zero check is deliberately not a sign check.
func requirePositive(fields map[string]any, name string) (int64, error) {
	n, err := requireNumber(fields, name)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, &ZeroValueError{Field: name}
	}
	return n, nil
}

// optionalSubAccount normalizes a sub-account value. Absent, null and the
// empty string all mean "default portfolio". A numeric string or an integral
// non-negative number yields the sub-account number.
func optionalSubAccount(fields map[string]any, name string) (*uint64, error) {
	v, ok := fields[name]
	if !ok || v == nil {
		return nil, nil
	}
	switch t := v.(type) {
	case string:
		if t == "" {
			return nil, nil
		}
		n, err := strconv.ParseUint(t, 10, 64)
		if err != nil {
			return nil, &InvalidNumberError{Field: name, Value: t}
		}
		return &n, nil
	case float64:
		if t < 0 || t != float64(int64(t)) {
			return nil, &InvalidNumberError{Field: name, Value: strconv.FormatFloat(t, 'f', -1, 64)}
		}
		n := uint64(t)
		return &n, nil
	default:
		return nil, &InvalidNumberError{Field: name, Value: jsonTypeName(v)}
	}
}
