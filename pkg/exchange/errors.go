package exchange

import "fmt"

// Validation and matching failures form a closed set of typed errors.
// Callers branch with errors.As; no error in this package is retried or
// swallowed internally.

// MissingFieldError reports a required field absent from the input.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// WrongTypeError reports a field present with the wrong primitive JSON type.
type WrongTypeError struct {
	Field  string
	Actual string // JSON type name: "string", "number", "boolean", "object", "array", "null"
}

func (e *WrongTypeError) Error() string {
	return fmt.Sprintf("field %q has wrong type %s", e.Field, e.Actual)
}

// ZeroValueError reports a quantity or price equal to zero.
type ZeroValueError struct {
	Field string
}

func (e *ZeroValueError) Error() string {
	return fmt.Sprintf("field %q must not be zero", e.Field)
}

// InvalidIdentityError reports an identity string that fails the
// 0x + 64 hex chars format.
type InvalidIdentityError struct {
	Value string
}

func (e *InvalidIdentityError) Error() string {
	return fmt.Sprintf("invalid identity format %q", e.Value)
}

// InvalidNumberError reports a sub-account value not parseable as a
// non-negative integer.
type InvalidNumberError struct {
	Field string
	Value string
}

func (e *InvalidNumberError) Error() string {
	return fmt.Sprintf("field %q is not a non-negative integer: %q", e.Field, e.Value)
}

// UnknownIdentityError reports an owner identity that the identity
// collaborator does not recognize.
type UnknownIdentityError struct {
	Identity Identity
}

func (e *UnknownIdentityError) Error() string {
	return fmt.Sprintf("unknown owner identity %s", e.Identity)
}

// InvalidSubAccountError reports a sub-account number that does not
// belong to the owner identity.
type InvalidSubAccountError struct {
	Identity   Identity
	SubAccount uint64
}

func (e *InvalidSubAccountError) Error() string {
	return fmt.Sprintf("identity %s has no sub-account %d", e.Identity, e.SubAccount)
}

// DuplicatePartiesError reports a settlement whose buyer and seller share
// the same external id.
type DuplicatePartiesError struct {
	ExternalID string
}

func (e *DuplicatePartiesError) Error() string {
	return fmt.Sprintf("buyer and seller are the same party %q", e.ExternalID)
}

// DuplicateIdentityError reports a settlement whose buyer and seller share
// the same owner identity.
type DuplicateIdentityError struct {
	Identity Identity
}

func (e *DuplicateIdentityError) Error() string {
	return fmt.Sprintf("buyer and seller share owner identity %s", e.Identity)
}

// WrongOrderSideError reports an order whose side does not match its
// expected role in a match.
type WrongOrderSideError struct {
	ExpectedBuy bool
}

func (e *WrongOrderSideError) Error() string {
	if e.ExpectedBuy {
		return "order is not a buy order"
	}
	return "order is not a sell order"
}

// IncompatibleTokenError reports matched orders trading different tokens.
type IncompatibleTokenError struct {
	BuyToken  string
	SellToken string
}

func (e *IncompatibleTokenError) Error() string {
	return fmt.Sprintf("orders trade different tokens: buy %q, sell %q", e.BuyToken, e.SellToken)
}
