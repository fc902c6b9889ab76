package payment

import (
	"errors"
	"fmt"
)

var ErrInvalidCheckout = errors.New("invalid checkout request")

// ProviderError is any failure talking to the payment provider: transport,
// auth, or an unknown session id.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("payment provider %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
