package domain

import (
	"errors"
	"fmt"
)

// ErrConfiguration marks missing or invalid startup configuration (alias
// table, policy table). It is fatal: the service refuses to start.
var ErrConfiguration = errors.New("invalid configuration")

// ErrCoinNotListed reports that an exchange simply does not carry the
// requested coin. Distinct from a fetch failure: the data arrived fine and
// the coin is absent.
var ErrCoinNotListed = errors.New("not listed")

// NormalizationError reports a malformed or incomplete exchange payload.
// Record-level instances are logged and the record dropped; resolution
// continues with the remaining data.
type NormalizationError struct {
	ExchangeID string
	Coin       string
	Reason     string
}

func (e *NormalizationError) Error() string {
	if e.Coin != "" {
		return fmt.Sprintf("normalize %s/%s: %s", e.ExchangeID, e.Coin, e.Reason)
	}
	return fmt.Sprintf("normalize %s: %s", e.ExchangeID, e.Reason)
}

type FetchErrorKind string

const (
	FetchRateLimited  FetchErrorKind = "rate_limited"
	FetchUnauthorized FetchErrorKind = "unauthorized"
	FetchNetwork      FetchErrorKind = "network"
	FetchTimeout      FetchErrorKind = "timeout"
	FetchUnknown      FetchErrorKind = "unknown"
)

// FetchError classifies a capability-fetch failure. The resolution core
// treats it as terminal input: the affected exchange's candidates are
// excluded and the reason recorded, the resolution itself proceeds.
type FetchError struct {
	ExchangeID string
	Kind       FetchErrorKind
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s (%s): %v", e.ExchangeID, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// AsFetchError unwraps err to a *FetchError if one is in its chain.
func AsFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
