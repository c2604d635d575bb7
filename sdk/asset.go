package sdk

import (
	"strings"

	"github.com/holiman/uint256"
)

type Asset string

const (
	AssetHive       Asset = "hive"
	AssetHiveCons   Asset = "hive_consensus"
	AssetHbd        Asset = "hbd"
	AssetHbdSavings Asset = "hbd_savings"
)

// String returns the raw ticker string for logging or host calls.
// Example payload: sdk.AssetHive.String()
func (a Asset) String() string {
	return string(a)
}

// IsValid rejects empty tickers and the separator characters used in events.
func (a Asset) IsValid() bool {
	return a != "" && !strings.ContainsAny(a.String(), "|: \t\n")
}

// Payment is one asset line moved alongside a call or a transfer.
type Payment struct {
	Asset  Asset
	Amount *uint256.Int
}

// IsZero reports whether the payment carries nothing.
func (p Payment) IsZero() bool {
	return p.Amount == nil || p.Amount.IsZero()
}
