package sdk

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

type AddressDomain string

const (
	AddressDomainUser     AddressDomain = "user"
	AddressDomainContract AddressDomain = "contract"
	AddressDomainSystem   AddressDomain = "system"
)

type AddressType string

const (
	AddressTypeEVM      AddressType = "evm"
	AddressTypeKey      AddressType = "key"
	AddressTypeHive     AddressType = "hive"
	AddressTypeSystem   AddressType = "system"
	AddressTypeContract AddressType = "contract"
	AddressTypeUnknown  AddressType = "unknown"
)

const evmDIDPrefix = "did:pkh:eip155:"

// Address identifies a principal: a board member, a voter or a dispatch target.
type Address string

// String returns the literal representation (like hive:alice) of the address.
// Example payload: sdk.Address("hive:foo").String()
func (a Address) String() string {
	return string(a)
}

// Domain checks the prefix to guess if we deal with user/contract/system domain.
// Example payload: sdk.Address("contract:okinoko").Domain()
func (a Address) Domain() AddressDomain {
	if strings.HasPrefix(a.String(), "system:") {
		return AddressDomainSystem
	}
	if strings.HasPrefix(a.String(), "contract:") {
		return AddressDomainContract
	}
	return AddressDomainUser
}

// Type inspects the prefix to categorize the address (evm, key, hive,...).
// Bare 0x addresses count as evm too.
func (a Address) Type() AddressType {
	s := a.String()
	switch {
	case strings.HasPrefix(s, evmDIDPrefix), common.IsHexAddress(s):
		return AddressTypeEVM
	case strings.HasPrefix(s, "did:key:"):
		return AddressTypeKey
	case strings.HasPrefix(s, "hive:"):
		return AddressTypeHive
	case strings.HasPrefix(s, "system:"):
		return AddressTypeSystem
	case strings.HasPrefix(s, "contract:"):
		return AddressTypeContract
	default:
		return AddressTypeUnknown
	}
}

// IsValid returns false if the address type detection failed, used as a light sanity check.
// Example payload: sdk.Address("foo").IsValid()
func (a Address) IsValid() bool {
	if a.Type() != AddressTypeEVM {
		return a.Type() != AddressTypeUnknown
	}
	_, hex, ok := a.splitEVM()
	return ok && common.IsHexAddress(hex)
}

// Canonical normalizes evm addresses to their checksummed form so the same
// account never ends up as two different set members. Other types are returned as is.
// Example payload: sdk.Address("0xabc...").Canonical()
func (a Address) Canonical() Address {
	if a.Type() != AddressTypeEVM {
		return a
	}
	prefix, hex, ok := a.splitEVM()
	if !ok || !common.IsHexAddress(hex) {
		return a
	}
	return Address(prefix + common.HexToAddress(hex).Hex())
}

// splitEVM separates a did:pkh:eip155:<chain>: prefix from the hex account.
func (a Address) splitEVM() (prefix, hex string, ok bool) {
	s := a.String()
	if !strings.HasPrefix(s, evmDIDPrefix) {
		return "", s, true
	}
	idx := strings.LastIndex(s, ":")
	if idx < len(evmDIDPrefix) {
		return "", "", false
	}
	return s[:idx+1], s[idx+1:], true
}
