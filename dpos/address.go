// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package dpos

import (
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/pkg/errors"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck
)

// AddressPayloadLength length of the hash carried by an address.
const AddressPayloadLength = ripemd160.Size

// Address is the base58check encoded address of a wallet.
// The version byte of the encoding is the network's public key hash.
type Address string

// String implements the stringer interface.
func (a Address) String() string {
	return string(a)
}

// IsZero returns if the address is empty.
func (a Address) IsZero() bool {
	return a == ""
}

// DeriveAddress computes the address of the given public key on the network
// identified by pubKeyHash.
func DeriveAddress(pub PublicKey, pubKeyHash byte) Address {
	h := ripemd160.New()
	h.Write(pub[:])
	return Address(base58.CheckEncode(h.Sum(nil), pubKeyHash))
}

// ValidateAddress returns whether addr is well formed and belongs to the
// network identified by pubKeyHash.
func ValidateAddress(addr Address, pubKeyHash byte) bool {
	payload, version, err := base58.CheckDecode(string(addr))
	if err != nil {
		return false
	}
	return version == pubKeyHash && len(payload) == AddressPayloadLength
}

// ParseAddress converts s into Address, verifying checksum and network.
func ParseAddress(s string, pubKeyHash byte) (Address, error) {
	payload, version, err := base58.CheckDecode(s)
	if err != nil {
		return "", errors.Wrap(err, "decode address")
	}
	if version != pubKeyHash {
		return "", errors.Errorf("address network mismatch: want %#x, got %#x", pubKeyHash, version)
	}
	if len(payload) != AddressPayloadLength {
		return "", errors.Errorf("invalid address length %d", len(payload))
	}
	return Address(s), nil
}
