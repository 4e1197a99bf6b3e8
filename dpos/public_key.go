// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package dpos

import (
	"encoding/hex"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/pkg/errors"
)

// PublicKeyLength length of a compressed secp256k1 public key.
const PublicKeyLength = secp256k1.PubKeyBytesLenCompressed

// PublicKey is a compressed secp256k1 public key.
type PublicKey [PublicKeyLength]byte

// String implements stringer. Keys are rendered as plain hex without prefix.
func (k PublicKey) String() string {
	return hex.EncodeToString(k[:])
}

// AbbrevString returns abbrev string presentation.
func (k PublicKey) AbbrevString() string {
	s := k.String()
	return s[:8] + "…" + s[len(s)-6:]
}

// Bytes returns byte slice form of the key.
func (k PublicKey) Bytes() []byte {
	return k[:]
}

// IsZero returns if the key has all zero bytes.
func (k PublicKey) IsZero() bool {
	return k == PublicKey{}
}

// MarshalText implements encoding.TextMarshaler.
func (k PublicKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *PublicKey) UnmarshalText(text []byte) error {
	parsed, err := ParsePublicKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParsePublicKey decodes a hex encoded compressed key and checks that it is a
// point on the curve. An optional 0x prefix is accepted.
func ParsePublicKey(s string) (PublicKey, error) {
	if len(s) >= 2 && strings.ToLower(s[:2]) == "0x" {
		s = s[2:]
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return PublicKey{}, errors.Wrap(err, "decode public key")
	}
	return BytesToPublicKey(b)
}

// MustParsePublicKey is like ParsePublicKey but panics on error.
func MustParsePublicKey(s string) PublicKey {
	k, err := ParsePublicKey(s)
	if err != nil {
		panic(err)
	}
	return k
}

// BytesToPublicKey validates b as a compressed public key.
func BytesToPublicKey(b []byte) (PublicKey, error) {
	if len(b) != PublicKeyLength {
		return PublicKey{}, errors.Errorf("invalid public key length %d", len(b))
	}
	if _, err := secp256k1.ParsePubKey(b); err != nil {
		return PublicKey{}, errors.Wrap(err, "parse public key")
	}
	var k PublicKey
	copy(k[:], b)
	return k, nil
}

// PublicKeyOf returns the compressed public key of a private key.
func PublicKeyOf(priv *secp256k1.PrivateKey) PublicKey {
	var k PublicKey
	copy(k[:], priv.PubKey().SerializeCompressed())
	return k
}
