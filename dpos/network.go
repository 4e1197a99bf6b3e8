// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package dpos

import "sort"

// Network is the immutable set of parameters a ledger is bound to.
// It is passed explicitly to every component that needs it.
type Network struct {
	name       string
	pubKeyHash byte
	exceptions map[Bytes32]struct{}
}

// well known networks without exceptions
var (
	Mainnet = NewNetwork("mainnet", 0x17)
	Devnet  = NewNetwork("devnet", 0x1e)
)

// NewNetwork creates a network. Transactions whose id is listed in exceptions
// are applied without validation.
func NewNetwork(name string, pubKeyHash byte, exceptions ...Bytes32) *Network {
	n := &Network{
		name:       name,
		pubKeyHash: pubKeyHash,
		exceptions: make(map[Bytes32]struct{}, len(exceptions)),
	}
	for _, id := range exceptions {
		n.exceptions[id] = struct{}{}
	}
	return n
}

// WithExceptions returns a copy of the network with additional exceptions.
func (n *Network) WithExceptions(ids ...Bytes32) *Network {
	return NewNetwork(n.name, n.pubKeyHash, append(n.Exceptions(), ids...)...)
}

// Name returns the network name.
func (n *Network) Name() string { return n.name }

// PubKeyHash returns the address version byte of the network.
func (n *Network) PubKeyHash() byte { return n.pubKeyHash }

// IsException returns whether the transaction id is in the exception allow-list.
func (n *Network) IsException(id Bytes32) bool {
	_, ok := n.exceptions[id]
	return ok
}

// Exceptions returns the exception allow-list in a stable order.
func (n *Network) Exceptions() []Bytes32 {
	ids := make([]Bytes32, 0, len(n.exceptions))
	for id := range n.exceptions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return string(ids[i][:]) < string(ids[j][:])
	})
	return ids
}

// DeriveAddress derives the address of pub on this network.
func (n *Network) DeriveAddress(pub PublicKey) Address {
	return DeriveAddress(pub, n.pubKeyHash)
}

// ValidateAddress checks that addr is a well formed address of this network.
func (n *Network) ValidateAddress(addr Address) bool {
	return ValidateAddress(addr, n.pubKeyHash)
}
