// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"slices"
	"strings"

	"github.com/dposchain/ledger/block"
	"github.com/dposchain/ledger/dpos"
	"github.com/dposchain/ledger/wallet"
)

// Registry is the fixed set of addresses that sent the genesis block transactions.
type Registry struct {
	addresses map[dpos.Address]struct{}
}

// NewRegistry collects the sender addresses of the genesis block.
func NewRegistry(genesisBlock *block.Block, network *dpos.Network) *Registry {
	r := &Registry{addresses: make(map[dpos.Address]struct{})}
	for _, trx := range genesisBlock.Transactions() {
		r.addresses[network.DeriveAddress(trx.SenderPublicKey())] = struct{}{}
	}
	return r
}

// IsGenesis returns whether w originates from the genesis block.
func (r *Registry) IsGenesis(w *wallet.Wallet) bool {
	_, ok := r.addresses[w.Address]
	return ok
}

// Addresses returns the genesis sender addresses in sorted order.
func (r *Registry) Addresses() []dpos.Address {
	addrs := make([]dpos.Address, 0, len(r.addresses))
	for addr := range r.addresses {
		addrs = append(addrs, addr)
	}
	slices.SortFunc(addrs, func(a, b dpos.Address) int {
		return strings.Compare(string(a), string(b))
	})
	return addrs
}
