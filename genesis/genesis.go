// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/dposchain/ledger/block"
	"github.com/dposchain/ledger/dpos"
)

// Genesis bundles the height-1 block and the network it was built for.
type Genesis struct {
	name    string
	block   *block.Block
	network *dpos.Network
}

// Name returns the network name.
func (g *Genesis) Name() string {
	return g.name
}

// ID returns the genesis block id.
func (g *Genesis) ID() dpos.Bytes32 {
	return g.block.ID()
}

// Block returns the genesis block.
func (g *Genesis) Block() *block.Block {
	return g.block
}

// Network returns the network. Its exception list covers the genesis allocations.
func (g *Genesis) Network() *dpos.Network {
	return g.network
}

// Registry returns the genesis registry of the block.
func (g *Genesis) Registry() *Registry {
	return NewRegistry(g.block, g.network)
}
