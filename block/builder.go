// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block

import (
	"math/big"

	"github.com/dposchain/ledger/dpos"
	"github.com/dposchain/ledger/tx"
)

// Builder to make it easy to build a block object.
type Builder struct {
	header header
	txs    tx.Transactions
}

// Height set height.
func (b *Builder) Height(h uint32) *Builder {
	b.header.Height = h
	return b
}

// Timestamp set timestamp.
func (b *Builder) Timestamp(ts uint64) *Builder {
	b.header.Timestamp = ts
	return b
}

// PreviousBlock set parent id.
func (b *Builder) PreviousBlock(id dpos.Bytes32) *Builder {
	b.header.PreviousBlock = id
	return b
}

// Generator set the forging delegate key.
func (b *Builder) Generator(pub dpos.PublicKey) *Builder {
	b.header.GeneratorPublicKey = pub
	return b
}

// Reward set forging reward.
func (b *Builder) Reward(reward *big.Int) *Builder {
	b.header.Reward = new(big.Int).Set(reward)
	return b
}

// TotalFee overrides the fee sum computed from transactions.
func (b *Builder) TotalFee(fee *big.Int) *Builder {
	b.header.TotalFee = new(big.Int).Set(fee)
	return b
}

// TotalAmount overrides the amount sum computed from transactions.
func (b *Builder) TotalAmount(amount *big.Int) *Builder {
	b.header.TotalAmount = new(big.Int).Set(amount)
	return b
}

// Transaction add a transaction.
func (b *Builder) Transaction(trx *tx.Transaction) *Builder {
	b.txs = append(b.txs, trx)
	return b
}

// Build build a block object.
func (b *Builder) Build() *Block {
	h := b.header
	if h.Reward == nil {
		h.Reward = new(big.Int)
	}
	if h.TotalFee == nil {
		h.TotalFee = b.txs.TotalFee()
	}
	if h.TotalAmount == nil {
		h.TotalAmount = b.txs.TotalAmount()
	}
	return &Block{
		header: h,
		txs:    b.txs.Copy(),
	}
}
