// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package wallet

import (
	"fmt"
	"math/big"
	"slices"

	"github.com/dposchain/ledger/block"
	"github.com/dposchain/ledger/dpos"
)

// MultiSignature is the multi-signature group registered for a wallet.
type MultiSignature struct {
	Min      uint8
	Lifetime uint8
	Keys     []dpos.PublicKey
}

// Wallet is the ledger record of one address.
// A wallet is mutated only through its apply/undo methods.
type Wallet struct {
	Address         dpos.Address
	PublicKey       *dpos.PublicKey
	SecondPublicKey *dpos.PublicKey
	Username        string
	Balance         *big.Int
	Vote            *dpos.PublicKey
	MultiSignature  *MultiSignature
	Nonce           uint64

	ProducedBlocks uint64
	ForgedFees     *big.Int
	ForgedRewards  *big.Int
}

// New creates an empty wallet for addr.
func New(addr dpos.Address) *Wallet {
	return &Wallet{
		Address:       addr,
		Balance:       new(big.Int),
		ForgedFees:    new(big.Int),
		ForgedRewards: new(big.Int),
	}
}

// IsDelegate returns whether the wallet holds a delegate username.
func (w *Wallet) IsDelegate() bool {
	return w.Username != ""
}

// IsDistinguished returns whether the wallet carries a username or extra credentials.
func (w *Wallet) IsDistinguished() bool {
	return w.Username != "" || w.SecondPublicKey != nil || w.MultiSignature != nil
}

// IsEmpty returns whether the wallet has zero balance and is not distinguished.
func (w *Wallet) IsEmpty() bool {
	return w.Balance.Sign() == 0 && !w.IsDistinguished()
}

// Copy returns a deep copy of the wallet.
func (w *Wallet) Copy() *Wallet {
	cpy := *w
	cpy.PublicKey = copyKey(w.PublicKey)
	cpy.SecondPublicKey = copyKey(w.SecondPublicKey)
	cpy.Vote = copyKey(w.Vote)
	cpy.Balance = new(big.Int).Set(w.Balance)
	cpy.ForgedFees = new(big.Int).Set(w.ForgedFees)
	cpy.ForgedRewards = new(big.Int).Set(w.ForgedRewards)
	if w.MultiSignature != nil {
		ms := *w.MultiSignature
		ms.Keys = slices.Clone(w.MultiSignature.Keys)
		cpy.MultiSignature = &ms
	}
	return &cpy
}

// Equal reports whether two wallets hold the same state.
func (w *Wallet) Equal(o *Wallet) bool {
	if w == nil || o == nil {
		return w == o
	}
	if w.Address != o.Address ||
		w.Username != o.Username ||
		w.Nonce != o.Nonce ||
		w.ProducedBlocks != o.ProducedBlocks ||
		!equalKey(w.PublicKey, o.PublicKey) ||
		!equalKey(w.SecondPublicKey, o.SecondPublicKey) ||
		!equalKey(w.Vote, o.Vote) ||
		w.Balance.Cmp(o.Balance) != 0 ||
		w.ForgedFees.Cmp(o.ForgedFees) != 0 ||
		w.ForgedRewards.Cmp(o.ForgedRewards) != 0 {
		return false
	}
	if w.MultiSignature == nil || o.MultiSignature == nil {
		return w.MultiSignature == o.MultiSignature
	}
	return w.MultiSignature.Min == o.MultiSignature.Min &&
		w.MultiSignature.Lifetime == o.MultiSignature.Lifetime &&
		slices.Equal(w.MultiSignature.Keys, o.MultiSignature.Keys)
}

func (w *Wallet) String() string {
	pub := "nil"
	if w.PublicKey != nil {
		pub = w.PublicKey.AbbrevString()
	}
	return fmt.Sprintf("Wallet(%v pub=%v username=%q balance=%v nonce=%v)",
		w.Address, pub, w.Username, w.Balance, w.Nonce)
}

func copyKey(k *dpos.PublicKey) *dpos.PublicKey {
	if k == nil {
		return nil
	}
	cpy := *k
	return &cpy
}

func equalKey(a, b *dpos.PublicKey) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// ApplyBlock credits the forging reward and fees.
func (w *Wallet) ApplyBlock(blk *block.Block) {
	reward, fee := blk.Reward(), blk.TotalFee()
	w.Balance.Add(w.Balance, reward)
	w.Balance.Add(w.Balance, fee)
	w.ForgedRewards.Add(w.ForgedRewards, reward)
	w.ForgedFees.Add(w.ForgedFees, fee)
	w.ProducedBlocks++
}

// UndoBlock reverts ApplyBlock.
func (w *Wallet) UndoBlock(blk *block.Block) {
	reward, fee := blk.Reward(), blk.TotalFee()
	w.Balance.Sub(w.Balance, reward)
	w.Balance.Sub(w.Balance, fee)
	w.ForgedRewards.Sub(w.ForgedRewards, reward)
	w.ForgedFees.Sub(w.ForgedFees, fee)
	// a synthesized forger has no produced blocks to take back
	if w.ProducedBlocks > 0 {
		w.ProducedBlocks--
	}
}
