// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math/big"

	"github.com/dposchain/ledger/block"
	"github.com/dposchain/ledger/dpos"
	"github.com/dposchain/ledger/tx"
	"github.com/dposchain/ledger/wallet"
	"github.com/pkg/errors"
)

type allocation struct {
	addr   dpos.Address
	amount *big.Int
}

type delegate struct {
	pub      dpos.PublicKey
	username string
}

// Builder helps to build the genesis block.
// The block distributes the initial supply from the genesis sender, then every
// delegate registers its username and votes for itself.
type Builder struct {
	timestamp  uint64
	sender     dpos.PublicKey
	allocs     []allocation
	delegates  []delegate
	exceptions []dpos.Bytes32
}

// Timestamp set timestamp.
func (b *Builder) Timestamp(t uint64) *Builder {
	b.timestamp = t
	return b
}

// Sender set the key funding the allocations. It also forges the genesis block.
func (b *Builder) Sender(pub dpos.PublicKey) *Builder {
	b.sender = pub
	return b
}

// Alloc adds an initial balance.
func (b *Builder) Alloc(addr dpos.Address, amount *big.Int) *Builder {
	b.allocs = append(b.allocs, allocation{addr, new(big.Int).Set(amount)})
	return b
}

// Delegate adds a genesis delegate.
func (b *Builder) Delegate(pub dpos.PublicKey, username string) *Builder {
	b.delegates = append(b.delegates, delegate{pub, username})
	return b
}

// Exception adds a transaction id to the network exception list.
func (b *Builder) Exception(id dpos.Bytes32) *Builder {
	b.exceptions = append(b.exceptions, id)
	return b
}

// Build builds the genesis for a network derived from base.
func (b *Builder) Build(name string, base *dpos.Network) (*Genesis, error) {
	if b.sender.IsZero() {
		return nil, errors.New("genesis sender not set")
	}

	blk := new(block.Builder).
		Height(1).
		Timestamp(b.timestamp).
		Generator(b.sender)

	exceptions := append([]dpos.Bytes32(nil), b.exceptions...)
	for _, a := range b.allocs {
		if !base.ValidateAddress(a.addr) {
			return nil, errors.Errorf("alloc: invalid address %q", string(a.addr))
		}
		if a.amount.Sign() < 1 {
			return nil, errors.Errorf("alloc %v: amount must be positive", a.addr)
		}
		trx, err := tx.NewBuilder(&tx.Transfer{}).
			Sender(b.sender).
			Recipient(a.addr).
			Amount(a.amount).
			Timestamp(b.timestamp).
			Build()
		if err != nil {
			return nil, errors.Wrapf(err, "alloc %v", a.addr)
		}
		// the sender holds no balance before the allocations
		exceptions = append(exceptions, trx.ID())
		blk.Transaction(trx)
	}

	seen := make(map[string]bool, len(b.delegates))
	for _, d := range b.delegates {
		if !wallet.ValidUsername(d.username) {
			return nil, errors.Errorf("delegate %v: invalid username %q", d.pub.AbbrevString(), d.username)
		}
		name := tx.NormalizeUsername(d.username)
		if seen[name] {
			return nil, errors.Errorf("delegate %v: duplicate username %q", d.pub.AbbrevString(), d.username)
		}
		seen[name] = true

		reg, err := tx.NewBuilder(&tx.DelegateRegistration{Username: d.username}).
			Sender(d.pub).
			Timestamp(b.timestamp).
			Build()
		if err != nil {
			return nil, err
		}
		vote, err := tx.NewBuilder(&tx.Vote{Votes: []tx.VoteOp{{Delegate: d.pub}}}).
			Sender(d.pub).
			Timestamp(b.timestamp).
			Build()
		if err != nil {
			return nil, err
		}
		blk.Transaction(reg).Transaction(vote)
	}

	return &Genesis{
		name:    name,
		block:   blk.Build(),
		network: dpos.NewNetwork(name, base.PubKeyHash(), append(base.Exceptions(), exceptions...)...),
	}, nil
}
