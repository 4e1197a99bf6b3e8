// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block

import (
	"fmt"
	"io"
	"math/big"
	"sync/atomic"

	"github.com/dposchain/ledger/dpos"
	"github.com/dposchain/ledger/tx"
	"github.com/ethereum/go-ethereum/rlp"
)

// Block is an immutable block type.
type Block struct {
	header header
	txs    tx.Transactions

	cache struct {
		id atomic.Value
	}
}

type header struct {
	Height             uint32
	Timestamp          uint64
	PreviousBlock      dpos.Bytes32
	GeneratorPublicKey dpos.PublicKey
	Reward             *big.Int
	TotalFee           *big.Int
	TotalAmount        *big.Int
}

// ID returns the blake2b hash of the encoded header.
func (b *Block) ID() dpos.Bytes32 {
	if cached := b.cache.id.Load(); cached != nil {
		return cached.(dpos.Bytes32)
	}
	data, err := rlp.EncodeToBytes(&b.header)
	if err != nil {
		panic(err)
	}
	id := dpos.Blake2b(data)
	b.cache.id.Store(id)
	return id
}

// Height returns the height of the block. The genesis block is at height 1.
func (b *Block) Height() uint32 {
	return b.header.Height
}

// Timestamp returns timestamp of this block.
func (b *Block) Timestamp() uint64 {
	return b.header.Timestamp
}

// PreviousBlock returns id of the parent block.
func (b *Block) PreviousBlock() dpos.Bytes32 {
	return b.header.PreviousBlock
}

// GeneratorPublicKey returns the public key of the forging delegate.
func (b *Block) GeneratorPublicKey() dpos.PublicKey {
	return b.header.GeneratorPublicKey
}

// Reward returns the forging reward.
func (b *Block) Reward() *big.Int {
	return new(big.Int).Set(b.header.Reward)
}

// TotalFee returns the sum of transaction fees.
func (b *Block) TotalFee() *big.Int {
	return new(big.Int).Set(b.header.TotalFee)
}

// TotalAmount returns the sum of transaction amounts.
func (b *Block) TotalAmount() *big.Int {
	return new(big.Int).Set(b.header.TotalAmount)
}

// Transactions returns a copy of transactions.
func (b *Block) Transactions() tx.Transactions {
	return b.txs.Copy()
}

// EncodeRLP implements rlp.Encoder.
func (b *Block) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, []any{
		&b.header,
		b.txs,
	})
}

// DecodeRLP implements rlp.Decoder.
func (b *Block) DecodeRLP(s *rlp.Stream) error {
	payload := struct {
		Header header
		Txs    tx.Transactions
	}{}

	if err := s.Decode(&payload); err != nil {
		return err
	}
	*b = Block{
		header: payload.Header,
		txs:    payload.Txs,
	}
	return nil
}

func (b *Block) String() string {
	return fmt.Sprintf(`Block(%v)
	Height:         %v
	Timestamp:      %v
	PreviousBlock:  %v
	Generator:      %v
	Reward:         %v
	TotalFee:       %v
	TotalAmount:    %v
	Transactions:   %v`, b.ID(), b.header.Height, b.header.Timestamp, b.header.PreviousBlock,
		b.header.GeneratorPublicKey, b.header.Reward, b.header.TotalFee, b.header.TotalAmount, len(b.txs))
}
