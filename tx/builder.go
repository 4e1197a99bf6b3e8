// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"math/big"

	"github.com/dposchain/ledger/dpos"
	"github.com/pkg/errors"
)

// Builder to make it easy to build transaction.
type Builder struct {
	body    body
	payload Payload
}

// NewBuilder creates a builder for a tx carrying payload.
func NewBuilder(payload Payload) *Builder {
	return &Builder{payload: payload}
}

// Sender set sender public key.
func (b *Builder) Sender(pub dpos.PublicKey) *Builder {
	b.body.SenderPublicKey = pub
	return b
}

// Recipient set recipient address.
func (b *Builder) Recipient(addr dpos.Address) *Builder {
	b.body.Recipient = &addr
	return b
}

// Amount set amount.
func (b *Builder) Amount(amount *big.Int) *Builder {
	b.body.Amount = new(big.Int).Set(amount)
	return b
}

// Fee set fee.
func (b *Builder) Fee(fee *big.Int) *Builder {
	b.body.Fee = new(big.Int).Set(fee)
	return b
}

// Timestamp set timestamp.
func (b *Builder) Timestamp(ts uint64) *Builder {
	b.body.Timestamp = ts
	return b
}

// Signature add a signature.
func (b *Builder) Signature(sig []byte) *Builder {
	b.body.Signatures = append(b.body.Signatures, append([]byte(nil), sig...))
	return b
}

// SecondSignature set second signature.
func (b *Builder) SecondSignature(sig []byte) *Builder {
	b.body.SecondSignature = append([]byte(nil), sig...)
	return b
}

// Build build tx object.
func (b *Builder) Build() (*Transaction, error) {
	if b.payload == nil {
		return nil, errors.New("missing payload")
	}
	body := b.body
	body.Type = b.payload.Type()
	if body.Amount == nil {
		body.Amount = new(big.Int)
	}
	if body.Fee == nil {
		body.Fee = new(big.Int)
	}
	if body.Amount.Sign() < 0 || body.Fee.Sign() < 0 {
		return nil, errors.New("negative amount or fee")
	}
	if body.Type != TypeTransfer && body.Amount.Sign() != 0 {
		return nil, errors.Errorf("%v tx must not carry an amount", body.Type)
	}

	payload := b.payload.copy()
	data, err := encodePayload(payload)
	if err != nil {
		return nil, errors.Wrap(err, "encode payload")
	}
	body.Payload = data
	return &Transaction{body: body, payload: payload}, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *Transaction {
	trx, err := b.Build()
	if err != nil {
		panic(err)
	}
	return trx
}
