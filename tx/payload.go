// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"fmt"

	"github.com/dposchain/ledger/dpos"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
)

// Type is the transaction type tag.
type Type uint8

// transaction types
const (
	TypeTransfer Type = iota
	TypeSecondSignature
	TypeDelegateRegistration
	TypeVote
	TypeMultiSignature
)

func (t Type) String() string {
	switch t {
	case TypeTransfer:
		return "transfer"
	case TypeSecondSignature:
		return "second-signature"
	case TypeDelegateRegistration:
		return "delegate-registration"
	case TypeVote:
		return "vote"
	case TypeMultiSignature:
		return "multi-signature"
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// Payload is the type specific part of a transaction.
// The set of implementations is closed: only the types in this file satisfy it.
type Payload interface {
	Type() Type
	copy() Payload
}

// Transfer moves the transaction amount to the recipient. It carries no extra fields.
type Transfer struct{}

// SecondSignature registers a second signing key for the sender.
type SecondSignature struct {
	PublicKey dpos.PublicKey
}

// DelegateRegistration claims a delegate username for the sender.
type DelegateRegistration struct {
	Username string
}

// VoteOp is a single vote or unvote for a delegate.
type VoteOp struct {
	Unvote   bool
	Delegate dpos.PublicKey
}

func (v VoteOp) String() string {
	if v.Unvote {
		return "-" + v.Delegate.String()
	}
	return "+" + v.Delegate.String()
}

// Vote casts or withdraws votes. Only the first op drives validation.
type Vote struct {
	Votes []VoteOp
}

// MultiSignature registers a multi-signature group for the sender.
type MultiSignature struct {
	Min      uint8
	Lifetime uint8
	Keys     []dpos.PublicKey
}

func (*Transfer) Type() Type             { return TypeTransfer }
func (*SecondSignature) Type() Type      { return TypeSecondSignature }
func (*DelegateRegistration) Type() Type { return TypeDelegateRegistration }
func (*Vote) Type() Type                 { return TypeVote }
func (*MultiSignature) Type() Type       { return TypeMultiSignature }

func (p *Transfer) copy() Payload { return &Transfer{} }

func (p *SecondSignature) copy() Payload {
	cpy := *p
	return &cpy
}

func (p *DelegateRegistration) copy() Payload {
	cpy := *p
	return &cpy
}

func (p *Vote) copy() Payload {
	return &Vote{Votes: append([]VoteOp(nil), p.Votes...)}
}

func (p *MultiSignature) copy() Payload {
	cpy := *p
	cpy.Keys = append([]dpos.PublicKey(nil), p.Keys...)
	return &cpy
}

func newPayload(t Type) (Payload, error) {
	switch t {
	case TypeTransfer:
		return &Transfer{}, nil
	case TypeSecondSignature:
		return &SecondSignature{}, nil
	case TypeDelegateRegistration:
		return &DelegateRegistration{}, nil
	case TypeVote:
		return &Vote{}, nil
	case TypeMultiSignature:
		return &MultiSignature{}, nil
	}
	return nil, errors.Errorf("unsupported transaction type %d", uint8(t))
}

func encodePayload(p Payload) ([]byte, error) {
	return rlp.EncodeToBytes(p)
}

func decodePayload(t Type, data []byte) (Payload, error) {
	p, err := newPayload(t)
	if err != nil {
		return nil, err
	}
	if err := rlp.DecodeBytes(data, p); err != nil {
		return nil, errors.Wrapf(err, "decode %v payload", t)
	}
	return p, nil
}
