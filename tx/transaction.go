// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"fmt"
	"io"
	"math/big"
	"strings"
	"sync/atomic"

	"github.com/dposchain/ledger/dpos"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
)

// Transaction is an immutable tx type.
type Transaction struct {
	body    body
	payload Payload

	cache struct {
		id atomic.Value
	}
}

// body describes details of a tx.
type body struct {
	Type            Type
	SenderPublicKey dpos.PublicKey
	Recipient       *dpos.Address `rlp:"nil"`
	Amount          *big.Int
	Fee             *big.Int
	Timestamp       uint64
	Payload         []byte
	Signatures      [][]byte
	SecondSignature []byte
}

// ID returns the blake2b hash of the encoded tx.
func (t *Transaction) ID() dpos.Bytes32 {
	if cached := t.cache.id.Load(); cached != nil {
		return cached.(dpos.Bytes32)
	}
	data, err := rlp.EncodeToBytes(&t.body)
	if err != nil {
		panic(err)
	}
	id := dpos.Blake2b(data)
	t.cache.id.Store(id)
	return id
}

// Type returns the type tag of tx.
func (t *Transaction) Type() Type {
	return t.body.Type
}

// SenderPublicKey returns the public key of the sender.
func (t *Transaction) SenderPublicKey() dpos.PublicKey {
	return t.body.SenderPublicKey
}

// Recipient returns the recipient address, nil if tx has no recipient.
func (t *Transaction) Recipient() *dpos.Address {
	if t.body.Recipient == nil {
		return nil
	}
	cpy := *t.body.Recipient
	return &cpy
}

// Amount returns the amount transferred to the recipient.
func (t *Transaction) Amount() *big.Int {
	return new(big.Int).Set(t.body.Amount)
}

// Fee returns the fee paid by the sender.
func (t *Transaction) Fee() *big.Int {
	return new(big.Int).Set(t.body.Fee)
}

// Timestamp returns the timestamp of tx.
func (t *Transaction) Timestamp() uint64 {
	return t.body.Timestamp
}

// Payload returns a copy of the type specific payload.
func (t *Transaction) Payload() Payload {
	return t.payload.copy()
}

// Signatures returns the signatures of tx.
func (t *Transaction) Signatures() [][]byte {
	sigs := make([][]byte, len(t.body.Signatures))
	for i, sig := range t.body.Signatures {
		sigs[i] = append([]byte(nil), sig...)
	}
	return sigs
}

// SecondSignature returns the second signature, nil if absent.
func (t *Transaction) SecondSignature() []byte {
	if len(t.body.SecondSignature) == 0 {
		return nil
	}
	return append([]byte(nil), t.body.SecondSignature...)
}

// EncodeRLP implements rlp.Encoder
func (t *Transaction) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &t.body)
}

// DecodeRLP implements rlp.Decoder
func (t *Transaction) DecodeRLP(s *rlp.Stream) error {
	var body body
	if err := s.Decode(&body); err != nil {
		return err
	}
	if body.Type != TypeTransfer && body.Amount.Sign() != 0 {
		return errors.Errorf("%v tx must not carry an amount", body.Type)
	}
	payload, err := decodePayload(body.Type, body.Payload)
	if err != nil {
		return err
	}
	*t = Transaction{
		body:    body,
		payload: payload,
	}
	return nil
}

func (t *Transaction) String() string {
	recipient := "nil"
	if t.body.Recipient != nil {
		recipient = t.body.Recipient.String()
	}
	return fmt.Sprintf(`Tx(%v)
	Type:           %v
	Sender:         %v
	Recipient:      %v
	Amount:         %v
	Fee:            %v
	Timestamp:      %v
	Signatures:     %v`, t.ID(), t.body.Type, t.body.SenderPublicKey, recipient,
		t.body.Amount, t.body.Fee, t.body.Timestamp, len(t.body.Signatures))
}

// NormalizeUsername returns the canonical form of a delegate username.
// Usernames are unique case-insensitively.
func NormalizeUsername(name string) string {
	return strings.ToLower(name)
}
