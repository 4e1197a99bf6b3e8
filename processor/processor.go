// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package processor

import (
	"time"

	"github.com/dposchain/ledger/block"
	"github.com/dposchain/ledger/dpos"
	"github.com/dposchain/ledger/log"
	"github.com/dposchain/ledger/state"
	"github.com/dposchain/ledger/tx"
	"github.com/dposchain/ledger/wallet"
	"github.com/pkg/errors"
)

var logger = log.WithContext("pkg", "processor")

// Processor applies and reverts transactions and blocks against a wallet store.
// Calls must be serialized by the caller.
type Processor struct {
	network *dpos.Network
	store   *state.Store
	sink    Sink
}

// New creates a processor. A nil sink discards events.
func New(network *dpos.Network, store *state.Store, sink Sink) *Processor {
	if sink == nil {
		sink = discardSink{}
	}
	return &Processor{
		network: network,
		store:   store,
		sink:    sink,
	}
}

// ApplyTransaction validates trx and applies it to the sender and recipient.
// It returns trx unchanged on success.
func (p *Processor) ApplyTransaction(trx *tx.Transaction) (_ *tx.Transaction, err error) {
	defer func() {
		metricTxCounter().AddWithLabel(1, map[string]string{"type": trx.Type().String(), "op": "apply", "result": result(err)})
	}()

	sender, err := p.store.FindByPublicKey(trx.SenderPublicKey())
	if err != nil {
		return nil, err
	}

	var recipient *wallet.Wallet
	if to := trx.Recipient(); to != nil {
		if recipient, err = p.resolveRecipient(trx, *to); err != nil {
			return nil, err
		}
	}

	if err := p.validate(trx, sender); err != nil {
		return nil, err
	}

	sender.ApplyTransactionToSender(trx)
	if recipient != nil && trx.Type() == tx.TypeTransfer {
		recipient.ApplyTransactionToRecipient(trx)
	}
	p.store.Reindex(sender)

	logger.Trace("applied transaction", "id", trx.ID(), "type", trx.Type(), "sender", sender.Address)
	return trx, nil
}

func (p *Processor) resolveRecipient(trx *tx.Transaction, addr dpos.Address) (*wallet.Wallet, error) {
	if w, ok := p.store.Get(addr); ok {
		return w, nil
	}
	w, err := p.store.FindByAddress(addr)
	if err != nil {
		return nil, err
	}
	metricColdWallets().Add(1)
	logger.Debug("cold wallet created", "address", addr, "tx", trx.ID())
	p.sink.Emit(&Event{Kind: EventColdWallet, Address: addr, TxID: trx.ID()})
	return w, nil
}

// validate runs the ordered checks gating a transaction. Exception listed ids skip them.
func (p *Processor) validate(trx *tx.Transaction, sender *wallet.Wallet) error {
	if p.network.IsException(trx.ID()) {
		metricExceptionCount().Add(1)
		logger.Warn("forcing exception transaction",
			"id", trx.ID(),
			"type", trx.Type(),
			"sender", sender.Address,
			"audit", sender.AuditApply(trx),
		)
		return nil
	}

	switch payload := trx.Payload().(type) {
	case *tx.DelegateRegistration:
		if holder, ok := p.store.FindByUsername(payload.Username); ok && holder != sender {
			return errors.Wrapf(ErrDuplicateDelegateName, "%q is held by %v", payload.Username, holder.Address)
		}
	case *tx.Vote:
		if len(payload.Votes) > 0 {
			target := payload.Votes[0].Delegate
			if w, ok := p.store.GetByPublicKey(target); !ok || !w.IsDelegate() {
				return errors.Wrapf(ErrInvalidVoteTarget, "%v is not a delegate", target.AbbrevString())
			}
		}
	}

	if audit := sender.AuditApply(trx); !audit.OK() {
		return errors.Wrapf(ErrTransactionNotApplicable, "tx %v from %v: %v", trx.ID(), sender.Address, audit)
	}
	return nil
}

// UndoTransaction reverts a previously applied trx. It performs no validation.
func (p *Processor) UndoTransaction(trx *tx.Transaction) (err error) {
	defer func() {
		metricTxCounter().AddWithLabel(1, map[string]string{"type": trx.Type().String(), "op": "undo", "result": result(err)})
	}()

	sender, err := p.store.FindByPublicKey(trx.SenderPublicKey())
	if err != nil {
		return err
	}

	var recipient *wallet.Wallet
	if to := trx.Recipient(); to != nil {
		recipient, _ = p.store.Get(*to)
	}

	sender.UndoTransactionToSender(trx)
	if recipient != nil && trx.Type() == tx.TypeTransfer {
		recipient.UndoTransactionToRecipient(trx)
	}

	if reg, ok := trx.Payload().(*tx.DelegateRegistration); ok {
		if holder, found := p.store.FindByUsername(reg.Username); found && holder == sender {
			p.store.Forget(reg.Username)
		}
	}
	p.store.Reindex(sender)

	logger.Trace("reverted transaction", "id", trx.ID(), "type", trx.Type(), "sender", sender.Address)
	return nil
}

// forger resolves the wallet forging blk. An unknown forger is synthesized only when allowed.
func (p *Processor) forger(blk *block.Block, synthesize bool) (*wallet.Wallet, error) {
	pub := blk.GeneratorPublicKey()
	if !p.store.ExistsByPublicKey(pub) {
		if !synthesize {
			return nil, errors.Wrapf(ErrUnknownDelegate, "generator %v at height %d", pub.AbbrevString(), blk.Height())
		}
		logger.Debug("synthesizing forger", "generator", pub.AbbrevString(), "height", blk.Height())
	}
	return p.store.FindByPublicKey(pub)
}

// ApplyBlock applies every transaction of blk in order, then credits the forger.
// If a transaction fails, the transactions applied so far are reverted in the
// order they were applied and the failure is returned.
func (p *Processor) ApplyBlock(blk *block.Block) (err error) {
	start := time.Now()
	defer func() {
		metricBlockCounter().AddWithLabel(1, map[string]string{"op": "apply", "result": result(err)})
		metricBlockDuration().Observe(time.Since(start).Milliseconds())
	}()

	delegate, err := p.forger(blk, blk.Height() == 1)
	if err != nil {
		return err
	}

	txs := blk.Transactions()
	applied := make([]*tx.Transaction, 0, len(txs))
	for _, trx := range txs {
		if _, err := p.ApplyTransaction(trx); err != nil {
			logger.Debug("failed to apply transaction, reverting block",
				"block", blk.ID().AbbrevString(), "height", blk.Height(), "tx", trx.ID(), "reverting", len(applied), "err", err)
			for _, done := range applied {
				if undoErr := p.UndoTransaction(done); undoErr != nil {
					logger.Error("failed to revert transaction", "tx", done.ID(), "err", undoErr)
				}
			}
			return errors.WithMessagef(err, "block %v at height %d", blk.ID().AbbrevString(), blk.Height())
		}
		applied = append(applied, trx)
	}

	delegate.ApplyBlock(blk)
	logger.Debug("applied block", "id", blk.ID().AbbrevString(), "height", blk.Height(), "txs", len(txs), "forger", delegate.Address)
	return nil
}

// UndoBlock reverts every transaction of blk in order, then debits the forger.
// If a transaction cannot be reverted, the transactions already reverted are applied again.
func (p *Processor) UndoBlock(blk *block.Block) (err error) {
	start := time.Now()
	defer func() {
		metricBlockCounter().AddWithLabel(1, map[string]string{"op": "undo", "result": result(err)})
		metricBlockDuration().Observe(time.Since(start).Milliseconds())
	}()

	delegate, err := p.forger(blk, true)
	if err != nil {
		return err
	}

	txs := blk.Transactions()
	undone := make([]*tx.Transaction, 0, len(txs))
	for _, trx := range txs {
		if err := p.UndoTransaction(trx); err != nil {
			// UndoTransaction fails only when the sender cannot be resolved, which a derived
			// address never triggers. The restore keeps the store consistent if that changes.
			logger.Debug("failed to revert transaction, restoring block",
				"block", blk.ID().AbbrevString(), "height", blk.Height(), "tx", trx.ID(), "restoring", len(undone), "err", err)
			for _, done := range undone {
				if _, applyErr := p.ApplyTransaction(done); applyErr != nil {
					logger.Error("failed to restore transaction", "tx", done.ID(), "err", applyErr)
				}
			}
			return errors.WithMessagef(err, "block %v at height %d", blk.ID().AbbrevString(), blk.Height())
		}
		undone = append(undone, trx)
	}

	delegate.UndoBlock(blk)
	logger.Debug("reverted block", "id", blk.ID().AbbrevString(), "height", blk.Height(), "txs", len(txs), "forger", delegate.Address)
	return nil
}
