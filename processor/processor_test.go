// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package processor_test

import (
	"bytes"
	"math/big"
	"testing"
	"time"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/dposchain/ledger/block"
	"github.com/dposchain/ledger/dpos"
	"github.com/dposchain/ledger/genesis"
	"github.com/dposchain/ledger/log"
	"github.com/dposchain/ledger/processor"
	"github.com/dposchain/ledger/state"
	"github.com/dposchain/ledger/tx"
	"github.com/dposchain/ledger/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var devBalance = new(big.Int).Mul(big.NewInt(1_000_000), big.NewInt(1e8))

type ledger struct {
	gen    *genesis.Genesis
	store  *state.Store
	events *processor.EventLog
	p      *processor.Processor
}

func newLedger(t *testing.T) *ledger {
	gen := genesis.NewDevnet()
	l := &ledger{
		gen:    gen,
		store:  state.New(gen.Network()),
		events: &processor.EventLog{},
	}
	l.p = processor.New(gen.Network(), l.store, l.events)
	require.NoError(t, l.p.ApplyBlock(gen.Block()))
	l.events.Reset()
	return l
}

func freshKey(b byte) dpos.PublicKey {
	var seed [32]byte
	seed[0], seed[31] = 0xaa, b
	return dpos.PublicKeyOf(secp256k1.PrivKeyFromBytes(seed[:]))
}

var timestamp uint64

func next() uint64 {
	timestamp++
	return timestamp
}

func transfer(from dpos.PublicKey, to dpos.Address, amount, fee int64) *tx.Transaction {
	return tx.NewBuilder(&tx.Transfer{}).
		Sender(from).
		Recipient(to).
		Amount(big.NewInt(amount)).
		Fee(big.NewInt(fee)).
		Timestamp(next()).
		MustBuild()
}

func build(p tx.Payload, from dpos.PublicKey, fee int64) *tx.Transaction {
	return tx.NewBuilder(p).Sender(from).Fee(big.NewInt(fee)).Timestamp(next()).MustBuild()
}

func addressOf(pub dpos.PublicKey) dpos.Address {
	return dpos.Devnet.DeriveAddress(pub)
}

// fund moves amount from the first dev account to pub and returns pub's wallet.
func (l *ledger) fund(t *testing.T, pub dpos.PublicKey, amount int64) *wallet.Wallet {
	_, err := l.p.ApplyTransaction(transfer(genesis.DevAccounts()[0].PublicKey, addressOf(pub), amount, 0))
	require.NoError(t, err)
	w, err := l.store.FindByPublicKey(pub)
	require.NoError(t, err)
	return w
}

func (l *ledger) snapshot() map[dpos.Address]*wallet.Wallet {
	snap := make(map[dpos.Address]*wallet.Wallet)
	for _, w := range l.store.All() {
		snap[w.Address] = w.Copy()
	}
	return snap
}

func (l *ledger) assertRestored(t *testing.T, snap map[dpos.Address]*wallet.Wallet) {
	for addr, want := range snap {
		got, ok := l.store.Get(addr)
		require.True(t, ok, addr)
		assert.True(t, want.Equal(got), "%v != %v", got, want)
		if want.Username != "" {
			byName, ok := l.store.FindByUsername(want.Username)
			require.True(t, ok)
			assert.Same(t, got, byName)
		}
	}
}

func (l *ledger) block(generator dpos.PublicKey, txs ...*tx.Transaction) *block.Block {
	b := new(block.Builder).
		Height(2).
		PreviousBlock(l.gen.ID()).
		Timestamp(next()).
		Generator(generator).
		Reward(big.NewInt(200_000_000))
	for _, trx := range txs {
		b.Transaction(trx)
	}
	return b.Build()
}

func TestApplyGenesis(t *testing.T) {
	gen := genesis.NewDevnet()
	store := state.New(gen.Network())
	events := &processor.EventLog{}
	p := processor.New(gen.Network(), store, events)

	require.NoError(t, p.ApplyBlock(gen.Block()))

	accs := genesis.DevAccounts()
	assert.Equal(t, len(accs)+1, store.Len())
	assert.Len(t, events.Events(), len(accs))

	registry := gen.Registry()
	for i, a := range accs {
		byAddr, ok := store.Get(a.Address)
		require.True(t, ok)
		byPub, ok := store.GetByPublicKey(a.PublicKey)
		require.True(t, ok)
		byName, ok := store.FindByUsername(a.Username)
		require.True(t, ok)

		assert.Same(t, byAddr, byPub)
		assert.Same(t, byAddr, byName)
		assert.Equal(t, devBalance, byAddr.Balance)
		assert.Equal(t, a.PublicKey, *byAddr.Vote)
		assert.True(t, registry.IsGenesis(byAddr))

		ev := events.Events()[i]
		assert.Equal(t, processor.EventColdWallet, ev.Kind)
		assert.Equal(t, a.Address, ev.Address)
	}

	sender, ok := store.GetByPublicKey(dpos.PublicKeyOf(genesis.DevSender()))
	require.True(t, ok)
	assert.Equal(t, uint64(1), sender.ProducedBlocks)
	assert.Equal(t, new(big.Int).Neg(new(big.Int).Mul(devBalance, big.NewInt(10))), sender.Balance)
}

func TestGenesisForgerSynthesis(t *testing.T) {
	store := state.New(dpos.Devnet)
	p := processor.New(dpos.Devnet, store, nil)
	forger := freshKey(1)

	blk := new(block.Builder).Height(1).Generator(forger).Reward(big.NewInt(500)).Build()
	require.NoError(t, p.ApplyBlock(blk))

	assert.Equal(t, 1, store.Len())
	w, ok := store.Get(addressOf(forger))
	require.True(t, ok)
	assert.Equal(t, int64(500), w.Balance.Int64())
	assert.Equal(t, forger, *w.PublicKey)
	assert.Equal(t, uint64(1), w.ProducedBlocks)

	require.NoError(t, p.UndoBlock(blk))
	assert.Zero(t, w.Balance.Sign())
}

func TestUnknownDelegate(t *testing.T) {
	l := newLedger(t)
	before := l.store.Len()

	err := l.p.ApplyBlock(l.block(freshKey(1)))
	assert.True(t, processor.IsUnknownDelegate(err))
	assert.Equal(t, before, l.store.Len())

	// a cold wallet is not a known forger either
	cold := freshKey(2)
	_, err = l.p.ApplyTransaction(transfer(genesis.DevAccounts()[0].PublicKey, addressOf(cold), 1, 0))
	require.NoError(t, err)
	require.True(t, l.store.Exists(addressOf(cold)))
	err = l.p.ApplyBlock(l.block(cold))
	assert.ErrorIs(t, err, processor.ErrUnknownDelegate)

	// undo synthesizes unconditionally
	assert.NoError(t, l.p.UndoBlock(l.block(freshKey(3))))
	synthesized, ok := l.store.GetByPublicKey(freshKey(3))
	require.True(t, ok)
	assert.Equal(t, uint64(0), synthesized.ProducedBlocks)
	assert.Equal(t, int64(-200_000_000), synthesized.Balance.Int64())
}

func TestApplyBlockRollback(t *testing.T) {
	l := newLedger(t)
	accs := genesis.DevAccounts()
	snap := l.snapshot()

	t1 := transfer(accs[1].PublicKey, accs[2].Address, 1000, 10)
	t2 := transfer(accs[3].PublicKey, accs[2].Address, devBalance.Int64(), 10)

	err := l.p.ApplyBlock(l.block(accs[0].PublicKey, t1, t2))
	require.Error(t, err)
	assert.True(t, processor.IsTransactionNotApplicable(err))

	l.assertRestored(t, snap)
}

func TestApplyBlockRollbackMixedTypes(t *testing.T) {
	l := newLedger(t)
	accs := genesis.DevAccounts()
	snap := l.snapshot()

	txs := []*tx.Transaction{
		transfer(accs[1].PublicKey, accs[2].Address, 1000, 10),
		transfer(accs[2].PublicKey, accs[3].Address, 500, 10),
		build(&tx.SecondSignature{PublicKey: freshKey(9)}, accs[1].PublicKey, 5),
		build(&tx.Vote{Votes: []tx.VoteOp{{Unvote: true, Delegate: accs[4].PublicKey}, {Delegate: accs[5].PublicKey}}}, accs[4].PublicKey, 1),
		build(&tx.DelegateRegistration{Username: accs[7].Username}, accs[6].PublicKey, 25),
	}

	err := l.p.ApplyBlock(l.block(accs[0].PublicKey, txs...))
	assert.True(t, processor.IsDuplicateDelegateName(err))

	l.assertRestored(t, snap)
}

func TestApplyBlockRollbackKeepsApplicationOrder(t *testing.T) {
	l := newLedger(t)
	accs := genesis.DevAccounts()
	voter, _ := l.store.GetByPublicKey(accs[1].PublicKey)
	require.Equal(t, accs[1].PublicKey, *voter.Vote)
	nonce := voter.Nonce

	txs := []*tx.Transaction{
		build(&tx.Vote{Votes: []tx.VoteOp{{Unvote: true, Delegate: accs[1].PublicKey}}}, accs[1].PublicKey, 1),
		build(&tx.Vote{Votes: []tx.VoteOp{{Delegate: accs[0].PublicKey}}}, accs[1].PublicKey, 1),
		transfer(accs[2].PublicKey, accs[3].Address, devBalance.Int64(), 10),
	}
	err := l.p.ApplyBlock(l.block(accs[0].PublicKey, txs...))
	require.True(t, processor.IsTransactionNotApplicable(err))

	// undoing the unvote first restores the self vote, undoing the vote then clears it
	assert.Nil(t, voter.Vote)
	assert.Equal(t, nonce, voter.Nonce)
	assert.Equal(t, devBalance, voter.Balance)
}

func TestUndoBlockAfterPurge(t *testing.T) {
	l := newLedger(t)
	accs := genesis.DevAccounts()
	pub := freshKey(1)
	l.fund(t, pub, 100)

	blk := l.block(accs[0].PublicKey, transfer(pub, accs[1].Address, 90, 10))
	require.NoError(t, l.p.ApplyBlock(blk))
	require.Equal(t, 1, l.store.PurgeEmptyNonDistinguished())
	require.False(t, l.store.ExistsByPublicKey(pub))

	require.NoError(t, l.p.UndoBlock(blk))
	w, ok := l.store.GetByPublicKey(pub)
	require.True(t, ok)
	assert.Equal(t, int64(100), w.Balance.Int64())
	assert.Equal(t, uint64(0), w.Nonce)
}

func TestApplyUndoBlock(t *testing.T) {
	l := newLedger(t)
	accs := genesis.DevAccounts()
	snap := l.snapshot()
	cold := addressOf(freshKey(1))

	blk := l.block(accs[0].PublicKey,
		transfer(accs[1].PublicKey, accs[2].Address, 1000, 10),
		transfer(accs[2].PublicKey, cold, 500, 20),
		build(&tx.MultiSignature{Min: 1, Lifetime: 24, Keys: []dpos.PublicKey{freshKey(2)}}, accs[3].PublicKey, 30),
	)
	require.NoError(t, l.p.ApplyBlock(blk))

	forger, _ := l.store.Get(accs[0].Address)
	want := new(big.Int).Add(devBalance, big.NewInt(200_000_000+60))
	assert.Equal(t, want, forger.Balance)
	assert.Equal(t, uint64(1), forger.ProducedBlocks)

	w, ok := l.store.Get(cold)
	require.True(t, ok)
	assert.Equal(t, int64(500), w.Balance.Int64())
	require.Len(t, l.events.Events(), 1)
	assert.Equal(t, cold, l.events.Events()[0].Address)

	require.NoError(t, l.p.UndoBlock(blk))
	l.assertRestored(t, snap)
	assert.Zero(t, w.Balance.Sign())
}

func TestDelegateUniqueness(t *testing.T) {
	l := newLedger(t)
	pub := freshKey(1)
	l.fund(t, pub, 10_000)

	_, err := l.p.ApplyTransaction(build(&tx.DelegateRegistration{Username: "GENESIS_1"}, pub, 25))
	assert.True(t, processor.IsDuplicateDelegateName(err))

	_, err = l.p.ApplyTransaction(build(&tx.DelegateRegistration{Username: "fresh"}, pub, 25))
	require.NoError(t, err)

	other := freshKey(2)
	l.fund(t, other, 10_000)
	_, err = l.p.ApplyTransaction(build(&tx.DelegateRegistration{Username: "fresh"}, other, 25))
	assert.ErrorIs(t, err, processor.ErrDuplicateDelegateName)

	names := make(map[string]dpos.Address)
	for _, w := range l.store.All() {
		if w.Username == "" {
			continue
		}
		name := tx.NormalizeUsername(w.Username)
		_, dup := names[name]
		assert.False(t, dup, name)
		names[name] = w.Address
	}
}

func TestUndoDelegateRegistration(t *testing.T) {
	l := newLedger(t)
	pub := freshKey(1)
	l.fund(t, pub, 10_000)

	reg := build(&tx.DelegateRegistration{Username: "fresh"}, pub, 25)
	_, err := l.p.ApplyTransaction(reg)
	require.NoError(t, err)
	_, ok := l.store.FindByUsername("fresh")
	require.True(t, ok)

	require.NoError(t, l.p.UndoTransaction(reg))
	_, ok = l.store.FindByUsername("fresh")
	assert.False(t, ok)

	other := freshKey(2)
	l.fund(t, other, 10_000)
	_, err = l.p.ApplyTransaction(build(&tx.DelegateRegistration{Username: "fresh"}, other, 25))
	assert.NoError(t, err)
}

func TestUndoForcedDuplicateRegistration(t *testing.T) {
	l := newLedger(t)
	holder := genesis.DevAccounts()[0]
	pub := freshKey(1)
	l.fund(t, pub, 100)

	dup := build(&tx.DelegateRegistration{Username: holder.Username}, pub, 25)
	p := processor.New(l.gen.Network().WithExceptions(dup.ID()), l.store, nil)
	_, err := p.ApplyTransaction(dup)
	require.NoError(t, err)
	forced, _ := l.store.GetByPublicKey(pub)
	byName, _ := l.store.FindByUsername(holder.Username)
	require.Same(t, forced, byName)

	require.NoError(t, p.UndoTransaction(dup))
	assert.Empty(t, forced.Username)
	original, _ := l.store.GetByPublicKey(holder.PublicKey)
	byName, ok := l.store.FindByUsername(holder.Username)
	require.True(t, ok)
	assert.Same(t, original, byName)
}

func TestInvalidVoteTarget(t *testing.T) {
	l := newLedger(t)
	pub := freshKey(1)
	l.fund(t, pub, 10_000)

	notDelegate := freshKey(2)
	l.fund(t, notDelegate, 1)

	_, err := l.p.ApplyTransaction(build(&tx.Vote{Votes: []tx.VoteOp{{Delegate: notDelegate}}}, pub, 1))
	assert.True(t, processor.IsInvalidVoteTarget(err))

	unknown := freshKey(3)
	_, err = l.p.ApplyTransaction(build(&tx.Vote{Votes: []tx.VoteOp{{Delegate: unknown}}}, pub, 1))
	assert.True(t, processor.IsInvalidVoteTarget(err))
	assert.False(t, l.store.ExistsByPublicKey(unknown))

	_, err = l.p.ApplyTransaction(build(&tx.Vote{Votes: []tx.VoteOp{{Delegate: genesis.DevAccounts()[0].PublicKey}}}, pub, 1))
	require.NoError(t, err)
	w, _ := l.store.GetByPublicKey(pub)
	assert.Equal(t, genesis.DevAccounts()[0].PublicKey, *w.Vote)
}

func TestBalanceNonNegative(t *testing.T) {
	l := newLedger(t)
	pub := freshKey(1)
	w := l.fund(t, pub, 100)
	before := w.Copy()

	_, err := l.p.ApplyTransaction(transfer(pub, genesis.DevAccounts()[1].Address, 95, 10))
	assert.True(t, processor.IsTransactionNotApplicable(err))
	assert.True(t, before.Equal(w))

	_, err = l.p.ApplyTransaction(transfer(pub, genesis.DevAccounts()[1].Address, 90, 10))
	require.NoError(t, err)
	assert.Zero(t, w.Balance.Sign())

	for _, w := range l.store.All() {
		if l.gen.Registry().IsGenesis(w) && w.Username == "" {
			// the genesis sender funded the initial supply
			continue
		}
		assert.GreaterOrEqual(t, w.Balance.Sign(), 0, w.Address)
	}
}

func TestExceptionBypassesValidation(t *testing.T) {
	var buf bytes.Buffer
	log.SetDefault(log.NewLogger(log.JSONHandlerWithLevel(&buf, log.LevelWarn)))
	t.Cleanup(func() { log.SetDefault(log.NewLogger(log.DiscardHandler())) })

	l := newLedger(t)
	pub := freshKey(1)
	l.fund(t, pub, 100)
	overdraft := transfer(pub, genesis.DevAccounts()[1].Address, 95, 10)

	network := l.gen.Network().WithExceptions(overdraft.ID())
	p := processor.New(network, l.store, nil)

	_, err := p.ApplyTransaction(overdraft)
	require.NoError(t, err)
	w, _ := l.store.GetByPublicKey(pub)
	assert.Equal(t, int64(-5), w.Balance.Int64())
	assert.Contains(t, buf.String(), "forcing exception transaction")
	assert.Contains(t, buf.String(), overdraft.ID().String())

	require.NoError(t, p.UndoTransaction(overdraft))
	assert.Equal(t, int64(100), w.Balance.Int64())
}

func TestTransactionRoundTrip(t *testing.T) {
	l := newLedger(t)
	accs := genesis.DevAccounts()
	pub := freshKey(1)
	l.fund(t, pub, 10_000)

	txs := []*tx.Transaction{
		transfer(pub, accs[2].Address, 1000, 10),
		transfer(pub, addressOf(freshKey(2)), 1000, 10),
		build(&tx.SecondSignature{PublicKey: freshKey(3)}, pub, 5),
		build(&tx.DelegateRegistration{Username: "round_trip"}, pub, 25),
		build(&tx.Vote{Votes: []tx.VoteOp{{Delegate: accs[0].PublicKey}}}, pub, 1),
		build(&tx.MultiSignature{Min: 1, Keys: []dpos.PublicKey{freshKey(4)}}, pub, 5),
	}
	for _, trx := range txs {
		sender, _ := l.store.GetByPublicKey(pub)
		senderBefore := sender.Copy()
		var recipientBefore *wallet.Wallet
		if to := trx.Recipient(); to != nil {
			if r, ok := l.store.Get(*to); ok {
				recipientBefore = r.Copy()
			}
		}

		_, err := l.p.ApplyTransaction(trx)
		require.NoError(t, err, trx.Type())
		require.NoError(t, l.p.UndoTransaction(trx))

		assert.True(t, senderBefore.Equal(sender), trx.Type())
		if recipientBefore != nil {
			r, _ := l.store.Get(*trx.Recipient())
			assert.True(t, recipientBefore.Equal(r))
		}
		_, ok := l.store.FindByUsername("round_trip")
		assert.False(t, ok)
	}
}

func TestPurgeAfterBlocks(t *testing.T) {
	l := newLedger(t)
	accs := genesis.DevAccounts()
	spender := freshKey(1)
	l.fund(t, spender, 110)
	_, err := l.p.ApplyTransaction(transfer(spender, accs[1].Address, 100, 10))
	require.NoError(t, err)

	assert.Equal(t, 1, l.store.PurgeEmptyNonDistinguished())
	assert.False(t, l.store.Exists(addressOf(spender)))
	assert.False(t, l.store.ExistsByPublicKey(spender))
	for _, a := range accs {
		assert.True(t, l.store.Exists(a.Address))
	}
}

func TestFeedSink(t *testing.T) {
	sink := &processor.FeedSink{}
	ch := make(chan *processor.Event, 1)
	sub := sink.Subscribe(ch)
	defer sub.Unsubscribe()

	log1, log2 := &processor.EventLog{}, &processor.EventLog{}
	gen := genesis.NewDevnet()
	p := processor.New(gen.Network(), state.New(gen.Network()), processor.Sinks{sink, log1, log2})
	require.NoError(t, p.ApplyBlock(gen.Block()))

	select {
	case ev := <-ch:
		assert.Equal(t, processor.EventColdWallet, ev.Kind)
		assert.Equal(t, "cold-wallet", ev.Kind.String())
	case <-time.After(5 * time.Second):
		t.Fatal("no event delivered")
	}
	sink.Close()

	assert.Len(t, log1.Events(), len(genesis.DevAccounts()))
	assert.Equal(t, log1.Events(), log2.Events())
}

func TestReplayDevChain(t *testing.T) {
	l := newLedger(t)
	chain := genesis.DevChain(l.gen, 25, 4)
	snap := l.snapshot()

	for _, blk := range chain {
		require.NoError(t, l.p.ApplyBlock(blk), blk.Height())
	}
	var produced uint64
	for _, a := range genesis.DevAccounts() {
		w, _ := l.store.Get(a.Address)
		produced += w.ProducedBlocks
	}
	assert.Equal(t, uint64(len(chain)), produced)

	for i := len(chain) - 1; i >= 0; i-- {
		require.NoError(t, l.p.UndoBlock(chain[i]))
	}
	l.assertRestored(t, snap)
	assert.Empty(t, l.events.Events())
}
