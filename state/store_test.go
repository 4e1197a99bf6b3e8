// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"sync"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/dposchain/ledger/dpos"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(b byte) dpos.PublicKey {
	var seed [32]byte
	seed[31] = b
	return dpos.PublicKeyOf(secp256k1.PrivKeyFromBytes(seed[:]))
}

func TestFindByAddress(t *testing.T) {
	s := New(dpos.Devnet)
	addr := dpos.Devnet.DeriveAddress(key(1))

	w, err := s.FindByAddress(addr)
	require.NoError(t, err)
	assert.Equal(t, addr, w.Address)
	assert.True(t, w.IsEmpty())
	assert.Nil(t, w.PublicKey)

	again, err := s.FindByAddress(addr)
	require.NoError(t, err)
	assert.Same(t, w, again)
	assert.Equal(t, 1, s.Len())
}

func TestFindByAddressInvalid(t *testing.T) {
	s := New(dpos.Devnet)

	_, err := s.FindByAddress("unknown123")
	assert.ErrorIs(t, err, ErrInvalidAddress)
	assert.True(t, IsInvalidAddress(err))
	assert.False(t, s.Exists("unknown123"))

	// valid on another network only
	_, err = s.FindByAddress(dpos.Mainnet.DeriveAddress(key(1)))
	assert.True(t, IsInvalidAddress(err))
	assert.Zero(t, s.Len())
}

func TestFindByPublicKey(t *testing.T) {
	s := New(dpos.Devnet)
	pub := key(1)

	w, err := s.FindByPublicKey(pub)
	require.NoError(t, err)
	require.NotNil(t, w.PublicKey)
	assert.Equal(t, pub, *w.PublicKey)
	assert.Equal(t, dpos.Devnet.DeriveAddress(pub), w.Address)

	again, err := s.FindByPublicKey(pub)
	require.NoError(t, err)
	assert.Same(t, w, again)

	byAddr, err := s.FindByAddress(w.Address)
	require.NoError(t, err)
	assert.Same(t, w, byAddr)
	assert.True(t, s.ExistsByPublicKey(pub))

	_, hit, miss := s.addresses.Stats().Stats()
	assert.Equal(t, int64(1), hit)
	assert.Equal(t, int64(1), miss)
}

func TestPublicKeyOnColdWallet(t *testing.T) {
	s := New(dpos.Devnet)
	pub := key(1)

	cold, err := s.FindByAddress(dpos.Devnet.DeriveAddress(pub))
	require.NoError(t, err)
	assert.False(t, s.ExistsByPublicKey(pub))

	w, err := s.FindByPublicKey(pub)
	require.NoError(t, err)
	assert.Same(t, cold, w)
	assert.True(t, s.ExistsByPublicKey(pub))
}

func TestIndexConsistency(t *testing.T) {
	s := New(dpos.Devnet)
	w, err := s.FindByPublicKey(key(1))
	require.NoError(t, err)

	w.Username = "Genesis_1"
	w.Balance.SetInt64(77)
	s.Reindex(w)

	byName, ok := s.FindByUsername("genesis_1")
	require.True(t, ok)
	byUpper, ok := s.FindByUsername("GENESIS_1")
	require.True(t, ok)
	byAddr, _ := s.Get(w.Address)
	byPub, _ := s.GetByPublicKey(key(1))

	for _, found := range []any{byName, byUpper, byAddr, byPub} {
		assert.Same(t, w, found)
	}
	assert.Equal(t, int64(77), byName.Balance.Int64())

	s.Forget("GENESIS_1")
	_, ok = s.FindByUsername("genesis_1")
	assert.False(t, ok)
	assert.True(t, s.Exists(w.Address))
}

func TestForgetFallsBackToOtherHolder(t *testing.T) {
	s := New(dpos.Devnet)
	original, err := s.FindByPublicKey(key(1))
	require.NoError(t, err)
	original.Username = "genesis_1"
	s.Reindex(original)

	forced, err := s.FindByPublicKey(key(2))
	require.NoError(t, err)
	forced.Username = "genesis_1"
	s.Reindex(forced)

	byName, _ := s.FindByUsername("genesis_1")
	require.Same(t, forced, byName)

	forced.Username = ""
	s.Forget("genesis_1")
	byName, ok := s.FindByUsername("genesis_1")
	require.True(t, ok)
	assert.Same(t, original, byName)
}

func TestFindByUsernameNeverCreates(t *testing.T) {
	s := New(dpos.Devnet)
	_, ok := s.FindByUsername("nobody")
	assert.False(t, ok)
	assert.Zero(t, s.Len())
}

func TestReindexReplacesInstance(t *testing.T) {
	s := New(dpos.Devnet)
	w, err := s.FindByPublicKey(key(1))
	require.NoError(t, err)

	replacement := w.Copy()
	replacement.Balance.SetInt64(5)
	s.Reindex(replacement)

	got, _ := s.GetByPublicKey(key(1))
	assert.Same(t, replacement, got)
	got, _ = s.Get(w.Address)
	assert.Same(t, replacement, got)
	assert.Equal(t, 1, s.Len())
}

func TestAllAndReset(t *testing.T) {
	s := New(dpos.Devnet)
	for i := byte(1); i <= 5; i++ {
		_, err := s.FindByPublicKey(key(i))
		require.NoError(t, err)
	}
	all := s.All()
	assert.Len(t, all, 5)
	for i := 1; i < len(all); i++ {
		assert.Less(t, string(all[i-1].Address), string(all[i].Address))
	}

	s.Reset()
	assert.Empty(t, s.All())
	assert.False(t, s.ExistsByPublicKey(key(1)))
}

func TestPurgeEmptyNonDistinguished(t *testing.T) {
	s := New(dpos.Devnet)

	empty, _ := s.FindByPublicKey(key(1))

	delegate, _ := s.FindByPublicKey(key(2))
	delegate.Username = "d2"
	s.Reindex(delegate)

	secured, _ := s.FindByPublicKey(key(3))
	sk := key(30)
	secured.SecondPublicKey = &sk

	rich, _ := s.FindByPublicKey(key(4))
	rich.Balance.SetInt64(1)

	// no public key, not a purge candidate
	cold, _ := s.FindByAddress(dpos.Devnet.DeriveAddress(key(5)))

	assert.Equal(t, 1, s.PurgeEmptyNonDistinguished())

	assert.False(t, s.Exists(empty.Address))
	assert.False(t, s.ExistsByPublicKey(key(1)))
	for _, w := range []*walletTuple{{delegate.Address, key(2)}, {secured.Address, key(3)}, {rich.Address, key(4)}} {
		assert.True(t, s.Exists(w.addr))
		assert.True(t, s.ExistsByPublicKey(w.pub))
	}
	assert.True(t, s.Exists(cold.Address))
	_, ok := s.FindByUsername("d2")
	assert.True(t, ok)

	// freed slot is recycled
	size := len(s.arena)
	recreated, err := s.FindByPublicKey(key(1))
	require.NoError(t, err)
	assert.Equal(t, size, len(s.arena))
	assert.NotSame(t, empty, recreated)
	assert.Empty(t, s.free)
}

type walletTuple struct {
	addr dpos.Address
	pub  dpos.PublicKey
}

func TestConcurrentReaders(t *testing.T) {
	s := New(dpos.Devnet)
	w, err := s.FindByPublicKey(key(1))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				s.Get(w.Address)
				s.FindByUsername("x")
				s.All()
			}
		}()
	}
	for i := byte(2); i < 50; i++ {
		_, err := s.FindByPublicKey(key(i))
		require.NoError(t, err)
	}
	wg.Wait()
	assert.Equal(t, 49, s.Len())
}
