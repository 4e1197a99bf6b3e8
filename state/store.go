// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"slices"
	"strings"
	"sync"

	"github.com/dposchain/ledger/cache"
	"github.com/dposchain/ledger/dpos"
	"github.com/dposchain/ledger/log"
	"github.com/dposchain/ledger/tx"
	"github.com/dposchain/ledger/wallet"
	"github.com/pkg/errors"
)

var logger = log.WithContext("pkg", "state")

const addressCacheSize = 4096

type walletID uint32

// Store owns every wallet of the ledger and keeps the address, public key and
// username indices consistent.
// Index access is safe for concurrent readers; mutations must come from a single writer.
type Store struct {
	network *dpos.Network

	mu          sync.RWMutex
	arena       []*wallet.Wallet
	free        []walletID
	byAddress   map[dpos.Address]walletID
	byPublicKey map[dpos.PublicKey]walletID
	byUsername  map[string]walletID

	addresses *cache.LRU[dpos.PublicKey, dpos.Address]
}

// New creates an empty store bound to network.
func New(network *dpos.Network) *Store {
	addresses, err := cache.NewLRU[dpos.PublicKey, dpos.Address](addressCacheSize)
	if err != nil {
		panic(err)
	}
	s := &Store{
		network:   network,
		addresses: addresses,
	}
	s.clear()
	return s
}

// Network returns the network the store is bound to.
func (s *Store) Network() *dpos.Network {
	return s.network
}

func (s *Store) clear() {
	s.arena = nil
	s.free = nil
	s.byAddress = make(map[dpos.Address]walletID)
	s.byPublicKey = make(map[dpos.PublicKey]walletID)
	s.byUsername = make(map[string]walletID)
}

func (s *Store) alloc(w *wallet.Wallet) walletID {
	if n := len(s.free); n > 0 {
		id := s.free[n-1]
		s.free = s.free[:n-1]
		s.arena[id] = w
		return id
	}
	s.arena = append(s.arena, w)
	return walletID(len(s.arena) - 1)
}

func (s *Store) release(id walletID) {
	s.arena[id] = nil
	s.free = append(s.free, id)
}

// reindex must be called with the write lock held.
func (s *Store) reindex(w *wallet.Wallet) {
	id, ok := s.byAddress[w.Address]
	if !ok {
		id = s.alloc(w)
		s.byAddress[w.Address] = id
		metricWalletCount().Add(1)
		metricIndexCounter().AddWithLabel(1, map[string]string{"index": "address", "op": "insert"})
	} else if s.arena[id] != w {
		s.arena[id] = w
	}

	if w.PublicKey != nil {
		if _, ok := s.byPublicKey[*w.PublicKey]; !ok {
			metricIndexCounter().AddWithLabel(1, map[string]string{"index": "public_key", "op": "insert"})
		}
		s.byPublicKey[*w.PublicKey] = id
	}
	if w.Username != "" {
		name := tx.NormalizeUsername(w.Username)
		if _, ok := s.byUsername[name]; !ok {
			metricIndexCounter().AddWithLabel(1, map[string]string{"index": "username", "op": "insert"})
		}
		s.byUsername[name] = id
	}
}

// Reindex registers w under its address, and under its public key and username when set.
// It must be called after any mutation of those fields.
func (s *Store) Reindex(w *wallet.Wallet) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reindex(w)
}

func (s *Store) findByAddress(addr dpos.Address) (*wallet.Wallet, error) {
	if !s.network.ValidateAddress(addr) {
		return nil, errors.Wrapf(ErrInvalidAddress, "%q on %v", string(addr), s.network.Name())
	}
	if id, ok := s.byAddress[addr]; ok {
		return s.arena[id], nil
	}
	w := wallet.New(addr)
	s.reindex(w)
	return w, nil
}

// FindByAddress returns the wallet of addr, creating an empty one if absent.
func (s *Store) FindByAddress(addr dpos.Address) (*wallet.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.findByAddress(addr)
}

// FindByPublicKey returns the wallet owning pub, creating it if absent.
// The public key is recorded on the wallet.
func (s *Store) FindByPublicKey(pub dpos.PublicKey) (*wallet.Wallet, error) {
	addr, err := s.addresses.GetOrLoad(pub, func(pub dpos.PublicKey) (dpos.Address, error) {
		return s.network.DeriveAddress(pub), nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "derive address")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.findByAddress(addr)
	if err != nil {
		return nil, err
	}
	if w.PublicKey == nil {
		key := pub
		w.PublicKey = &key
	}
	s.reindex(w)
	return w, nil
}

// FindByUsername looks up a delegate by username, case-insensitively. It never creates.
func (s *Store) FindByUsername(name string) (*wallet.Wallet, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id, ok := s.byUsername[tx.NormalizeUsername(name)]; ok {
		return s.arena[id], true
	}
	return nil, false
}

// Get returns the wallet of addr without creating it.
func (s *Store) Get(addr dpos.Address) (*wallet.Wallet, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id, ok := s.byAddress[addr]; ok {
		return s.arena[id], true
	}
	return nil, false
}

// GetByPublicKey returns the wallet registered under pub without creating it.
func (s *Store) GetByPublicKey(pub dpos.PublicKey) (*wallet.Wallet, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id, ok := s.byPublicKey[pub]; ok {
		return s.arena[id], true
	}
	return nil, false
}

// Exists returns whether a wallet is indexed under addr.
func (s *Store) Exists(addr dpos.Address) bool {
	_, ok := s.Get(addr)
	return ok
}

// ExistsByPublicKey returns whether a wallet is indexed under pub.
func (s *Store) ExistsByPublicKey(pub dpos.PublicKey) bool {
	_, ok := s.GetByPublicKey(pub)
	return ok
}

// Forget drops the username index entry of name.
// If a wallet other than the forgotten holder still carries name, the entry
// is pointed at that wallet instead.
func (s *Store) Forget(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = tx.NormalizeUsername(name)
	holder, ok := s.byUsername[name]
	if !ok {
		return
	}
	delete(s.byUsername, name)
	metricIndexCounter().AddWithLabel(1, map[string]string{"index": "username", "op": "delete"})

	for id, w := range s.arena {
		if walletID(id) == holder || w == nil || w.Username == "" {
			continue
		}
		if tx.NormalizeUsername(w.Username) == name {
			s.byUsername[name] = walletID(id)
			metricIndexCounter().AddWithLabel(1, map[string]string{"index": "username", "op": "insert"})
			return
		}
	}
}

// All returns every address indexed wallet ordered by address.
func (s *Store) All() []*wallet.Wallet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*wallet.Wallet, 0, len(s.byAddress))
	for _, id := range s.byAddress {
		all = append(all, s.arena[id])
	}
	slices.SortFunc(all, func(a, b *wallet.Wallet) int {
		return strings.Compare(string(a.Address), string(b.Address))
	})
	return all
}

// Len returns the number of address indexed wallets.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.byAddress)
}

// Reset drops every wallet.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	metricWalletCount().Set(0)
	logger.Debug("reset wallets", "count", len(s.byAddress))
	s.clear()
}

// PurgeEmptyNonDistinguished removes wallets with a public key, zero balance,
// no username and no extra credentials from the address and public key indices.
// It returns the number of wallets removed.
func (s *Store) PurgeEmptyNonDistinguished() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	for pub, id := range s.byPublicKey {
		w := s.arena[id]
		if !w.IsEmpty() {
			continue
		}
		delete(s.byPublicKey, pub)
		delete(s.byAddress, w.Address)
		s.release(id)
		purged++
	}

	if purged > 0 {
		metricWalletCount().Add(-int64(purged))
		metricPurgedCount().Add(int64(purged))
	}
	if changed, hit, miss := s.addresses.Stats().Stats(); changed {
		logger.Debug("address cache", "hit", hit, "miss", miss)
	}
	logger.Debug("purged empty wallets", "count", purged, "remaining", len(s.byAddress))
	return purged
}
