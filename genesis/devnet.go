// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"fmt"
	"math/big"
	"sync/atomic"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/dposchain/ledger/dpos"
)

// DevAccount account for development.
type DevAccount struct {
	Address    dpos.Address
	PublicKey  dpos.PublicKey
	PrivateKey *secp256k1.PrivateKey
	Username   string
}

const devAccountCount = 10

var (
	devAccounts atomic.Value
	// 1,000,000 coins of 1e8 units each
	devAllocation = new(big.Int).Mul(big.NewInt(1_000_000), big.NewInt(1e8))
)

func devKey(seed string) *secp256k1.PrivateKey {
	return secp256k1.PrivKeyFromBytes(dpos.Blake2b([]byte(seed)).Bytes())
}

// DevAccounts returns the pre-funded delegate accounts of the devnet.
func DevAccounts() []DevAccount {
	if accs := devAccounts.Load(); accs != nil {
		return accs.([]DevAccount)
	}

	accs := make([]DevAccount, 0, devAccountCount)
	for i := 1; i <= devAccountCount; i++ {
		priv := devKey(fmt.Sprintf("devnet account %d", i))
		pub := dpos.PublicKeyOf(priv)
		accs = append(accs, DevAccount{
			Address:    dpos.Devnet.DeriveAddress(pub),
			PublicKey:  pub,
			PrivateKey: priv,
			Username:   fmt.Sprintf("genesis_%d", i),
		})
	}
	devAccounts.Store(accs)
	return accs
}

// DevSender returns the key funding the devnet allocations.
func DevSender() *secp256k1.PrivateKey {
	return devKey("devnet genesis")
}

// NewDevnet create genesis for local development.
func NewDevnet() *Genesis {
	launchTime := uint64(1490101200) // 'Tue Mar 21 2017 13:00:00 GMT+0000'

	builder := new(Builder).
		Timestamp(launchTime).
		Sender(dpos.PublicKeyOf(DevSender()))
	for _, a := range DevAccounts() {
		builder.Alloc(a.Address, devAllocation)
	}
	for _, a := range DevAccounts() {
		builder.Delegate(a.PublicKey, a.Username)
	}

	gen, err := builder.Build("devnet", dpos.Devnet)
	if err != nil {
		panic(err)
	}
	return gen
}
