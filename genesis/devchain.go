// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math/big"

	"github.com/dposchain/ledger/block"
	"github.com/dposchain/ledger/tx"
)

const (
	devBlockInterval = 8
	devTransferFee   = 10_000_000
)

var devBlockReward = big.NewInt(200_000_000)

// DevChain generates count blocks on top of the devnet genesis gen.
// Delegates forge in turn and each block carries txsPerBlock transfers between dev accounts.
// A non-positive count yields no blocks.
func DevChain(gen *Genesis, count, txsPerBlock int) []*block.Block {
	accs := DevAccounts()
	blocks := make([]*block.Block, 0, max(count, 0))

	parent := gen.Block()
	for i := range count {
		height := parent.Height() + 1
		ts := parent.Timestamp() + devBlockInterval

		builder := new(block.Builder).
			Height(height).
			Timestamp(ts).
			PreviousBlock(parent.ID()).
			Generator(accs[i%len(accs)].PublicKey).
			Reward(devBlockReward)

		for j := range txsPerBlock {
			from := accs[(i+j)%len(accs)]
			to := accs[(i+j+1)%len(accs)]
			builder.Transaction(tx.NewBuilder(&tx.Transfer{}).
				Sender(from.PublicKey).
				Recipient(to.Address).
				Amount(big.NewInt(int64(1_000 * (j + 1)))).
				Fee(big.NewInt(devTransferFee)).
				Timestamp(ts).
				MustBuild())
		}

		parent = builder.Build()
		blocks = append(blocks, parent)
	}
	return blocks
}
