// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"math/big"
)

// Transactions a slice of transactions.
type Transactions []*Transaction

// Copy returns a shallow copy.
func (txs Transactions) Copy() Transactions {
	return append(Transactions(nil), txs...)
}

// TotalFee sums fees of all transactions.
func (txs Transactions) TotalFee() *big.Int {
	sum := new(big.Int)
	for _, t := range txs {
		sum.Add(sum, t.body.Fee)
	}
	return sum
}

// TotalAmount sums amounts of all transactions.
func (txs Transactions) TotalAmount() *big.Int {
	sum := new(big.Int)
	for _, t := range txs {
		sum.Add(sum, t.body.Amount)
	}
	return sum
}
