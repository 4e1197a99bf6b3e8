// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import "github.com/dposchain/ledger/metrics"

var (
	metricWalletCount  = metrics.LazyLoadGauge("state_wallet_count")
	metricIndexCounter = metrics.LazyLoadCounterVec("state_index_count", []string{"index", "op"})
	metricPurgedCount  = metrics.LazyLoadCounter("state_purged_wallet_count")
)
