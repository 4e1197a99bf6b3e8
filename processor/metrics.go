// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package processor

import "github.com/dposchain/ledger/metrics"

var (
	metricTxCounter      = metrics.LazyLoadCounterVec("processor_tx_count", []string{"type", "op", "result"})
	metricBlockCounter   = metrics.LazyLoadCounterVec("processor_block_count", []string{"op", "result"})
	metricBlockDuration  = metrics.LazyLoadHistogram("processor_block_duration_ms", metrics.Bucket1s)
	metricExceptionCount = metrics.LazyLoadCounter("processor_exception_tx_count")
	metricColdWallets    = metrics.LazyLoadCounter("processor_cold_wallet_count")
)

func result(err error) string {
	if err != nil {
		return "failed"
	}
	return "ok"
}
