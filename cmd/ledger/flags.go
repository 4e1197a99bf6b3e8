// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"

	"github.com/dposchain/ledger/log"
)

var (
	verbosityFlag = cli.Uint64Flag{
		Name:  "verbosity",
		Value: log.LegacyLevelInfo,
		Usage: "log verbosity (0-9)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "localhost:2112",
		Usage: "metrics service listening address",
	}
	networkFlag = cli.StringFlag{
		Name:  "network",
		Value: "devnet",
		Usage: "the network to replay (devnet) or the path to a YAML genesis file",
	}
	blocksFileFlag = cli.StringFlag{
		Name:  "blocks",
		Usage: "path to an RLP stream of blocks, starting with the genesis block",
	}
	outFlag = cli.StringFlag{
		Name:  "out",
		Value: "devnet.rlp",
		Usage: "path of the RLP block stream to write",
	}
	countFlag = cli.IntFlag{
		Name:  "count",
		Value: 100,
		Usage: "number of blocks to generate after genesis",
	}
	txsPerBlockFlag = cli.IntFlag{
		Name:  "txs-per-block",
		Value: 5,
		Usage: "number of transfers in each generated block",
	}
	purgeFlag = cli.BoolFlag{
		Name:  "purge",
		Usage: "purge empty wallets after replay",
	}
	undoFlag = cli.IntFlag{
		Name:  "undo",
		Usage: "number of tip blocks to revert after replay",
	}
)
