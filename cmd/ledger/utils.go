// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/dposchain/ledger/genesis"
	"github.com/dposchain/ledger/log"
)

func readIntFromUInt64Flag(val uint64) (int, error) {
	if val > math.MaxInt {
		return 0, errors.Errorf("flag value %d overflows int", val)
	}
	return int(val), nil
}

func initLogger(ctx *cli.Context) error {
	lvl, err := readIntFromUInt64Flag(ctx.GlobalUint64(verbosityFlag.Name))
	if err != nil {
		return errors.Wrap(err, "parse verbosity flag")
	}
	handler := log.NewHandler(os.Stderr, log.FromLegacyLevel(lvl), ctx.GlobalBool(jsonLogsFlag.Name))
	log.SetDefault(log.NewLogger(handler))
	return nil
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		log.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func selectGenesis(network string) (*genesis.Genesis, error) {
	switch network {
	case "", "devnet":
		return genesis.NewDevnet(), nil
	default:
		custom, err := genesis.LoadCustomGenesis(network)
		if err != nil {
			return nil, err
		}
		return genesis.NewCustomNet(custom)
	}
}
