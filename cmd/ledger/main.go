// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// ledger generates and replays DPoS block streams against the in-memory wallet ledger.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/dposchain/ledger/block"
	"github.com/dposchain/ledger/genesis"
	"github.com/dposchain/ledger/log"
	"github.com/dposchain/ledger/metrics"
	"github.com/dposchain/ledger/processor"
	"github.com/dposchain/ledger/state"
)

var (
	version   string
	gitCommit string
)

func main() {
	app := cli.App{
		Version: fmt.Sprintf("%s-%s", version, gitCommit),
		Name:    "ledger",
		Usage:   "DPoS wallet ledger tool",
		Flags: []cli.Flag{
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
		},
		Before: initLogger,
		Commands: []cli.Command{
			{
				Name:   "devnet",
				Usage:  "write the devnet genesis block and generated blocks as an RLP stream",
				Flags:  []cli.Flag{outFlag, countFlag, txsPerBlockFlag},
				Action: devnetAction,
			},
			{
				Name:   "replay",
				Usage:  "apply an RLP block stream and print the resulting wallets",
				Flags:  []cli.Flag{networkFlag, blocksFileFlag, purgeFlag, undoFlag},
				Action: replayAction,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func devnetAction(ctx *cli.Context) error {
	return writeDevnet(ctx.String(outFlag.Name), ctx.Int(countFlag.Name), ctx.Int(txsPerBlockFlag.Name))
}

func writeDevnet(path string, count, txsPerBlock int) error {
	if count < 0 {
		return errors.Errorf("--%s must not be negative, got %d", countFlag.Name, count)
	}
	if txsPerBlock < 0 {
		return errors.Errorf("--%s must not be negative, got %d", txsPerBlockFlag.Name, txsPerBlock)
	}
	gen := genesis.NewDevnet()
	chain := genesis.DevChain(gen, count, txsPerBlock)

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create output")
	}
	defer f.Close()

	if err := writeBlocks(f, append([]*block.Block{gen.Block()}, chain...)...); err != nil {
		return err
	}
	log.Info("devnet stream written", "file", f.Name(), "genesis", gen.ID(), "blocks", len(chain)+1)
	return nil
}

func replayAction(ctx *cli.Context) error {
	path := ctx.String(blocksFileFlag.Name)
	if path == "" {
		return errors.New("--blocks is required")
	}
	gen, err := selectGenesis(ctx.String(networkFlag.Name))
	if err != nil {
		return errors.Wrap(err, "select genesis")
	}

	exitSignal := handleExitSignal()

	if ctx.GlobalBool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		url, closeFunc, err := startMetricsServer(ctx.GlobalString(metricsAddrFlag.Name))
		if err != nil {
			return errors.Wrap(err, "start metrics server")
		}
		log.Info("metrics server started", "url", url)
		defer closeFunc()
	}

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open blocks")
	}
	defer f.Close()

	store := state.New(gen.Network())
	events := &processor.FeedSink{}
	defer events.Close()

	r := &replayer{
		gen:   gen,
		store: store,
		proc:  processor.New(gen.Network(), store, events),
	}

	g, gctx := errgroup.WithContext(exitSignal)
	ch := make(chan *processor.Event, 64)
	sub := events.Subscribe(ch)
	done := make(chan struct{})
	g.Go(func() error {
		defer sub.Unsubscribe()
		for {
			select {
			case ev := <-ch:
				log.Debug("ledger event", "kind", ev.Kind, "address", ev.Address, "tx", ev.TxID)
			case err := <-sub.Err():
				return err
			case <-done:
				return nil
			case <-gctx.Done():
				return nil
			}
		}
	})
	g.Go(func() error {
		defer close(done)
		return r.run(gctx, f, ctx.Int(undoFlag.Name))
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if ctx.Bool(purgeFlag.Name) {
		purged := store.PurgeEmptyNonDistinguished()
		log.Info("purged empty wallets", "count", purged)
	}
	return r.printSummary(os.Stdout)
}

type replayer struct {
	gen     *genesis.Genesis
	store   *state.Store
	proc    *processor.Processor
	applied []*block.Block
}

func (r *replayer) run(ctx context.Context, src io.Reader, undo int) error {
	err := readBlocks(src, func(blk *block.Block) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(r.applied) == 0 && blk.ID() != r.gen.ID() {
			return errors.Errorf("stream starts with %v, want genesis %v", blk.ID(), r.gen.ID())
		}
		if err := r.proc.ApplyBlock(blk); err != nil {
			return err
		}
		r.applied = append(r.applied, blk)
		if blk.Height()%100 == 0 {
			log.Info("replaying", "height", blk.Height(), "wallets", r.store.Len())
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Info("replay done", "blocks", len(r.applied), "wallets", r.store.Len())

	for ; undo > 0 && len(r.applied) > 1; undo-- {
		tip := r.applied[len(r.applied)-1]
		if err := r.proc.UndoBlock(tip); err != nil {
			return err
		}
		r.applied = r.applied[:len(r.applied)-1]
		log.Info("reverted block", "height", tip.Height())
	}
	return nil
}

func (r *replayer) printSummary(w io.Writer) error {
	registry := r.gen.Registry()
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "ADDRESS\tUSERNAME\tBALANCE\tPRODUCED\tGENESIS")
	for _, wlt := range r.store.All() {
		fmt.Fprintf(tw, "%v\t%v\t%v\t%v\t%v\n", wlt.Address, wlt.Username, wlt.Balance, wlt.ProducedBlocks, registry.IsGenesis(wlt))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	height := uint32(0)
	if n := len(r.applied); n > 0 {
		height = r.applied[n-1].Height()
	}
	_, err := fmt.Fprintf(w, "height %d, %d wallets\n", height, r.store.Len())
	return err
}
