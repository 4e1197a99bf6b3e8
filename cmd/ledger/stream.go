// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bufio"
	"io"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/dposchain/ledger/block"
)

func writeBlocks(w io.Writer, blocks ...*block.Block) error {
	bw := bufio.NewWriter(w)
	for _, blk := range blocks {
		if err := rlp.Encode(bw, blk); err != nil {
			return errors.Wrapf(err, "encode block %d", blk.Height())
		}
	}
	return bw.Flush()
}

// readBlocks decodes blocks from r and passes them to fn until EOF.
func readBlocks(r io.Reader, fn func(*block.Block) error) error {
	stream := rlp.NewStream(bufio.NewReader(r), 0)
	for {
		var blk block.Block
		if err := stream.Decode(&blk); err != nil {
			if err == io.EOF {
				return nil
			}
			return errors.Wrap(err, "decode block")
		}
		if err := fn(&blk); err != nil {
			return err
		}
	}
}
