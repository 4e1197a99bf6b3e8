// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state holds the in-memory wallet set of the ledger.
//
// Wallets live in an arena and are addressed by a stable id. Three indices map
// address, public key and delegate username to ids:
//
//	byAddress ----+
//	              |
//	byPublicKey --+--> id --> arena[id] --> *wallet.Wallet
//	              |
//	byUsername ---+
//
// Every id reachable from byPublicKey or byUsername is also reachable from
// byAddress. Freed ids are recycled by later creations.
package state
