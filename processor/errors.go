// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package processor

import "github.com/pkg/errors"

var (
	// ErrDuplicateDelegateName a delegate registration claims a username held by another wallet.
	ErrDuplicateDelegateName = errors.New("duplicate delegate name")
	// ErrInvalidVoteTarget the first vote target is not a delegate.
	ErrInvalidVoteTarget = errors.New("invalid vote target")
	// ErrTransactionNotApplicable the sender wallet rejects the transaction.
	ErrTransactionNotApplicable = errors.New("transaction not applicable")
	// ErrUnknownDelegate the forger of a non-genesis block has no wallet.
	ErrUnknownDelegate = errors.New("unknown delegate")
)

func IsDuplicateDelegateName(err error) bool {
	return errors.Is(err, ErrDuplicateDelegateName)
}

func IsInvalidVoteTarget(err error) bool {
	return errors.Is(err, ErrInvalidVoteTarget)
}

func IsTransactionNotApplicable(err error) bool {
	return errors.Is(err, ErrTransactionNotApplicable)
}

func IsUnknownDelegate(err error) bool {
	return errors.Is(err, ErrUnknownDelegate)
}
