// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import "github.com/pkg/errors"

// ErrInvalidAddress is returned when an address fails network validation.
var ErrInvalidAddress = errors.New("invalid address")

// IsInvalidAddress returns whether err is caused by a malformed address.
func IsInvalidAddress(err error) bool {
	return errors.Is(err, ErrInvalidAddress)
}
