// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package wallet

import (
	"math/big"
	"regexp"
	"strings"

	"github.com/dposchain/ledger/tx"
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9!@$&_.]{1,20}$`)

// ValidUsername returns whether name can be registered as a delegate username.
func ValidUsername(name string) bool {
	return usernamePattern.MatchString(name)
}

// Check is a single rule evaluated by AuditApply.
type Check struct {
	Rule   string
	Passed bool
}

// Audit is the diagnostic record of AuditApply.
type Audit []Check

// OK returns whether every check passed.
func (a Audit) OK() bool {
	for _, c := range a {
		if !c.Passed {
			return false
		}
	}
	return true
}

// Failed returns the rules that did not pass.
func (a Audit) Failed() []string {
	var failed []string
	for _, c := range a {
		if !c.Passed {
			failed = append(failed, c.Rule)
		}
	}
	return failed
}

func (a Audit) String() string {
	failed := a.Failed()
	if len(failed) == 0 {
		return "ok"
	}
	return "failed: " + strings.Join(failed, ", ")
}

// CanApply returns whether the wallet, as sender, can apply trx.
func (w *Wallet) CanApply(trx *tx.Transaction) bool {
	return w.AuditApply(trx).OK()
}

// AuditApply evaluates every sender rule for trx and reports each outcome.
func (w *Wallet) AuditApply(trx *tx.Transaction) Audit {
	var audit Audit
	check := func(rule string, passed bool) {
		audit = append(audit, Check{Rule: rule, Passed: passed})
	}

	sender := trx.SenderPublicKey()
	check("sender public key", w.PublicKey != nil && *w.PublicKey == sender)

	cost := new(big.Int).Add(trx.Amount(), trx.Fee())
	check("balance covers amount and fee", w.Balance.Cmp(cost) >= 0)

	if w.SecondPublicKey != nil {
		check("second signature present", len(trx.SecondSignature()) > 0)
	}
	if w.MultiSignature != nil {
		check("multi-signature quorum", len(trx.Signatures()) >= int(w.MultiSignature.Min))
	}

	switch p := trx.Payload().(type) {
	case *tx.Transfer:
		check("recipient set", trx.Recipient() != nil)
	case *tx.SecondSignature:
		check("second signature not registered", w.SecondPublicKey == nil)
		check("second key differs from sender", p.PublicKey != sender)
	case *tx.DelegateRegistration:
		check("username not registered", w.Username == "")
		check("username format", ValidUsername(p.Username))
	case *tx.Vote:
		check("vote list not empty", len(p.Votes) > 0)
		if len(p.Votes) > 0 {
			first := p.Votes[0]
			if first.Unvote {
				check("unvote matches current vote", w.Vote != nil && *w.Vote == first.Delegate)
			} else {
				check("no current vote", w.Vote == nil)
			}
		}
	case *tx.MultiSignature:
		check("multi-signature not registered", w.MultiSignature == nil)
		check("multi-signature min in range", p.Min >= 1 && int(p.Min) <= len(p.Keys))
	}
	return audit
}

// ApplyTransactionToSender debits amount and fee and applies the type specific effect.
func (w *Wallet) ApplyTransactionToSender(trx *tx.Transaction) {
	w.Balance.Sub(w.Balance, trx.Amount())
	w.Balance.Sub(w.Balance, trx.Fee())
	w.Nonce++

	switch p := trx.Payload().(type) {
	case *tx.SecondSignature:
		w.SecondPublicKey = &p.PublicKey
	case *tx.DelegateRegistration:
		w.Username = p.Username
	case *tx.Vote:
		for _, v := range p.Votes {
			if v.Unvote {
				w.Vote = nil
			} else {
				delegate := v.Delegate
				w.Vote = &delegate
			}
		}
	case *tx.MultiSignature:
		w.MultiSignature = &MultiSignature{Min: p.Min, Lifetime: p.Lifetime, Keys: p.Keys}
	}
}

// UndoTransactionToSender reverts ApplyTransactionToSender.
func (w *Wallet) UndoTransactionToSender(trx *tx.Transaction) {
	w.Balance.Add(w.Balance, trx.Amount())
	w.Balance.Add(w.Balance, trx.Fee())
	// the sender may have been purged and recreated since apply
	if w.Nonce > 0 {
		w.Nonce--
	}

	switch p := trx.Payload().(type) {
	case *tx.SecondSignature:
		w.SecondPublicKey = nil
	case *tx.DelegateRegistration:
		w.Username = ""
	case *tx.Vote:
		for i := len(p.Votes) - 1; i >= 0; i-- {
			if v := p.Votes[i]; v.Unvote {
				delegate := v.Delegate
				w.Vote = &delegate
			} else {
				w.Vote = nil
			}
		}
	case *tx.MultiSignature:
		w.MultiSignature = nil
	}
}

// ApplyTransactionToRecipient credits the transaction amount.
func (w *Wallet) ApplyTransactionToRecipient(trx *tx.Transaction) {
	w.Balance.Add(w.Balance, trx.Amount())
}

// UndoTransactionToRecipient reverts ApplyTransactionToRecipient.
func (w *Wallet) UndoTransactionToRecipient(trx *tx.Transaction) {
	w.Balance.Sub(w.Balance, trx.Amount())
}
