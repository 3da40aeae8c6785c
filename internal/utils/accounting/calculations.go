package accounting

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/retailops/ledgercore/internal/core/domain"
)

// Delta is the net effect of an entry on one account's balance columns.
type Delta struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// ValidateLines checks the structural invariants of a set of journal lines:
// the set is non-empty, every amount is strictly positive, and no line
// debits and credits the same account.
func ValidateLines(lines []domain.JournalLine) error {
	if len(lines) == 0 {
		return fmt.Errorf("journal entry must have at least one line")
	}
	zero := decimal.Zero
	for i, line := range lines {
		if line.Amount.LessThanOrEqual(zero) {
			return fmt.Errorf("line %d: amount must be positive, got %s", i+1, line.Amount.String())
		}
		if line.DebitAccountID == line.CreditAccountID {
			return fmt.Errorf("line %d: debit and credit account must differ", i+1)
		}
		if line.DebitAccountID == "" || line.CreditAccountID == "" {
			return fmt.Errorf("line %d: debit and credit account are required", i+1)
		}
	}
	return nil
}

// ComputeTotals sums line amounts into the entry's total debit and total
// credit. Each line contributes its amount to both sides, so the totals come
// out equal; callers still re-check with IsBalanced before persisting.
func ComputeTotals(lines []domain.JournalLine) (totalDebit, totalCredit decimal.Decimal) {
	totalDebit = decimal.Zero
	totalCredit = decimal.Zero
	for _, line := range lines {
		totalDebit = totalDebit.Add(line.Amount)
		totalCredit = totalCredit.Add(line.Amount)
	}
	return totalDebit, totalCredit
}

// ComputeBalanceDeltas collapses an entry's lines into per-account balance
// increments: each line adds its amount to the debit side of its debit
// account and to the credit side of its credit account.
func ComputeBalanceDeltas(lines []domain.JournalLine) map[string]Delta {
	deltas := make(map[string]Delta)
	for _, line := range lines {
		d := deltas[line.DebitAccountID]
		d.Debit = d.Debit.Add(line.Amount)
		deltas[line.DebitAccountID] = d

		c := deltas[line.CreditAccountID]
		c.Credit = c.Credit.Add(line.Amount)
		deltas[line.CreditAccountID] = c
	}
	return deltas
}

// Negate returns the exact inverse of a delta set, used to reverse a posted
// entry's effect by subtraction rather than recomputation.
func Negate(deltas map[string]Delta) map[string]Delta {
	out := make(map[string]Delta, len(deltas))
	for id, d := range deltas {
		out[id] = Delta{Debit: d.Debit.Neg(), Credit: d.Credit.Neg()}
	}
	return out
}
