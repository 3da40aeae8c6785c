package accounting

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailops/ledgercore/internal/core/domain"
)

func line(debitID, creditID string, amount float64) domain.JournalLine {
	return domain.JournalLine{
		DebitAccountID:  debitID,
		CreditAccountID: creditID,
		Amount:          decimal.NewFromFloat(amount),
	}
}

func TestValidateLines(t *testing.T) {
	tests := []struct {
		name    string
		lines   []domain.JournalLine
		wantErr string
	}{
		{
			name:  "valid single line",
			lines: []domain.JournalLine{line("a", "b", 100)},
		},
		{
			name:  "valid multiple lines",
			lines: []domain.JournalLine{line("a", "b", 100), line("c", "a", 25.50)},
		},
		{
			name:    "empty set",
			lines:   nil,
			wantErr: "at least one line",
		},
		{
			name:    "zero amount",
			lines:   []domain.JournalLine{line("a", "b", 0)},
			wantErr: "amount must be positive",
		},
		{
			name:    "negative amount",
			lines:   []domain.JournalLine{line("a", "b", -5)},
			wantErr: "amount must be positive",
		},
		{
			name:    "same account both sides",
			lines:   []domain.JournalLine{line("a", "a", 100)},
			wantErr: "debit and credit account must differ",
		},
		{
			name:    "missing debit account",
			lines:   []domain.JournalLine{line("", "b", 100)},
			wantErr: "debit and credit account are required",
		},
		{
			name:    "second line invalid",
			lines:   []domain.JournalLine{line("a", "b", 100), line("c", "c", 10)},
			wantErr: "line 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLines(tt.lines)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestComputeTotals(t *testing.T) {
	lines := []domain.JournalLine{
		line("a", "b", 100.25),
		line("c", "d", 49.75),
	}

	totalDebit, totalCredit := ComputeTotals(lines)
	assert.True(t, totalDebit.Equal(decimal.NewFromFloat(150.00)), "total debit should sum line amounts")
	assert.True(t, totalCredit.Equal(totalDebit), "totals are equal by construction")

	emptyDebit, emptyCredit := ComputeTotals(nil)
	assert.True(t, emptyDebit.IsZero())
	assert.True(t, emptyCredit.IsZero())
}

func TestComputeBalanceDeltas(t *testing.T) {
	// Account "a" is debited twice and credited once; "b" only credited.
	lines := []domain.JournalLine{
		line("a", "b", 100),
		line("a", "b", 50),
		line("c", "a", 30),
	}

	deltas := ComputeBalanceDeltas(lines)
	require.Len(t, deltas, 3)

	assert.True(t, deltas["a"].Debit.Equal(decimal.NewFromInt(150)))
	assert.True(t, deltas["a"].Credit.Equal(decimal.NewFromInt(30)))
	assert.True(t, deltas["b"].Debit.IsZero())
	assert.True(t, deltas["b"].Credit.Equal(decimal.NewFromInt(150)))
	assert.True(t, deltas["c"].Debit.Equal(decimal.NewFromInt(30)))
	assert.True(t, deltas["c"].Credit.IsZero())
}

func TestNegate(t *testing.T) {
	deltas := map[string]Delta{
		"a": {Debit: decimal.NewFromInt(150), Credit: decimal.NewFromInt(30)},
		"b": {Debit: decimal.Zero, Credit: decimal.NewFromInt(150)},
	}

	negated := Negate(deltas)
	require.Len(t, negated, 2)
	assert.True(t, negated["a"].Debit.Equal(decimal.NewFromInt(-150)))
	assert.True(t, negated["a"].Credit.Equal(decimal.NewFromInt(-30)))
	assert.True(t, negated["b"].Debit.IsZero())
	assert.True(t, negated["b"].Credit.Equal(decimal.NewFromInt(-150)))

	// The original set is untouched
	assert.True(t, deltas["a"].Debit.Equal(decimal.NewFromInt(150)))
}
