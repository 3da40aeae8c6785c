package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/retailops/ledgercore/internal/core/domain"
	portsrepo "github.com/retailops/ledgercore/internal/core/ports/repositories"
	"github.com/retailops/ledgercore/internal/utils/accounting"
)

type PgxReportingRepository struct {
	BaseRepository
}

// newPgxReportingRepository creates a new repository for aggregate reads.
func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// CountAccounts tallies accounts in total, active, and per type.
func (r *PgxReportingRepository) CountAccounts(ctx context.Context) (domain.AccountCounts, error) {
	counts := domain.AccountCounts{ByType: make(map[domain.AccountType]int)}

	err := r.Pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_active)
		FROM gl_accounts;`,
	).Scan(&counts.Total, &counts.Active)
	if err != nil {
		return counts, storeError("failed to count accounts", err)
	}

	rows, err := r.Pool.Query(ctx, `
		SELECT account_type, COUNT(*)
		FROM gl_accounts
		GROUP BY account_type;`,
	)
	if err != nil {
		return counts, storeError("failed to count accounts by type", err)
	}
	defer rows.Close()

	for rows.Next() {
		var accountType string
		var count int
		if err := rows.Scan(&accountType, &count); err != nil {
			return counts, storeError("failed to scan account type count", err)
		}
		counts.ByType[domain.AccountType(accountType)] = count
	}
	if err := rows.Err(); err != nil {
		return counts, storeError("error iterating account type counts", err)
	}
	return counts, nil
}

// CountEntries tallies journal entries, restricted to the entry-date range
// when given.
func (r *PgxReportingRepository) CountEntries(ctx context.Context, from, to *time.Time) (domain.EntryCounts, error) {
	var counts domain.EntryCounts

	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'POSTED'),
		       COUNT(*) FILTER (WHERE status = 'DRAFT'),
		       COUNT(*) FILTER (WHERE is_system),
		       COUNT(*) FILTER (WHERE NOT is_system)
		FROM journal_entries`
	args := []interface{}{}
	query += entryDateClause(&args, from, to, "entry_date", " WHERE ")
	query += ";"

	err := r.Pool.QueryRow(ctx, query, args...).Scan(
		&counts.Total, &counts.Posted, &counts.Draft, &counts.System, &counts.Manual,
	)
	if err != nil {
		return counts, storeError("failed to count journal entries", err)
	}
	return counts, nil
}

// SumPostedLinesByType sums posted line effects grouped by the account type
// of each side. A line contributes its amount to the debit column of its
// debit account's type and the credit column of its credit account's type.
func (r *PgxReportingRepository) SumPostedLinesByType(ctx context.Context, from, to *time.Time) (map[domain.AccountType]accounting.Delta, error) {
	args := []interface{}{}
	dateClause := entryDateClause(&args, from, to, "e.entry_date", " AND ")

	query := `
		SELECT t.account_type, COALESCE(SUM(t.debit), 0), COALESCE(SUM(t.credit), 0)
		FROM (
			SELECT a.account_type AS account_type, l.amount AS debit, 0::numeric AS credit
			FROM journal_lines l
			JOIN journal_entries e ON e.entry_id = l.entry_id
			JOIN gl_accounts a ON a.account_id = l.debit_account_id
			WHERE e.status = 'POSTED'` + dateClause + `
			UNION ALL
			SELECT a.account_type, 0::numeric, l.amount
			FROM journal_lines l
			JOIN journal_entries e ON e.entry_id = l.entry_id
			JOIN gl_accounts a ON a.account_id = l.credit_account_id
			WHERE e.status = 'POSTED'` + dateClause + `
		) t
		GROUP BY t.account_type;
	`
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, storeError("failed to sum posted lines by type", err)
	}
	defer rows.Close()

	sums := make(map[domain.AccountType]accounting.Delta)
	for rows.Next() {
		var accountType string
		var delta accounting.Delta
		if err := rows.Scan(&accountType, &delta.Debit, &delta.Credit); err != nil {
			return nil, storeError("failed to scan posted line sum", err)
		}
		sums[domain.AccountType(accountType)] = delta
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("error iterating posted line sums", err)
	}
	return sums, nil
}

// TrialBalanceRows returns per-account posted debit/credit sums up to asOf,
// ordered by account code. Accounts without activity appear with zero sums.
func (r *PgxReportingRepository) TrialBalanceRows(ctx context.Context, asOf *time.Time) ([]domain.TrialBalanceRow, error) {
	args := []interface{}{}
	dateClause := entryDateClause(&args, nil, asOf, "e.entry_date", " AND ")

	query := `
		SELECT a.account_id, a.account_code, a.name, a.account_type,
		       COALESCE(d.total, 0), COALESCE(c.total, 0)
		FROM gl_accounts a
		LEFT JOIN (
			SELECT l.debit_account_id AS account_id, SUM(l.amount) AS total
			FROM journal_lines l
			JOIN journal_entries e ON e.entry_id = l.entry_id
			WHERE e.status = 'POSTED'` + dateClause + `
			GROUP BY l.debit_account_id
		) d ON d.account_id = a.account_id
		LEFT JOIN (
			SELECT l.credit_account_id AS account_id, SUM(l.amount) AS total
			FROM journal_lines l
			JOIN journal_entries e ON e.entry_id = l.entry_id
			WHERE e.status = 'POSTED'` + dateClause + `
			GROUP BY l.credit_account_id
		) c ON c.account_id = a.account_id
		ORDER BY a.account_code;
	`
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, storeError("failed to query trial balance", err)
	}
	defer rows.Close()

	result := []domain.TrialBalanceRow{}
	for rows.Next() {
		var row domain.TrialBalanceRow
		if err := rows.Scan(&row.AccountID, &row.AccountCode, &row.AccountName, &row.AccountType, &row.Debit, &row.Credit); err != nil {
			return nil, storeError("failed to scan trial balance row", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("error iterating trial balance rows", err)
	}
	return result, nil
}

// entryDateClause appends range bounds to args and returns the SQL fragment
// referencing them. The fragment carries fixed parameter numbers, so it can
// be embedded in a query more than once.
func entryDateClause(args *[]interface{}, from, to *time.Time, column, prefix string) string {
	clause := ""
	joiner := prefix
	if from != nil {
		*args = append(*args, *from)
		clause += fmt.Sprintf("%s%s >= $%d", joiner, column, len(*args))
		joiner = " AND "
	}
	if to != nil {
		*args = append(*args, *to)
		clause += fmt.Sprintf("%s%s <= $%d", joiner, column, len(*args))
	}
	return clause
}
