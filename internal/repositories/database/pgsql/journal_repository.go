package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/retailops/ledgercore/internal/apperrors"
	"github.com/retailops/ledgercore/internal/core/domain"
	portsrepo "github.com/retailops/ledgercore/internal/core/ports/repositories"
	"github.com/retailops/ledgercore/internal/models"
	"github.com/retailops/ledgercore/internal/utils/accounting"
	"github.com/retailops/ledgercore/internal/utils/mapping"
	"github.com/retailops/ledgercore/internal/utils/pagination"
)

const entryColumns = `entry_id, entry_number, entry_date, description, source_module, reference_type, reference_id, status, is_system, total_debit, total_credit, created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, entry_id, line_number, debit_account_id, credit_account_id, amount, description, reference_type, reference_id, created_at, created_by, last_updated_at, last_updated_by`

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entries and lines.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepository = (*PgxJournalRepository)(nil)

// SaveEntry inserts the entry and its lines within one DB transaction,
// allocating an entry number from the year-scoped counter when none is given
// and applying balance deltas when the entry is created already posted.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry *domain.JournalEntry, lines []domain.JournalLine, deltas map[string]accounting.Delta) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if entry.EntryNumber == "" {
		number, err := nextEntryNumber(ctx, tx, entry.EntryDate)
		if err != nil {
			return err
		}
		entry.EntryNumber = number
	}

	m := mapping.ToModelJournalEntry(*entry)
	entryQuery := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err = tx.Exec(ctx, entryQuery,
		m.EntryID,
		m.EntryNumber,
		m.EntryDate,
		m.Description,
		nullableString(m.SourceModule),
		nullableString(m.ReferenceType),
		nullableString(m.ReferenceID),
		m.Status,
		m.IsSystem,
		m.TotalDebit,
		m.TotalCredit,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: entry number %s already exists", apperrors.ErrDuplicate, m.EntryNumber)
		}
		return storeError("failed to insert journal entry "+m.EntryID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO journal_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	for _, line := range lines {
		ml := mapping.ToModelJournalLine(line)
		batch.Queue(lineQuery,
			ml.LineID,
			ml.EntryID,
			ml.LineNumber,
			ml.DebitAccountID,
			ml.CreditAccountID,
			ml.Amount,
			nullableString(ml.Description),
			nullableString(ml.ReferenceType),
			nullableString(ml.ReferenceID),
			ml.CreatedAt,
			ml.CreatedBy,
			ml.LastUpdatedAt,
			ml.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return storeError("failed to insert lines for entry "+m.EntryID, err)
	}

	if deltas != nil {
		if err := applyBalanceDeltas(ctx, tx, deltas, entry.CreatedBy, entry.CreatedAt); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// nextEntryNumber bumps the per-year counter inside tx and formats the
// JE-<YEAR>-<SEQ> number. The upsert takes a row lock, serializing concurrent
// allocations within a year.
func nextEntryNumber(ctx context.Context, tx pgx.Tx, entryDate time.Time) (string, error) {
	year := entryDate.UTC().Year()
	var seq int64
	err := tx.QueryRow(ctx, `
		INSERT INTO entry_number_counters (year, last_seq)
		VALUES ($1, 1)
		ON CONFLICT (year) DO UPDATE SET last_seq = entry_number_counters.last_seq + 1
		RETURNING last_seq;`, year,
	).Scan(&seq)
	if err != nil {
		return "", storeError("failed to allocate entry number for year "+strconv.Itoa(year), err)
	}
	return fmt.Sprintf("JE-%d-%04d", year, seq), nil
}

// applyBalanceDeltas locks the affected accounts in deterministic order and
// adds each delta to the balance columns.
func applyBalanceDeltas(ctx context.Context, tx pgx.Tx, deltas map[string]accounting.Delta, userID string, now time.Time) error {
	accountIDs := make([]string, 0, len(deltas))
	for id := range deltas {
		accountIDs = append(accountIDs, id)
	}
	// Locking in sorted order avoids deadlocks between concurrent postings.
	sort.Strings(accountIDs)

	if _, err := lockAccountsForUpdate(ctx, tx, accountIDs); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	updateQuery := `
		UPDATE gl_accounts
		SET debit_balance = debit_balance + $2,
		    credit_balance = credit_balance + $3,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE account_id = $1;
	`
	for _, id := range accountIDs {
		d := deltas[id]
		batch.Queue(updateQuery, id, d.Debit, d.Credit, now, userID)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return storeError("failed to update account balances", err)
	}
	return nil
}

func scanEntry(row pgx.Row) (*models.JournalEntry, error) {
	var m models.JournalEntry
	var sourceModule, referenceType, referenceID sql.NullString

	err := row.Scan(
		&m.EntryID,
		&m.EntryNumber,
		&m.EntryDate,
		&m.Description,
		&sourceModule,
		&referenceType,
		&referenceID,
		&m.Status,
		&m.IsSystem,
		&m.TotalDebit,
		&m.TotalCredit,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	m.SourceModule = sourceModule.String
	m.ReferenceType = referenceType.String
	m.ReferenceID = referenceID.String
	return &m, nil
}

// FindEntryByID retrieves a journal entry header by its ID.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`

	m, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("journal entry " + entryID + " not found")
		}
		return nil, storeError("failed to find journal entry by ID "+entryID, err)
	}

	entry := mapping.ToDomainJournalEntry(*m)
	return &entry, nil
}

// FindLinesByEntryID retrieves all lines of an entry ordered by line number.
func (r *PgxJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	query := `SELECT ` + lineColumns + ` FROM journal_lines WHERE entry_id = $1 ORDER BY line_number;`

	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, storeError("failed to query lines for entry "+entryID, err)
	}
	defer rows.Close()

	lines := []models.JournalLine{}
	for rows.Next() {
		var m models.JournalLine
		var description, referenceType, referenceID sql.NullString
		err := rows.Scan(
			&m.LineID,
			&m.EntryID,
			&m.LineNumber,
			&m.DebitAccountID,
			&m.CreditAccountID,
			&m.Amount,
			&description,
			&referenceType,
			&referenceID,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, storeError("failed to scan line row for entry "+entryID, err)
		}
		m.Description = description.String
		m.ReferenceType = referenceType.String
		m.ReferenceID = referenceID.String
		lines = append(lines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("error iterating line rows for entry "+entryID, err)
	}

	return mapping.ToDomainJournalLineSlice(lines), nil
}

// ListEntries retrieves a token-paginated page of entry headers ordered by
// entry date descending with created_at as the tie-breaker.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, filter portsrepo.EntryFilter) ([]domain.JournalEntry, *string, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	// One extra row decides whether a next page exists.
	fetchLimit := limit + 1

	query := `SELECT ` + entryColumns + ` FROM journal_entries`
	clauses := []string{}
	args := []interface{}{}

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.SourceModule != nil && *filter.SourceModule != "" {
		args = append(args, *filter.SourceModule)
		clauses = append(clauses, fmt.Sprintf("source_module = $%d", len(args)))
	}
	if filter.FromDate != nil {
		args = append(args, *filter.FromDate)
		clauses = append(clauses, fmt.Sprintf("entry_date >= $%d", len(args)))
	}
	if filter.ToDate != nil {
		args = append(args, *filter.ToDate)
		clauses = append(clauses, fmt.Sprintf("entry_date <= $%d", len(args)))
	}
	if filter.NextToken != nil && *filter.NextToken != "" {
		lastEntryDate, lastCreatedAt, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid pagination token", apperrors.ErrValidation)
		}
		args = append(args, lastEntryDate, lastCreatedAt)
		clauses = append(clauses, fmt.Sprintf("(entry_date, created_at) < ($%d, $%d)", len(args)-1, len(args)))
	}

	for i, clause := range clauses {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}
	args = append(args, fetchLimit)
	query += fmt.Sprintf(" ORDER BY entry_date DESC, created_at DESC LIMIT $%d;", len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, storeError("failed to query journal entries", err)
	}
	defer rows.Close()

	entries := []models.JournalEntry{}
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, nil, storeError("failed to scan journal entry row", err)
		}
		entries = append(entries, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, storeError("error iterating journal entry rows", err)
	}

	var nextToken *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[limit-1]
		token := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		nextToken = &token
	}

	result := make([]domain.JournalEntry, len(entries))
	for i := range entries {
		result[i] = mapping.ToDomainJournalEntry(entries[i])
	}
	return result, nextToken, nil
}

// TransitionEntryStatus flips the entry status and applies the balance deltas
// in a single transaction. The entry row is locked first so concurrent
// transitions serialize; the loser of a race sees the unexpected status.
func (r *PgxJournalRepository) TransitionEntryStatus(ctx context.Context, entryID string, expected, next domain.EntryStatus, deltas map[string]accounting.Delta, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var current models.EntryStatus
	err = tx.QueryRow(ctx,
		`SELECT status FROM journal_entries WHERE entry_id = $1 FOR UPDATE;`, entryID,
	).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFoundError("journal entry " + entryID + " not found")
		}
		return storeError("failed to lock journal entry "+entryID, err)
	}
	if current != models.EntryStatus(expected) {
		return fmt.Errorf("%w: entry %s is %s, expected %s", apperrors.ErrStateConflict, entryID, current, expected)
	}

	_, err = tx.Exec(ctx, `
		UPDATE journal_entries
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE entry_id = $1;`,
		entryID, string(next), now, userID,
	)
	if err != nil {
		return storeError("failed to update status of entry "+entryID, err)
	}

	if err := applyBalanceDeltas(ctx, tx, deltas, userID, now); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}
