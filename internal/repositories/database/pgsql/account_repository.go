package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/retailops/ledgercore/internal/apperrors"
	"github.com/retailops/ledgercore/internal/core/domain"
	portsrepo "github.com/retailops/ledgercore/internal/core/ports/repositories"
	"github.com/retailops/ledgercore/internal/models"
	"github.com/retailops/ledgercore/internal/utils/mapping"
)

const accountColumns = `account_id, account_code, name, description, account_type, parent_account_id, is_active, is_system, debit_balance, credit_balance, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for GL account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepository = (*PgxAccountRepository)(nil)

// nullableString maps an empty string to a SQL NULL for nullable columns.
func nullableString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func scanAccount(row pgx.Row) (*models.Account, error) {
	var m models.Account
	var parentID sql.NullString
	var description sql.NullString

	err := row.Scan(
		&m.AccountID,
		&m.AccountCode,
		&m.Name,
		&description,
		&m.AccountType,
		&parentID,
		&m.IsActive,
		&m.IsSystem,
		&m.DebitBalance,
		&m.CreditBalance,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	m.Description = description.String
	m.ParentAccountID = parentID.String
	return &m, nil
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)

	query := `
		INSERT INTO gl_accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.AccountCode,
		m.Name,
		nullableString(m.Description),
		m.AccountType,
		nullableString(m.ParentAccountID),
		m.IsActive,
		m.IsSystem,
		m.DebitBalance,
		m.CreditBalance,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: account code %s already exists", apperrors.ErrDuplicate, m.AccountCode)
		}
		return storeError("failed to save account "+m.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM gl_accounts WHERE account_id = $1;`

	m, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("account " + accountID + " not found")
		}
		return nil, storeError("failed to find account by ID "+accountID, err)
	}

	account := mapping.ToDomainAccount(*m)
	return &account, nil
}

// FindAccountByCode retrieves an account by its unique code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, accountCode string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM gl_accounts WHERE account_code = $1;`

	m, err := scanAccount(r.Pool.QueryRow(ctx, query, accountCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("account code " + accountCode + " not found")
		}
		return nil, storeError("failed to find account by code "+accountCode, err)
	}

	account := mapping.ToDomainAccount(*m)
	return &account, nil
}

// FindAccountsByIDs retrieves multiple accounts keyed by ID. Missing IDs are
// absent from the map; callers decide whether that is an error.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `SELECT ` + accountColumns + ` FROM gl_accounts WHERE account_id = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, storeError("failed to query accounts by IDs", err)
	}
	defer rows.Close()

	accounts := make(map[string]domain.Account, len(accountIDs))
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, storeError("failed to scan account row", err)
		}
		accounts[m.AccountID] = mapping.ToDomainAccount(*m)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("error iterating account rows", err)
	}
	return accounts, nil
}

// ListAccounts retrieves accounts ordered by account code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, includeInactive bool, accountType *domain.AccountType) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM gl_accounts`
	clauses := []string{}
	args := []interface{}{}

	if !includeInactive {
		clauses = append(clauses, "is_active = TRUE")
	}
	if accountType != nil {
		args = append(args, string(*accountType))
		clauses = append(clauses, fmt.Sprintf("account_type = $%d", len(args)))
	}
	for i, clause := range clauses {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}
	query += " ORDER BY account_code;"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, storeError("failed to query accounts", err)
	}
	defer rows.Close()

	return collectAccounts(rows)
}

// ListChildAccounts retrieves the immediate children of an account.
func (r *PgxAccountRepository) ListChildAccounts(ctx context.Context, parentID string, includeInactive bool) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM gl_accounts WHERE parent_account_id = $1`
	if !includeInactive {
		query += " AND is_active = TRUE"
	}
	query += " ORDER BY account_code;"

	rows, err := r.Pool.Query(ctx, query, parentID)
	if err != nil {
		return nil, storeError("failed to query child accounts of "+parentID, err)
	}
	defer rows.Close()

	return collectAccounts(rows)
}

func collectAccounts(rows pgx.Rows) ([]domain.Account, error) {
	accounts := []models.Account{}
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, storeError("failed to scan account row", err)
		}
		accounts = append(accounts, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("error iterating account rows", err)
	}
	return mapping.ToDomainAccountSlice(accounts), nil
}

// UpdateAccount persists the mutable fields of an account.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)

	query := `
		UPDATE gl_accounts
		SET name = $2, description = $3, parent_account_id = $4, is_active = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE account_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.Name,
		nullableString(m.Description),
		nullableString(m.ParentAccountID),
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return storeError("failed to update account "+m.AccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account " + m.AccountID + " not found")
	}
	return nil
}

// DeleteAccount removes an account row.
func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM gl_accounts WHERE account_id = $1;`, accountID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			// FK violation from children or lines that appeared after the
			// service-level guard checks ran.
			return fmt.Errorf("%w: account %s is still referenced", apperrors.ErrConflict, accountID)
		}
		return storeError("failed to delete account "+accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account " + accountID + " not found")
	}
	return nil
}

// HasChildren reports whether any account references accountID as its parent.
func (r *PgxAccountRepository) HasChildren(ctx context.Context, accountID string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM gl_accounts WHERE parent_account_id = $1);`, accountID,
	).Scan(&exists)
	if err != nil {
		return false, storeError("failed to check children of account "+accountID, err)
	}
	return exists, nil
}

// HasLineActivity reports whether any journal line touches accountID. Both
// sides carry an index, so the two EXISTS probes stay cheap.
func (r *PgxAccountRepository) HasLineActivity(ctx context.Context, accountID string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM journal_lines WHERE debit_account_id = $1)
		    OR EXISTS (SELECT 1 FROM journal_lines WHERE credit_account_id = $1);`, accountID,
	).Scan(&exists)
	if err != nil {
		return false, storeError("failed to check line activity of account "+accountID, err)
	}
	return exists, nil
}

// lockAccountsForUpdate fetches and row-locks accounts inside tx. Every
// requested ID must exist.
func lockAccountsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM gl_accounts WHERE account_id = ANY($1) ORDER BY account_id FOR UPDATE;`
	rows, err := tx.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, storeError("failed to lock accounts", err)
	}
	defer rows.Close()

	locked := make(map[string]models.Account, len(accountIDs))
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, storeError("failed to scan locked account row", err)
		}
		locked[m.AccountID] = *m
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("error iterating locked account rows", err)
	}
	for _, id := range accountIDs {
		if _, ok := locked[id]; !ok {
			return nil, apperrors.NewNotFoundError("account " + id + " not found")
		}
	}
	return locked, nil
}
