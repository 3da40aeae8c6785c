package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/retailops/ledgercore/internal/core/ports/repositories"
)

// NewRepositoryProvider builds the pgx-backed repositories over a shared pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:   newPgxAccountRepository(dbPool),
		JournalRepo:   newPgxJournalRepository(dbPool),
		ReportingRepo: newPgxReportingRepository(dbPool),
	}
}
