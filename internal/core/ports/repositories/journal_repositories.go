package repositories

import (
	"context"
	"time"

	"github.com/retailops/ledgercore/internal/core/domain"
	"github.com/retailops/ledgercore/internal/utils/accounting"
)

// EntryFilter narrows ListEntries results.
type EntryFilter struct {
	Status       *domain.EntryStatus
	SourceModule *string
	FromDate     *time.Time
	ToDate       *time.Time
	Limit        int
	NextToken    *string
}

// JournalRepository defines persistence operations for journal entries and
// their lines. Every balance mutation happens in the same store transaction
// as the entry write it belongs to.
type JournalRepository interface {
	// SaveEntry inserts the entry and its lines atomically. When the entry
	// number is empty a JE-<YEAR>-<SEQ> number is allocated from the
	// year-scoped counter inside the same transaction. When deltas is
	// non-nil (entry created directly posted) the referenced accounts are
	// locked and their balances updated in the same transaction.
	// Returns apperrors.ErrDuplicate on an entry-number collision.
	// The allocated entry number is written back to entry.EntryNumber.
	SaveEntry(ctx context.Context, entry *domain.JournalEntry, lines []domain.JournalLine, deltas map[string]accounting.Delta) error

	// FindEntryByID returns the entry header or apperrors.ErrNotFound.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindLinesByEntryID returns the entry's lines ordered by line number.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error)

	// ListEntries returns a token-paginated page of entry headers ordered by
	// entry date descending, created_at descending.
	ListEntries(ctx context.Context, filter EntryFilter) ([]domain.JournalEntry, *string, error)

	// TransitionEntryStatus flips the entry from expected to next and applies
	// the balance deltas to the referenced accounts, all inside a single
	// transaction with the account rows locked. Returns
	// apperrors.ErrStateConflict if the entry is no longer in the expected
	// status when the transaction runs.
	TransitionEntryStatus(ctx context.Context, entryID string, expected, next domain.EntryStatus, deltas map[string]accounting.Delta, userID string, now time.Time) error
}
