package services

import (
	"context"

	"github.com/retailops/ledgercore/internal/core/domain"
	"github.com/retailops/ledgercore/internal/dto"
)

// JournalSvcFacade exposes journal-entry operations: creation, the
// draft/posted state machine, and reads.
type JournalSvcFacade interface {
	CreateEntry(ctx context.Context, req dto.CreateEntryRequest, userID string) (*domain.JournalEntry, error)
	PostEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error)
	UnpostEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error)
	GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)
	ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}
