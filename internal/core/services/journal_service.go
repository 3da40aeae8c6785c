package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/retailops/ledgercore/internal/apperrors"
	"github.com/retailops/ledgercore/internal/core/domain"
	"github.com/retailops/ledgercore/internal/core/ports"
	portsrepo "github.com/retailops/ledgercore/internal/core/ports/repositories"
	portssvc "github.com/retailops/ledgercore/internal/core/ports/services"
	"github.com/retailops/ledgercore/internal/dto"
	"github.com/retailops/ledgercore/internal/middleware"
	"github.com/retailops/ledgercore/internal/utils/accounting"
	"github.com/retailops/ledgercore/internal/utils/pagination"
)

var (
	ErrDuplicateEntryNumber = fmt.Errorf("%w: entry number already in use", apperrors.ErrDuplicate)
	ErrUnknownLineAccount   = fmt.Errorf("%w: line references unknown account", apperrors.ErrNotFound)
	ErrInactiveLineAccount  = fmt.Errorf("%w: line references inactive account", apperrors.ErrValidation)
	ErrUnbalancedEntry      = fmt.Errorf("%w: entry totals do not balance", apperrors.ErrValidation)
	ErrAlreadyPosted        = fmt.Errorf("%w: entry is already posted", apperrors.ErrStateConflict)
	ErrNotPosted            = fmt.Errorf("%w: entry is not posted", apperrors.ErrStateConflict)
	ErrSystemEntryProtected = fmt.Errorf("%w: system entries cannot be unposted", apperrors.ErrStateConflict)
	ErrAmountScaleExceeded  = fmt.Errorf("%w: amounts cannot carry more than two decimal places", apperrors.ErrValidation)
)

const (
	journalCachePrefix = "gl:entries:"
	maxEntryPageSize   = 100
)

// journalService is the posting engine: it validates entry structure, drives
// the draft/posted state machine, and keeps account balances consistent with
// posted lines by handing per-account deltas to the repository transaction.
type journalService struct {
	journalRepo portsrepo.JournalRepository
	accountSvc  portssvc.AccountSvcFacade
	cache       ports.Cache
	cacheTTL    time.Duration
}

// NewJournalService creates a new journal service.
func NewJournalService(journalRepo portsrepo.JournalRepository, accountSvc portssvc.AccountSvcFacade, cache ports.Cache, cacheTTL time.Duration) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo: journalRepo,
		accountSvc:  accountSvc,
		cache:       cache,
		cacheTTL:    cacheTTL,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// CreateEntry validates and persists a journal entry. With req.Post the entry
// is created directly in POSTED status and account balances move in the same
// store transaction as the insert.
func (s *journalService) CreateEntry(ctx context.Context, req dto.CreateEntryRequest, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now().UTC()

	entryID := uuid.NewString()
	lines := make([]domain.JournalLine, len(req.Lines))
	for i, lr := range req.Lines {
		lines[i] = domain.JournalLine{
			LineID:          uuid.NewString(),
			EntryID:         entryID,
			LineNumber:      i + 1,
			DebitAccountID:  lr.DebitAccountID,
			CreditAccountID: lr.CreditAccountID,
			Amount:          lr.Amount,
			Description:     lr.Description,
			ReferenceType:   lr.ReferenceType,
			ReferenceID:     lr.ReferenceID,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
	}

	if err := accounting.ValidateLines(lines); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	for _, line := range lines {
		if line.Amount.Exponent() < -2 {
			return nil, fmt.Errorf("%w: line %d has amount %s", ErrAmountScaleExceeded, line.LineNumber, line.Amount.String())
		}
	}

	if err := s.validateLineAccounts(ctx, lines); err != nil {
		return nil, err
	}

	totalDebit, totalCredit := accounting.ComputeTotals(lines)
	if !totalDebit.Equal(totalCredit) {
		return nil, ErrUnbalancedEntry
	}

	status := domain.Draft
	var deltas map[string]accounting.Delta
	if req.Post {
		status = domain.Posted
		deltas = accounting.ComputeBalanceDeltas(lines)
	}

	entryNumber := ""
	if req.EntryNumber != nil {
		entryNumber = *req.EntryNumber
	}

	entry := domain.JournalEntry{
		EntryID:       entryID,
		EntryNumber:   entryNumber,
		EntryDate:     req.EntryDate,
		Description:   req.Description,
		SourceModule:  req.SourceModule,
		ReferenceType: req.ReferenceType,
		ReferenceID:   req.ReferenceID,
		Status:        status,
		IsSystem:      req.IsSystem,
		TotalDebit:    totalDebit,
		TotalCredit:   totalCredit,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.journalRepo.SaveEntry(ctx, &entry, lines, deltas); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateEntryNumber, entryNumber)
		}
		logger.Error("Failed to save journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}

	entry.Lines = lines
	s.invalidateJournalCache(ctx, req.Post)
	logger.Info("Journal entry created",
		slog.String("entry_id", entry.EntryID),
		slog.String("entry_number", entry.EntryNumber),
		slog.String("status", string(entry.Status)))
	return &entry, nil
}

// validateLineAccounts checks that every account referenced on either side of
// a line exists and is active, in one batched lookup.
func (s *journalService) validateLineAccounts(ctx context.Context, lines []domain.JournalLine) error {
	idSet := make(map[string]struct{}, len(lines)*2)
	for _, line := range lines {
		idSet[line.DebitAccountID] = struct{}{}
		idSet[line.CreditAccountID] = struct{}{}
	}
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	accounts, err := s.accountSvc.GetAccountsByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to fetch line accounts: %w", err)
	}
	for _, id := range ids {
		account, ok := accounts[id]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownLineAccount, id)
		}
		if !account.IsActive {
			return fmt.Errorf("%w: %s (%s)", ErrInactiveLineAccount, account.AccountCode, id)
		}
	}
	return nil
}

// PostEntry transitions a draft entry to POSTED and applies its balance
// effect atomically.
func (s *journalService) PostEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status == domain.Posted {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyPosted, entry.EntryNumber)
	}

	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entry lines: %w", err)
	}

	now := time.Now().UTC()
	deltas := accounting.ComputeBalanceDeltas(lines)
	if err := s.journalRepo.TransitionEntryStatus(ctx, entryID, domain.Draft, domain.Posted, deltas, userID, now); err != nil {
		if errors.Is(err, apperrors.ErrStateConflict) {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyPosted, entry.EntryNumber)
		}
		logger.Error("Failed to post journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to post journal entry: %w", err)
	}

	entry.Status = domain.Posted
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID
	entry.Lines = lines

	s.invalidateJournalCache(ctx, true)
	logger.Info("Journal entry posted", slog.String("entry_id", entryID), slog.String("entry_number", entry.EntryNumber))
	return entry, nil
}

// UnpostEntry reverts a posted entry to DRAFT, subtracting its balance effect.
// System entries are protected; correct them with a reversing entry instead.
func (s *journalService) UnpostEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.IsSystem {
		return nil, fmt.Errorf("%w: %s", ErrSystemEntryProtected, entry.EntryNumber)
	}
	if entry.Status != domain.Posted {
		return nil, fmt.Errorf("%w: %s", ErrNotPosted, entry.EntryNumber)
	}

	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entry lines: %w", err)
	}

	now := time.Now().UTC()
	deltas := accounting.Negate(accounting.ComputeBalanceDeltas(lines))
	if err := s.journalRepo.TransitionEntryStatus(ctx, entryID, domain.Posted, domain.Draft, deltas, userID, now); err != nil {
		if errors.Is(err, apperrors.ErrStateConflict) {
			return nil, fmt.Errorf("%w: %s", ErrNotPosted, entry.EntryNumber)
		}
		logger.Error("Failed to unpost journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to unpost journal entry: %w", err)
	}

	entry.Status = domain.Draft
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID
	entry.Lines = lines

	s.invalidateJournalCache(ctx, true)
	logger.Info("Journal entry unposted", slog.String("entry_id", entryID), slog.String("entry_number", entry.EntryNumber))
	return entry, nil
}

// GetEntryByID returns the entry with its lines.
func (s *journalService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entry lines: %w", err)
	}
	entry.Lines = lines
	return entry, nil
}

// ListEntries returns a token-paginated page of entry headers, newest entry
// date first, read through the cache.
func (s *journalService) ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > maxEntryPageSize {
		limit = maxEntryPageSize
	}

	filter := portsrepo.EntryFilter{
		SourceModule: params.SourceModule,
		FromDate:     params.FromDate,
		ToDate:       params.ToDate,
		Limit:        limit,
		NextToken:    params.NextToken,
	}
	if params.Status != nil && *params.Status != "" {
		status := domain.EntryStatus(*params.Status)
		if status != domain.Draft && status != domain.Posted {
			return nil, fmt.Errorf("%w: unknown entry status %q", apperrors.ErrValidation, *params.Status)
		}
		filter.Status = &status
	}
	if params.NextToken != nil && *params.NextToken != "" {
		if _, _, err := pagination.DecodeToken(*params.NextToken); err != nil {
			return nil, fmt.Errorf("%w: invalid pagination token", apperrors.ErrValidation)
		}
	}

	cacheKey := s.listCacheKey(filter)
	if cached, ok := s.cacheGet(ctx, cacheKey); ok {
		var resp dto.ListEntriesResponse
		if err := json.Unmarshal([]byte(cached), &resp); err == nil {
			return &resp, nil
		}
	}

	entries, nextToken, err := s.journalRepo.ListEntries(ctx, filter)
	if err != nil {
		logger.Error("Failed to list journal entries", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}

	resp := dto.ListEntriesResponse{
		Entries:   make([]dto.EntryResponse, len(entries)),
		NextToken: nextToken,
	}
	for i := range entries {
		resp.Entries[i] = dto.ToEntryResponse(&entries[i])
	}

	s.cacheSet(ctx, cacheKey, &resp)
	return &resp, nil
}

func (s *journalService) listCacheKey(filter portsrepo.EntryFilter) string {
	status, source, from, to, token := "", "", "", "", ""
	if filter.Status != nil {
		status = string(*filter.Status)
	}
	if filter.SourceModule != nil {
		source = *filter.SourceModule
	}
	if filter.FromDate != nil {
		from = filter.FromDate.Format("2006-01-02")
	}
	if filter.ToDate != nil {
		to = filter.ToDate.Format("2006-01-02")
	}
	if filter.NextToken != nil {
		token = *filter.NextToken
	}
	return fmt.Sprintf("%slist:%s:%s:%s:%s:%d:%s", journalCachePrefix, status, source, from, to, filter.Limit, token)
}

func (s *journalService) cacheGet(ctx context.Context, key string) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	val, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		return "", false
	}
	return val, ok
}

func (s *journalService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(payload), s.cacheTTL); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

// invalidateJournalCache drops entry list caches; balancesMoved additionally
// drops account caches since posted balances changed.
func (s *journalService) invalidateJournalCache(ctx context.Context, balancesMoved bool) {
	if s.cache == nil {
		return
	}
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := ports.InvalidatePrefix(ctx, s.cache, journalCachePrefix); err != nil {
		logger.Warn("Cache invalidation failed", slog.String("prefix", journalCachePrefix), slog.String("error", err.Error()))
	}
	if balancesMoved {
		if err := ports.InvalidatePrefix(ctx, s.cache, accountCachePrefix); err != nil {
			logger.Warn("Cache invalidation failed", slog.String("prefix", accountCachePrefix), slog.String("error", err.Error()))
		}
	}
}
