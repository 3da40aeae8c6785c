package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/retailops/ledgercore/internal/apperrors"
	"github.com/retailops/ledgercore/internal/core/domain"
	portssvc "github.com/retailops/ledgercore/internal/core/ports/services"
	"github.com/retailops/ledgercore/internal/dto"
	"github.com/retailops/ledgercore/internal/middleware"
)

const (
	SourceModuleSales      = "sales"
	SourceModulePurchasing = "purchasing"

	ReferenceTypeSalesInvoice    = "sales_invoice"
	ReferenceTypePurchaseInvoice = "purchase_invoice"
)

var ErrSeedAccountMissing = fmt.Errorf("%w: required system account", apperrors.ErrNotFound)

// integrationService is the entry point for the sales and purchasing modules.
// Each call translates a completed business document into a posted system
// journal entry against the seeded chart.
type integrationService struct {
	journalSvc portssvc.JournalSvcFacade
	accountSvc portssvc.AccountSvcFacade
}

// NewIntegrationService creates a new integration service.
func NewIntegrationService(journalSvc portssvc.JournalSvcFacade, accountSvc portssvc.AccountSvcFacade) portssvc.IntegrationSvcFacade {
	return &integrationService{
		journalSvc: journalSvc,
		accountSvc: accountSvc,
	}
}

var _ portssvc.IntegrationSvcFacade = (*integrationService)(nil)

// CreateSalesJournalEntry records a completed sales invoice: receivable is
// debited for the gross amount, revenue is credited net of tax and the tax
// portion is credited to tax payable.
func (s *integrationService) CreateSalesJournalEntry(ctx context.Context, salesInvoiceID, customerID string, totalAmount, taxAmount decimal.Decimal, actorID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateDocumentAmounts(salesInvoiceID, totalAmount, taxAmount); err != nil {
		return nil, err
	}

	receivable, err := s.requireAccount(ctx, CodeAccountsReceivable)
	if err != nil {
		return nil, err
	}
	revenue, err := s.requireAccount(ctx, CodeSalesRevenue)
	if err != nil {
		return nil, err
	}

	netAmount := totalAmount.Sub(taxAmount)
	lines := []dto.CreateEntryLineRequest{
		{
			DebitAccountID:  receivable.AccountID,
			CreditAccountID: revenue.AccountID,
			Amount:          netAmount,
			Description:     fmt.Sprintf("Sales revenue for invoice %s", salesInvoiceID),
			ReferenceType:   ReferenceTypeSalesInvoice,
			ReferenceID:     salesInvoiceID,
		},
	}
	if taxAmount.IsPositive() {
		taxPayable, err := s.requireAccount(ctx, CodeTaxPayable)
		if err != nil {
			return nil, err
		}
		lines = append(lines, dto.CreateEntryLineRequest{
			DebitAccountID:  receivable.AccountID,
			CreditAccountID: taxPayable.AccountID,
			Amount:          taxAmount,
			Description:     fmt.Sprintf("Sales tax for invoice %s", salesInvoiceID),
			ReferenceType:   ReferenceTypeSalesInvoice,
			ReferenceID:     salesInvoiceID,
		})
	}

	req := dto.CreateEntryRequest{
		EntryDate:     time.Now().UTC(),
		Description:   fmt.Sprintf("Sales invoice %s (customer %s)", salesInvoiceID, customerID),
		SourceModule:  SourceModuleSales,
		ReferenceType: ReferenceTypeSalesInvoice,
		ReferenceID:   salesInvoiceID,
		Post:          true,
		Lines:         lines,
		IsSystem:      true,
	}

	entry, err := s.journalSvc.CreateEntry(ctx, req, actorOrSystem(actorID))
	if err != nil {
		logger.Error("Failed to create sales journal entry",
			slog.String("error", err.Error()),
			slog.String("sales_invoice_id", salesInvoiceID))
		return nil, err
	}

	logger.Info("Sales journal entry posted",
		slog.String("entry_number", entry.EntryNumber),
		slog.String("sales_invoice_id", salesInvoiceID),
		slog.String("total", totalAmount.String()))
	return entry, nil
}

// CreatePurchaseJournalEntry records a completed purchase invoice: cost of
// goods is debited net of tax, the recoverable tax portion is debited to tax
// payable and the full amount is credited to accounts payable.
func (s *integrationService) CreatePurchaseJournalEntry(ctx context.Context, purchaseInvoiceID, supplierID string, totalAmount, taxAmount decimal.Decimal, actorID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateDocumentAmounts(purchaseInvoiceID, totalAmount, taxAmount); err != nil {
		return nil, err
	}

	cogs, err := s.requireAccount(ctx, CodeCOGS)
	if err != nil {
		return nil, err
	}
	payable, err := s.requireAccount(ctx, CodeAccountsPayable)
	if err != nil {
		return nil, err
	}

	netAmount := totalAmount.Sub(taxAmount)
	lines := []dto.CreateEntryLineRequest{
		{
			DebitAccountID:  cogs.AccountID,
			CreditAccountID: payable.AccountID,
			Amount:          netAmount,
			Description:     fmt.Sprintf("Cost of goods for invoice %s", purchaseInvoiceID),
			ReferenceType:   ReferenceTypePurchaseInvoice,
			ReferenceID:     purchaseInvoiceID,
		},
	}
	if taxAmount.IsPositive() {
		taxPayable, err := s.requireAccount(ctx, CodeTaxPayable)
		if err != nil {
			return nil, err
		}
		lines = append(lines, dto.CreateEntryLineRequest{
			DebitAccountID:  taxPayable.AccountID,
			CreditAccountID: payable.AccountID,
			Amount:          taxAmount,
			Description:     fmt.Sprintf("Purchase tax for invoice %s", purchaseInvoiceID),
			ReferenceType:   ReferenceTypePurchaseInvoice,
			ReferenceID:     purchaseInvoiceID,
		})
	}

	req := dto.CreateEntryRequest{
		EntryDate:     time.Now().UTC(),
		Description:   fmt.Sprintf("Purchase invoice %s (supplier %s)", purchaseInvoiceID, supplierID),
		SourceModule:  SourceModulePurchasing,
		ReferenceType: ReferenceTypePurchaseInvoice,
		ReferenceID:   purchaseInvoiceID,
		Post:          true,
		Lines:         lines,
		IsSystem:      true,
	}

	entry, err := s.journalSvc.CreateEntry(ctx, req, actorOrSystem(actorID))
	if err != nil {
		logger.Error("Failed to create purchase journal entry",
			slog.String("error", err.Error()),
			slog.String("purchase_invoice_id", purchaseInvoiceID))
		return nil, err
	}

	logger.Info("Purchase journal entry posted",
		slog.String("entry_number", entry.EntryNumber),
		slog.String("purchase_invoice_id", purchaseInvoiceID),
		slog.String("total", totalAmount.String()))
	return entry, nil
}

func validateDocumentAmounts(referenceID string, totalAmount, taxAmount decimal.Decimal) error {
	if referenceID == "" {
		return fmt.Errorf("%w: reference document id is required", apperrors.ErrValidation)
	}
	if !totalAmount.IsPositive() {
		return fmt.Errorf("%w: total amount must be positive, got %s", apperrors.ErrValidation, totalAmount.String())
	}
	if taxAmount.IsNegative() {
		return fmt.Errorf("%w: tax amount cannot be negative, got %s", apperrors.ErrValidation, taxAmount.String())
	}
	if taxAmount.GreaterThanOrEqual(totalAmount) {
		return fmt.Errorf("%w: tax amount %s must be less than total amount %s", apperrors.ErrValidation, taxAmount.String(), totalAmount.String())
	}
	return nil
}

func (s *integrationService) requireAccount(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.accountSvc.GetAccountByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w %s: seed the default chart first", ErrSeedAccountMissing, code)
		}
		return nil, fmt.Errorf("failed to resolve account %s: %w", code, err)
	}
	return account, nil
}

func actorOrSystem(actorID string) string {
	if actorID == "" {
		return SystemActorID
	}
	return actorID
}
