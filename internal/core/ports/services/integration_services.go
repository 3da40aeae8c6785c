package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/retailops/ledgercore/internal/core/domain"
)

// IntegrationSvcFacade is the narrow surface consumed by the sales and
// purchasing modules: each call builds and immediately posts a system
// journal entry recognizing the financial effect of a completed document.
type IntegrationSvcFacade interface {
	CreateSalesJournalEntry(ctx context.Context, salesInvoiceID, customerID string, totalAmount, taxAmount decimal.Decimal, actorID string) (*domain.JournalEntry, error)
	CreatePurchaseJournalEntry(ctx context.Context, purchaseInvoiceID, supplierID string, totalAmount, taxAmount decimal.Decimal, actorID string) (*domain.JournalEntry, error)
}
