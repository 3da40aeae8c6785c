package services

import "context"

// SeederSvcFacade exposes the idempotent default chart-of-accounts seeding.
type SeederSvcFacade interface {
	// SeedDefaultAccounts creates the minimal system chart, skipping any
	// account code that already exists. Safe to invoke on every bootstrap.
	SeedDefaultAccounts(ctx context.Context) error
}
