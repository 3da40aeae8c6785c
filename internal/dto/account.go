package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/retailops/ledgercore/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new GL account.
type CreateAccountRequest struct {
	AccountCode     string             `json:"accountCode" binding:"required"`
	Name            string             `json:"name" binding:"required"`
	AccountType     domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	ParentAccountID *string            `json:"parentAccountID"` // Optional, pointer for nullability
	Description     string             `json:"description"`     // Optional
	// IsSystem is set internally by the seeder, never from a request body.
	IsSystem bool `json:"-"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Pointers distinguish zero-value updates from fields not provided.
type UpdateAccountRequest struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	IsActive        *bool   `json:"isActive"`
	ParentAccountID *string `json:"parentAccountID"` // Empty string detaches from the parent
}

// AccountResponse defines the data returned for an account node.
type AccountResponse struct {
	AccountID       string                  `json:"accountID"`
	AccountCode     string                  `json:"accountCode"`
	Name            string                  `json:"name"`
	Description     string                  `json:"description"`
	AccountType     domain.AccountType      `json:"accountType"`
	ParentAccountID string                  `json:"parentAccountID"` // Empty string if root
	IsActive        bool                    `json:"isActive"`
	IsSystem        bool                    `json:"isSystem"`
	DebitBalance    decimal.Decimal         `json:"debitBalance"`
	CreditBalance   decimal.Decimal         `json:"creditBalance"`
	NetBalance      decimal.Decimal         `json:"netBalance"`
	Parent          *domain.AccountSummary  `json:"parent,omitempty"`
	Children        []domain.AccountSummary `json:"children"`
	CreatedAt       time.Time               `json:"createdAt"`
	CreatedBy       string                  `json:"createdBy"`
	LastUpdatedAt   time.Time               `json:"lastUpdatedAt"`
	LastUpdatedBy   string                  `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.AccountNode to its response DTO.
func ToAccountResponse(node *domain.AccountNode) AccountResponse {
	children := node.Children
	if children == nil {
		children = []domain.AccountSummary{}
	}
	return AccountResponse{
		AccountID:       node.AccountID,
		AccountCode:     node.AccountCode,
		Name:            node.Name,
		Description:     node.Description,
		AccountType:     node.AccountType,
		ParentAccountID: node.ParentAccountID,
		IsActive:        node.IsActive,
		IsSystem:        node.IsSystem,
		DebitBalance:    node.DebitBalance,
		CreditBalance:   node.CreditBalance,
		NetBalance:      node.NetBalance(),
		Parent:          node.Parent,
		Children:        children,
		CreatedAt:       node.CreatedAt,
		CreatedBy:       node.CreatedBy,
		LastUpdatedAt:   node.LastUpdatedAt,
		LastUpdatedBy:   node.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of account nodes.
func ToListAccountResponse(nodes []domain.AccountNode) []AccountResponse {
	res := make([]AccountResponse, len(nodes))
	for i := range nodes {
		res[i] = ToAccountResponse(&nodes[i])
	}
	return res
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	IncludeInactive bool    `form:"includeInactive,default=false"`
	AccountType     *string `form:"accountType"`
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// AccountPathResponse carries the hierarchy position of an account.
type AccountPathResponse struct {
	AccountID string   `json:"accountID"`
	Level     int      `json:"level"`
	Path      []string `json:"path"` // Root-first account names
}
