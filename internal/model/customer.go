package model

import "github.com/google/uuid"

// CustomerStatus is the customer record state.
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
)

// Customer is an end customer of a tenant account. Customer records are
// plain CRUD with no invariants of their own; they reference accounts
// through the account read operations only.
type Customer struct {
	Base
	AccountID uuid.UUID      `json:"accountId" db:"account_id"`
	Email     string         `json:"email" db:"email"`
	Name      string         `json:"name" db:"name"`
	Phone     *string        `json:"phone" db:"phone"`
	Status    CustomerStatus `json:"status" db:"status"`
}

// CustomerFilters narrows customer listings.
type CustomerFilters struct {
	AccountID uuid.UUID
	Status    CustomerStatus
	Search    string
	Pagination
}
