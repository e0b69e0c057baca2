package model

// BillingPeriod is the plan billing cadence.
type BillingPeriod string

const (
	BillingPeriodMonthly BillingPeriod = "monthly"
	BillingPeriodYearly  BillingPeriod = "yearly"
)

func (p BillingPeriod) Valid() bool {
	return p == BillingPeriodMonthly || p == BillingPeriodYearly
}

// PlanStatus is the availability of a plan for new assignments.
type PlanStatus string

const (
	PlanStatusActive       PlanStatus = "active"
	PlanStatusInactive     PlanStatus = "inactive"
	PlanStatusDiscontinued PlanStatus = "discontinued"
)

func (s PlanStatus) Valid() bool {
	switch s {
	case PlanStatusActive, PlanStatusInactive, PlanStatusDiscontinued:
		return true
	}
	return false
}

// PlanFeatures is the quota block a plan provides. Accounts snapshot
// these values into AccountLimits at assignment time.
type PlanFeatures struct {
	MaxUsers       int `json:"maxUsers" db:"max_users"`
	MaxSubAccounts int `json:"maxSubAccounts" db:"max_sub_accounts"`
}

// Plan is a subscription tier. Its type must equal the type of any
// account it is assigned to; the type is immutable after creation.
type Plan struct {
	Base
	Name          string        `json:"name" db:"name"`
	Type          AccountType   `json:"type" db:"type"`
	PriceCents    int64         `json:"priceCents" db:"price_cents"`
	BillingPeriod BillingPeriod `json:"billingPeriod" db:"billing_period"`
	Status        PlanStatus    `json:"status" db:"status"`
	PlanFeatures
}

// PlanFilters narrows plan listings.
type PlanFilters struct {
	Type   AccountType
	Status PlanStatus
}
