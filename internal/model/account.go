package model

import (
	"time"

	"github.com/google/uuid"
)

// AccountType distinguishes standalone businesses from franchise parents.
type AccountType string

const (
	AccountTypeIndividual AccountType = "individual"
	AccountTypeFranchise  AccountType = "franchise"
)

func (t AccountType) Valid() bool {
	return t == AccountTypeIndividual || t == AccountTypeFranchise
}

// BillingStatus is the subscription axis of an account. Operator
// suspension is tracked separately on AccountStatus.
type BillingStatus string

const (
	BillingStatusTrial     BillingStatus = "trial"
	BillingStatusActive    BillingStatus = "active"
	BillingStatusPastDue   BillingStatus = "past_due"
	BillingStatusCancelled BillingStatus = "cancelled"
)

func (s BillingStatus) Valid() bool {
	switch s {
	case BillingStatusTrial, BillingStatusActive, BillingStatusPastDue, BillingStatusCancelled:
		return true
	}
	return false
}

// AccountStatus is the operator axis, independent of billing.
type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "active"
	AccountStatusSuspended AccountStatus = "suspended"
)

func (s AccountStatus) Valid() bool {
	return s == AccountStatusActive || s == AccountStatusSuspended
}

// AccountLimits is the quota snapshot captured from the plan at
// assignment time. Embedded flat into the accounts table.
type AccountLimits struct {
	MaxUsers       int `json:"maxUsers" db:"max_users"`
	MaxSubAccounts int `json:"maxSubAccounts" db:"max_sub_accounts"`
}

// Account is a billable tenant: an individual business or a franchise
// parent. Sub-accounts reference a franchise parent via ParentID.
// Accounts are never hard-deleted.
type Account struct {
	Base
	Name        string        `json:"name" db:"name"`
	Slug        string        `json:"slug" db:"slug"`
	Type        AccountType   `json:"type" db:"type"`
	ParentID    *uuid.UUID    `json:"parentId" db:"parent_id"`
	PlanID      uuid.UUID     `json:"planId" db:"plan_id"`
	PlanStatus  BillingStatus `json:"planStatus" db:"plan_status"`
	TrialEndsAt *time.Time    `json:"trialEndsAt" db:"trial_ends_at"`
	Status      AccountStatus `json:"status" db:"status"`
	Location    *string       `json:"location" db:"location"`
	AccountLimits
}

// TrialAction is an operation on the trial/billing state machine.
type TrialAction string

const (
	TrialActionExtend       TrialAction = "extend"
	TrialActionEnd          TrialAction = "end"
	TrialActionRestart      TrialAction = "restart"
	TrialActionSetCustomEnd TrialAction = "set_custom_end"
)

func (a TrialAction) Valid() bool {
	switch a {
	case TrialActionExtend, TrialActionEnd, TrialActionRestart, TrialActionSetCustomEnd:
		return true
	}
	return false
}

// TrialActionParams carries the action-specific parameters. Which field
// is required depends on the action; the transition function rejects
// missing parameters before computing anything.
type TrialActionParams struct {
	ExtensionDays *int       `json:"extensionDays"`
	TrialEndsAt   *time.Time `json:"trialEndsAt"`
}

// AdminProfile is the first-user profile supplied to provisioning.
type AdminProfile struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// ProvisionAccountRequest is the input to the provisioning workflow.
type ProvisionAccountRequest struct {
	Type      AccountType  `json:"type"`
	Name      string       `json:"name"`
	PlanID    uuid.UUID    `json:"planId"`
	ParentID  *uuid.UUID   `json:"parentId"`
	Location  *string      `json:"location"`
	TrialDays int          `json:"trialDays"`
	Admin     AdminProfile `json:"admin"`
}

// AccountUpdate carries the mutable profile fields of an account. Nil
// fields are left untouched.
type AccountUpdate struct {
	Name     *string        `json:"name"`
	Location *string        `json:"location"`
	Status   *AccountStatus `json:"status"`
}

// AccountFilters narrows account listings.
type AccountFilters struct {
	Type     AccountType
	Status   AccountStatus
	ParentID *uuid.UUID
	Pagination
}
