package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionState is the lifecycle state of an impersonation grant.
// Expiry is detected lazily on read and never persisted as a distinct
// state; "ended" and "expired" are both terminal.
type SessionState string

const (
	SessionStateIssued  SessionState = "issued"
	SessionStateEnded   SessionState = "ended"
	SessionStateExpired SessionState = "expired"
)

// SessionEvent triggers a session state transition.
type SessionEvent string

const (
	SessionEventRevoke SessionEvent = "revoke"
	SessionEventExpire SessionEvent = "expire"
)

// SessionTransition defines a valid state change for a view-as session.
type SessionTransition struct {
	Event SessionEvent
	Src   SessionState
	Dst   SessionState
}

// SessionTransitions defines all valid session state changes. There is
// no path out of "ended" or "expired" back to "issued".
var SessionTransitions = []SessionTransition{
	{Event: SessionEventRevoke, Src: SessionStateIssued, Dst: SessionStateEnded},
	{Event: SessionEventExpire, Src: SessionStateIssued, Dst: SessionStateExpired},
}

// ViewAsSession is a time-limited grant allowing a super-admin to act
// in the context of a specific user of a specific account. Superseded
// records are never reused.
type ViewAsSession struct {
	Base
	SuperAdminID     uuid.UUID `json:"superAdminId" db:"super_admin_id"`
	ViewingAccountID uuid.UUID `json:"viewingAccountId" db:"viewing_account_id"`
	ViewingUserID    uuid.UUID `json:"viewingUserId" db:"viewing_user_id"`
	SessionToken     string    `json:"sessionToken" db:"session_token"`
	ExpiresAt        time.Time `json:"expiresAt" db:"expires_at"`
	IsActive         bool      `json:"isActive" db:"is_active"`
}

// State derives the lifecycle state at the given instant.
func (s *ViewAsSession) State(now time.Time) SessionState {
	if !s.IsActive {
		return SessionStateEnded
	}
	if !s.ExpiresAt.After(now) {
		return SessionStateExpired
	}
	return SessionStateIssued
}

// ViewAsGrant is the issue-time summary returned to the caller.
type ViewAsGrant struct {
	SessionToken string    `json:"sessionToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	AccountName  string    `json:"accountName"`
	UserName     string    `json:"userName"`
	UserRole     UserRole  `json:"userRole"`
}

// ViewAsContext is the resolved account/user snapshot for an active
// session.
type ViewAsContext struct {
	Session *ViewAsSession `json:"session"`
	Account *Account       `json:"account"`
	User    *AppUser       `json:"user"`
}
