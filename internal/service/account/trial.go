package account

import (
	"time"

	"github.com/jwalitptl/loyalty-admin-api/internal/model"
	apperrors "github.com/jwalitptl/loyalty-admin-api/pkg/errors"
)

// DefaultTrialDays is the trial length used when a provisioning request
// or restart does not specify one.
const DefaultTrialDays = 14

// ApplyTrialAction computes the next (planStatus, trialEndsAt) pair for
// a trial action. It is a pure function: missing parameters fail before
// anything is computed, and the caller persists the returned pair.
func ApplyTrialAction(
	status model.BillingStatus,
	trialEndsAt *time.Time,
	action model.TrialAction,
	params model.TrialActionParams,
	now time.Time,
) (model.BillingStatus, *time.Time, error) {
	switch action {
	case model.TrialActionExtend:
		if params.ExtensionDays == nil || *params.ExtensionDays <= 0 {
			return "", nil, apperrors.Validation("extensionDays is required and must be positive", nil)
		}
		base := now
		if trialEndsAt != nil {
			base = *trialEndsAt
		}
		newEnd := base.AddDate(0, 0, *params.ExtensionDays)
		return model.BillingStatusTrial, &newEnd, nil

	case model.TrialActionEnd:
		newEnd := now
		return model.BillingStatusActive, &newEnd, nil

	case model.TrialActionRestart:
		newEnd := now.AddDate(0, 0, DefaultTrialDays)
		return model.BillingStatusTrial, &newEnd, nil

	case model.TrialActionSetCustomEnd:
		if params.TrialEndsAt == nil {
			return "", nil, apperrors.Validation("trialEndsAt is required", nil)
		}
		newEnd := *params.TrialEndsAt
		if newEnd.After(now) {
			return model.BillingStatusTrial, &newEnd, nil
		}
		return model.BillingStatusActive, &newEnd, nil

	default:
		return "", nil, apperrors.Validation("unknown trial action", nil)
	}
}
