package account

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/loyalty-admin-api/internal/model"
	apperrors "github.com/jwalitptl/loyalty-admin-api/pkg/errors"
)

func TestApplyTrialAction_Extend(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	days := 7

	t.Run("extends from current trial end", func(t *testing.T) {
		end := now.AddDate(0, 0, 3)
		status, newEnd, err := ApplyTrialAction(
			model.BillingStatusTrial, &end,
			model.TrialActionExtend, model.TrialActionParams{ExtensionDays: &days}, now)

		require.NoError(t, err)
		assert.Equal(t, model.BillingStatusTrial, status)
		assert.Equal(t, end.AddDate(0, 0, days), *newEnd)
	})

	t.Run("extends from now when no trial end is set", func(t *testing.T) {
		status, newEnd, err := ApplyTrialAction(
			model.BillingStatusActive, nil,
			model.TrialActionExtend, model.TrialActionParams{ExtensionDays: &days}, now)

		require.NoError(t, err)
		assert.Equal(t, model.BillingStatusTrial, status)
		assert.Equal(t, now.AddDate(0, 0, days), *newEnd)
	})

	t.Run("requires positive extensionDays", func(t *testing.T) {
		zero := 0
		_, _, err := ApplyTrialAction(
			model.BillingStatusTrial, nil,
			model.TrialActionExtend, model.TrialActionParams{ExtensionDays: &zero}, now)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

		_, _, err = ApplyTrialAction(
			model.BillingStatusTrial, nil,
			model.TrialActionExtend, model.TrialActionParams{}, now)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})
}

func TestApplyTrialAction_End(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	end := now.AddDate(0, 0, 10)

	status, newEnd, err := ApplyTrialAction(
		model.BillingStatusTrial, &end,
		model.TrialActionEnd, model.TrialActionParams{}, now)

	require.NoError(t, err)
	assert.Equal(t, model.BillingStatusActive, status)
	assert.Equal(t, now, *newEnd)
}

func TestApplyTrialAction_Restart(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	status, newEnd, err := ApplyTrialAction(
		model.BillingStatusCancelled, nil,
		model.TrialActionRestart, model.TrialActionParams{}, now)

	require.NoError(t, err)
	assert.Equal(t, model.BillingStatusTrial, status)
	assert.Equal(t, now.AddDate(0, 0, DefaultTrialDays), *newEnd)
}

func TestApplyTrialAction_SetCustomEnd(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("future date keeps the account in trial", func(t *testing.T) {
		future := now.AddDate(0, 1, 0)
		status, newEnd, err := ApplyTrialAction(
			model.BillingStatusActive, nil,
			model.TrialActionSetCustomEnd, model.TrialActionParams{TrialEndsAt: &future}, now)

		require.NoError(t, err)
		assert.Equal(t, model.BillingStatusTrial, status)
		assert.Equal(t, future, *newEnd)
	})

	t.Run("past date activates the account", func(t *testing.T) {
		past := now.AddDate(0, -1, 0)
		status, newEnd, err := ApplyTrialAction(
			model.BillingStatusTrial, nil,
			model.TrialActionSetCustomEnd, model.TrialActionParams{TrialEndsAt: &past}, now)

		require.NoError(t, err)
		assert.Equal(t, model.BillingStatusActive, status)
		assert.Equal(t, past, *newEnd)
	})

	t.Run("requires trialEndsAt", func(t *testing.T) {
		_, _, err := ApplyTrialAction(
			model.BillingStatusTrial, nil,
			model.TrialActionSetCustomEnd, model.TrialActionParams{}, now)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})
}

func TestApplyTrialAction_UnknownAction(t *testing.T) {
	now := time.Now()
	_, _, err := ApplyTrialAction(
		model.BillingStatusTrial, nil,
		model.TrialAction("freeze"), model.TrialActionParams{}, now)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}
