package domain_test

import (
	"testing"

	"github.com/fastfill-network/matching-engine/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func TestNewCustodian(t *testing.T) {
	t.Parallel()

	custodian, err := domain.NewCustodian(owner, assistant, randomAddress())
	require.NoError(t, err)
	require.Equal(t, owner, custodian.Owner)
	require.Nil(t, custodian.PendingOwner)
	require.False(t, custodian.Paused)

	tests := []struct {
		name          string
		owner         domain.Address
		assistant     domain.Address
		feeRecipient  domain.Address
		expectedError error
	}{
		{"zero_owner", domain.Address{}, assistant, randomAddress(), domain.ErrInvalidNewOwner},
		{"zero_assistant", owner, domain.Address{}, randomAddress(), domain.ErrAssistantZeroAddress},
		{"zero_fee_recipient", owner, assistant, domain.Address{}, domain.ErrFeeRecipientZeroAddress},
	}
	for i := range tests {
		tt := tests[i]
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.NewCustodian(tt.owner, tt.assistant, tt.feeRecipient)
			require.ErrorIs(t, err, tt.expectedError)
		})
	}
}

func TestCustodianOwnershipTransfer(t *testing.T) {
	t.Parallel()

	newOwner := randomAddress()

	t.Run("submit_and_confirm", func(t *testing.T) {
		custodian := newTestCustodian()

		require.ErrorIs(t, custodian.SubmitOwnershipTransfer(assistant, newOwner), domain.ErrOwnerOnly)
		require.ErrorIs(t, custodian.SubmitOwnershipTransfer(owner, owner), domain.ErrAlreadyOwner)
		require.ErrorIs(t, custodian.SubmitOwnershipTransfer(owner, domain.Address{}), domain.ErrInvalidNewOwner)

		require.NoError(t, custodian.SubmitOwnershipTransfer(owner, newOwner))
		require.Equal(t, newOwner, *custodian.PendingOwner)

		require.ErrorIs(t, custodian.ConfirmOwnershipTransfer(stranger), domain.ErrNotPendingOwner)
		require.NoError(t, custodian.ConfirmOwnershipTransfer(newOwner))
		require.Equal(t, newOwner, custodian.Owner)
		require.Nil(t, custodian.PendingOwner)

		// The previous owner lost its privileges.
		require.ErrorIs(t, custodian.SubmitOwnershipTransfer(owner, owner), domain.ErrOwnerOnly)
	})

	t.Run("cancel", func(t *testing.T) {
		custodian := newTestCustodian()

		require.ErrorIs(t, custodian.CancelOwnershipTransfer(owner), domain.ErrNoTransferOwnershipRequest)
		require.NoError(t, custodian.SubmitOwnershipTransfer(owner, newOwner))
		require.ErrorIs(t, custodian.CancelOwnershipTransfer(assistant), domain.ErrOwnerOnly)
		require.NoError(t, custodian.CancelOwnershipTransfer(owner))
		require.Nil(t, custodian.PendingOwner)
		require.ErrorIs(t, custodian.ConfirmOwnershipTransfer(newOwner), domain.ErrNoTransferOwnershipRequest)
	})
}

func TestCustodianAdminUpdates(t *testing.T) {
	t.Parallel()

	t.Run("pause", func(t *testing.T) {
		custodian := newTestCustodian()

		require.ErrorIs(t, custodian.SetPause(stranger, true), domain.ErrOwnerOrAssistantOnly)
		require.NoError(t, custodian.SetPause(assistant, true))
		require.True(t, custodian.Paused)
		require.Equal(t, assistant, custodian.PausedSetBy)
		require.ErrorIs(t, custodian.RequireNotPaused(), domain.ErrPaused)

		require.NoError(t, custodian.SetPause(owner, false))
		require.NoError(t, custodian.RequireNotPaused())
	})

	t.Run("owner_assistant", func(t *testing.T) {
		custodian := newTestCustodian()
		newAssistant := randomAddress()

		require.ErrorIs(t, custodian.UpdateOwnerAssistant(assistant, newAssistant), domain.ErrOwnerOnly)
		require.ErrorIs(t, custodian.UpdateOwnerAssistant(owner, domain.Address{}), domain.ErrAssistantZeroAddress)
		require.NoError(t, custodian.UpdateOwnerAssistant(owner, newAssistant))
		require.Equal(t, newAssistant, custodian.OwnerAssistant)
	})

	t.Run("fee_recipient", func(t *testing.T) {
		custodian := newTestCustodian()
		feeRecipient := randomAddress()

		require.ErrorIs(t, custodian.UpdateFeeRecipient(stranger, feeRecipient), domain.ErrOwnerOrAssistantOnly)
		require.ErrorIs(t, custodian.UpdateFeeRecipient(assistant, domain.Address{}), domain.ErrFeeRecipientZeroAddress)
		require.NoError(t, custodian.UpdateFeeRecipient(assistant, feeRecipient))
		require.Equal(t, feeRecipient, custodian.FeeRecipientToken)
	})
}
