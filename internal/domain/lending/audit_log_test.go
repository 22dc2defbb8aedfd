package lending

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditAction_IsValid(t *testing.T) {
	assert.True(t, AuditActionCreate.IsValid())
	assert.True(t, AuditActionApprove.IsValid())
	assert.True(t, AuditActionReject.IsValid())
	assert.True(t, AuditActionUpdate.IsValid())
	assert.True(t, AuditActionStatusChange.IsValid())
	assert.False(t, AuditAction("DELETE").IsValid())
}

func TestNewApplicationLog(t *testing.T) {
	applicationID := uuid.New()
	actorID := uuid.New()

	t.Run("creates entry with status change", func(t *testing.T) {
		before := ApplicationStatusPendingMarketing
		after := ApplicationStatusPendingBranchManager

		log, err := NewApplicationLog(applicationID, actorID, AuditActionApprove, &before, &after, "marketing stage")
		require.NoError(t, err)

		assert.Equal(t, applicationID, log.ApplicationID)
		assert.Equal(t, actorID, log.ActorID)
		assert.Equal(t, AuditActionApprove, log.Action)
		assert.Equal(t, before, *log.BeforeStatus)
		assert.Equal(t, after, *log.AfterStatus)
		assert.Equal(t, "marketing stage", log.Detail)
		assert.False(t, log.CreatedAt.IsZero())
	})

	t.Run("create entry needs no before status", func(t *testing.T) {
		after := ApplicationStatusPendingMarketing
		log, err := NewApplicationLog(applicationID, actorID, AuditActionCreate, nil, &after, "")
		require.NoError(t, err)
		assert.Nil(t, log.BeforeStatus)
	})

	t.Run("rejects empty application", func(t *testing.T) {
		_, err := NewApplicationLog(uuid.Nil, actorID, AuditActionCreate, nil, nil, "")
		assert.Error(t, err)
	})

	t.Run("rejects empty actor", func(t *testing.T) {
		_, err := NewApplicationLog(applicationID, uuid.Nil, AuditActionCreate, nil, nil, "")
		assert.Error(t, err)
	})

	t.Run("rejects invalid action", func(t *testing.T) {
		_, err := NewApplicationLog(applicationID, actorID, AuditAction("PURGE"), nil, nil, "")
		assert.Error(t, err)
	})
}

func TestNewLoanLog(t *testing.T) {
	loanID := uuid.New()
	actorID := uuid.New()

	t.Run("creates entry", func(t *testing.T) {
		log, err := NewLoanLog(loanID, actorID, AuditActionCreate, "disbursed")
		require.NoError(t, err)

		assert.Equal(t, loanID, log.LoanID)
		assert.Equal(t, AuditActionCreate, log.Action)
		assert.Equal(t, "disbursed", log.Detail)
		assert.Empty(t, log.Field)
	})

	t.Run("rejects empty loan", func(t *testing.T) {
		_, err := NewLoanLog(uuid.Nil, actorID, AuditActionCreate, "")
		assert.Error(t, err)
	})
}

func TestNewLoanFieldLog(t *testing.T) {
	loanID := uuid.New()
	actorID := uuid.New()

	t.Run("records field with old and new values", func(t *testing.T) {
		log, err := NewLoanFieldLog(loanID, actorID, FieldChange{
			Field:    "installment",
			OldValue: "106618.55",
			NewValue: "110000.00",
		})
		require.NoError(t, err)

		assert.Equal(t, AuditActionUpdate, log.Action)
		assert.Equal(t, "installment", log.Field)
		assert.Equal(t, "106618.55", log.OldValue)
		assert.Equal(t, "110000.00", log.NewValue)
	})

	t.Run("rejects empty field name", func(t *testing.T) {
		_, err := NewLoanFieldLog(loanID, actorID, FieldChange{})
		assert.Error(t, err)
	})
}
