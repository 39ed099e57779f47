package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tutorlink/backend/internal/model"
)

func TestPointsDebitAndCredit(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	student := env.newStudent(100)

	err := env.ledger.Debit(ctx, nil, student.ID, 40, model.ReasonEscrowHold, "ref-1")
	require.NoError(t, err)
	assert.Equal(t, 60, env.balance(student.ID))

	err = env.ledger.Credit(ctx, nil, student.ID, 15, model.ReasonEscrowRefund, "ref-1")
	require.NoError(t, err)
	assert.Equal(t, 75, env.balance(student.ID))

	history, err := env.ledger.GetHistory(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, model.LedgerEntryDebit, history[0].Entry)
	assert.Equal(t, 60, history[0].BalanceAfter)
	assert.Equal(t, model.LedgerEntryCredit, history[1].Entry)
	assert.Equal(t, 75, history[1].BalanceAfter)
	assert.Equal(t, "ref-1", history[1].Reference)
}

func TestPointsDebit_Insufficient(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	student := env.newStudent(10)

	err := env.ledger.Debit(ctx, nil, student.ID, 30, model.ReasonEscrowHold, "")
	assert.ErrorIs(t, err, ErrInsufficientPoints)
	assert.Equal(t, 10, env.balance(student.ID))

	history, err := env.ledger.GetHistory(ctx, student.ID)
	require.NoError(t, err)
	assert.Empty(t, history, "a refused debit leaves no audit row")
}

func TestPointsDebit_ExactBalance(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	student := env.newStudent(30)

	err := env.ledger.Debit(ctx, nil, student.ID, 30, model.ReasonEscrowHold, "")
	require.NoError(t, err)
	assert.Equal(t, 0, env.balance(student.ID))
}

func TestPointsAmountMustBePositive(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	student := env.newStudent(100)

	var ve *ValidationError
	assert.ErrorAs(t, env.ledger.Debit(ctx, nil, student.ID, 0, model.ReasonEscrowHold, ""), &ve)
	assert.ErrorAs(t, env.ledger.Credit(ctx, nil, student.ID, -5, model.ReasonEscrowRefund, ""), &ve)
	assert.Equal(t, 100, env.balance(student.ID))
}

func TestPointsCredit_UnknownParty(t *testing.T) {
	env := newTestEnv()

	err := env.ledger.Credit(context.Background(), nil, 9999, 10, model.ReasonPurchase, "")
	assert.ErrorIs(t, err, ErrPartyNotFound)
}

func TestHasSufficientPoints(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	student := env.newStudent(50)

	ok, err := env.ledger.HasSufficientPoints(ctx, student.ID, 50)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = env.ledger.HasSufficientPoints(ctx, student.ID, 51)
	require.NoError(t, err)
	assert.False(t, ok)
}
