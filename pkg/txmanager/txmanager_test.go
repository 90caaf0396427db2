package txmanager

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RentalService/pkg/dbmetrics"
)

func newManager(t *testing.T, opts ...Option) (*TransactionManager, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewTransactionManager(dbmetrics.Wrap(db, nil), opts...), mock
}

func TestTransactionManager_Do(t *testing.T) {
	ctx := context.Background()

	t.Run("Commit", func(t *testing.T) {
		tm, mock := newManager(t)

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE vehicles").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := tm.Do(ctx, func(txCtx context.Context) error {
			assert.True(t, dbmetrics.IsInTransaction(txCtx))
			_, err := dbmetrics.GetExecutor(txCtx, nil).ExecContext(txCtx, "UPDATE vehicles SET status = $1", "Rented")
			return err
		})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rollback on error", func(t *testing.T) {
		tm, mock := newManager(t)
		fnErr := errors.New("vehicle update failed")

		mock.ExpectBegin()
		mock.ExpectRollback()

		err := tm.Do(ctx, func(txCtx context.Context) error {
			return fnErr
		})

		assert.ErrorIs(t, err, fnErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Nested call reuses transaction", func(t *testing.T) {
		tm, mock := newManager(t)

		mock.ExpectBegin()
		mock.ExpectCommit()

		calls := 0
		err := tm.Do(ctx, func(txCtx context.Context) error {
			return tm.Do(txCtx, func(inner context.Context) error {
				calls++
				return nil
			})
		})

		require.NoError(t, err)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Begin failure", func(t *testing.T) {
		tm, mock := newManager(t)
		mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

		err := tm.Do(ctx, func(txCtx context.Context) error { return nil })

		assert.ErrorIs(t, err, ErrBeginTx)
	})
}

func TestTransactionManager_DoSerializable(t *testing.T) {
	ctx := context.Background()
	serializationErr := &pq.Error{Code: codeSerializationFailure}

	t.Run("Retries serialization failure", func(t *testing.T) {
		tm, mock := newManager(t, WithSerializationRetries(2))

		mock.ExpectBegin()
		mock.ExpectRollback()
		mock.ExpectBegin()
		mock.ExpectCommit()

		attempts := 0
		err := tm.DoSerializable(ctx, func(txCtx context.Context) error {
			attempts++
			if attempts == 1 {
				return fmt.Errorf("insert booking: %w", serializationErr)
			}
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 2, attempts)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Gives up after retries", func(t *testing.T) {
		tm, mock := newManager(t, WithSerializationRetries(1))

		mock.ExpectBegin()
		mock.ExpectRollback()
		mock.ExpectBegin()
		mock.ExpectRollback()

		attempts := 0
		err := tm.DoSerializable(ctx, func(txCtx context.Context) error {
			attempts++
			return serializationErr
		})

		assert.True(t, IsRetryable(err))
		assert.Equal(t, 2, attempts)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Business error is not retried", func(t *testing.T) {
		tm, mock := newManager(t)
		businessErr := errors.New("vehicle is not available")

		mock.ExpectBegin()
		mock.ExpectRollback()

		attempts := 0
		err := tm.DoSerializable(ctx, func(txCtx context.Context) error {
			attempts++
			return businessErr
		})

		assert.ErrorIs(t, err, businessErr)
		assert.Equal(t, 1, attempts)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&pq.Error{Code: codeSerializationFailure}))
	assert.True(t, IsRetryable(fmt.Errorf("wrapped: %w", &pq.Error{Code: codeDeadlockDetected})))
	assert.False(t, IsRetryable(&pq.Error{Code: "23505"}))
	assert.False(t, IsRetryable(errors.New("plain")))
	assert.False(t, IsRetryable(nil))
}
