package ledger

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	lock "github.com/square/mongo-lock"
	"github.com/stretchr/testify/assert"

	log "github.com/sirupsen/logrus"

	"github.com/dan13ram/dfc-bridge-settler/app/mocks"
	"github.com/dan13ram/dfc-bridge-settler/confirm"
	"github.com/dan13ram/dfc-bridge-settler/models"
)

func init() {
	log.SetOutput(io.Discard)
}

var testNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

type fakeTracker struct {
	result confirm.Result
	err    error
	calls  int
}

func (f *fakeTracker) Evaluate(ctx context.Context, txHash string, chain models.ChainType) (confirm.Result, error) {
	f.calls++
	return f.result, f.err
}

func (f *fakeTracker) Required(chain models.ChainType) int64 {
	return f.result.Required
}

func NewTestLedger(t *testing.T, mockDB *mocks.MockDatabase, tracker confirm.Tracker) *Ledger {
	l := NewLedger(mockDB, tracker)
	l.now = func() time.Time { return testNow }
	return l
}

func TestLock(t *testing.T) {

	t.Run("Acquired", func(t *testing.T) {
		mockDB := mocks.NewMockDatabase(t)
		l := NewTestLedger(t, mockDB, nil)

		mockDB.EXPECT().XLock("bridge_deposits/0x01").Return("lockId", nil).Once()
		mockDB.EXPECT().Unlock("lockId").Return(nil).Once()

		unlock, err := l.Lock(context.Background(), "bridge_deposits/0x01")
		assert.Nil(t, err)
		unlock()
	})

	t.Run("Waits for holder", func(t *testing.T) {
		mockDB := mocks.NewMockDatabase(t)
		l := NewTestLedger(t, mockDB, nil)

		mockDB.EXPECT().XLock("claims/key").Return("", lock.ErrAlreadyLocked).Twice()
		mockDB.EXPECT().XLock("claims/key").Return("lockId", nil).Once()
		mockDB.EXPECT().Unlock("lockId").Return(errors.New("error")).Once()

		unlock, err := l.Lock(context.Background(), "claims/key")
		assert.Nil(t, err)
		unlock()
	})

	t.Run("Database error is not retried", func(t *testing.T) {
		mockDB := mocks.NewMockDatabase(t)
		l := NewTestLedger(t, mockDB, nil)

		mockDB.EXPECT().XLock("claims/key").Return("", errors.New("connection refused")).Once()

		unlock, err := l.Lock(context.Background(), "claims/key")
		assert.Nil(t, unlock)
		assert.EqualError(t, err, "connection refused")
	})

	t.Run("Context cancelled while waiting", func(t *testing.T) {
		mockDB := mocks.NewMockDatabase(t)
		l := NewTestLedger(t, mockDB, nil)

		ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
		defer cancel()
		mockDB.EXPECT().XLock("claims/key").Return("", lock.ErrAlreadyLocked)

		_, err := l.Lock(ctx, "claims/key")
		assert.NotNil(t, err)
	})
}
