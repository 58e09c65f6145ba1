package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
	lock "github.com/square/mongo-lock"
	log "github.com/sirupsen/logrus"

	"github.com/dan13ram/dfc-bridge-settler/app"
	"github.com/dan13ram/dfc-bridge-settler/confirm"
)

const (
	lockRetryInterval = 100 * time.Millisecond
	lockMaxTries      = 20
)

// Ledger is the only writer of deposit, transfer and claim state. Every
// status write is conditioned on the value it was read with.
type Ledger struct {
	db      app.Database
	tracker confirm.Tracker
	now     func() time.Time
}

func NewLedger(db app.Database, tracker confirm.Tracker) *Ledger {
	return &Ledger{
		db:      db,
		tracker: tracker,
		now:     time.Now,
	}
}

// Lock takes the exclusive lock on resource, waiting while another holder
// has it. The returned func releases it.
func (l *Ledger) Lock(ctx context.Context, resource string) (func(), error) {
	operation := func() (string, error) {
		lockId, err := l.db.XLock(resource)
		if err != nil {
			if errors.Is(err, lock.ErrAlreadyLocked) {
				return "", err
			}
			return "", backoff.Permanent(err)
		}
		return lockId, nil
	}

	lockId, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewConstantBackOff(lockRetryInterval)),
		backoff.WithMaxTries(lockMaxTries),
	)
	if err != nil {
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			err = permanent.Unwrap()
		}
		return nil, err
	}

	unlock := func() {
		if err := l.db.Unlock(lockId); err != nil {
			log.WithField("resource", resource).Warn("[LEDGER] Error unlocking resource: ", err)
		}
	}
	return unlock, nil
}
