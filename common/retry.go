package common

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultBroadcastAttempts = 3
	DefaultRetryInterval     = 500 * time.Millisecond
)

// RetryTransient runs op up to attempts times. Only errors matching
// ErrTransientChain are retried; anything else is returned after the first try.
func RetryTransient[T any](ctx context.Context, attempts uint, interval time.Duration, op func() (T, error)) (T, error) {
	if attempts == 0 {
		attempts = DefaultBroadcastAttempts
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = interval
	b.MaxInterval = 8 * interval

	tries := uint(0)
	res, err := backoff.Retry(ctx, func() (T, error) {
		tries++
		res, err := op()
		if err != nil && !errors.Is(err, ErrTransientChain) {
			return res, backoff.Permanent(err)
		}
		return res, err
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(attempts),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.WithField("attempt", tries).Warn("[RETRY] Retrying after transient error in ", next, ": ", err)
		}),
	)

	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		err = permanent.Unwrap()
	}
	return res, err
}
