package confirm

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	log "github.com/sirupsen/logrus"

	"github.com/dan13ram/dfc-bridge-settler/common"
	"github.com/dan13ram/dfc-bridge-settler/models"
)

func init() {
	log.SetOutput(io.Discard)
}

type fakeReader struct {
	height       int64
	inclusion    Inclusion
	heightErr    error
	inclusionErr error
	delay        time.Duration
}

func (f *fakeReader) wait(ctx context.Context) error {
	if f.delay == 0 {
		return nil
	}
	select {
	case <-time.After(f.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeReader) GetBlockHeight(ctx context.Context) (int64, error) {
	if err := f.wait(ctx); err != nil {
		return 0, err
	}
	return f.height, f.heightErr
}

func (f *fakeReader) GetInclusion(ctx context.Context, txHash string) (Inclusion, error) {
	if err := f.wait(ctx); err != nil {
		return Inclusion{}, err
	}
	return f.inclusion, f.inclusionErr
}

var testThresholds = models.ConfirmationsConfig{Ethereum: 65, DefiChain: 35}

func newTestTracker(eth ChainReader, dfc ChainReader) Tracker {
	return NewTracker(Config{
		Thresholds: testThresholds,
		Timeouts: map[models.ChainType]time.Duration{
			models.ChainTypeEthereum:  50 * time.Millisecond,
			models.ChainTypeDefiChain: 50 * time.Millisecond,
		},
	}, map[models.ChainType]ChainReader{
		models.ChainTypeEthereum:  eth,
		models.ChainTypeDefiChain: dfc,
	})
}

func TestClassify(t *testing.T) {
	testCases := []struct {
		name          string
		inclusion     Inclusion
		currentHeight int64
		expected      State
		confirmations int64
	}{
		{"Not included", Inclusion{}, 100, StatePending, 0},
		{"Reverted", Inclusion{Found: true, Failed: true, Height: 10}, 100, StateReverted, 0},
		{"Reverted stays reverted past threshold", Inclusion{Found: true, Failed: true, Height: 10}, 1000, StateReverted, 0},
		{"Under confirmed", Inclusion{Found: true, Height: 100}, 164, StateUnderConfirmed, 64},
		{"Exactly confirmed", Inclusion{Found: true, Height: 100}, 165, StateConfirmed, 65},
		{"Tip behind inclusion", Inclusion{Found: true, Height: 100}, 90, StateUnderConfirmed, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := Classify(tc.inclusion, tc.currentHeight, 65)
			assert.Equal(t, tc.expected, result.State)
			assert.Equal(t, tc.confirmations, result.Confirmations)
			assert.Equal(t, int64(65), result.Required)
		})
	}
}

func TestClassifyMonotone(t *testing.T) {
	inclusion := Inclusion{Found: true, Height: 1000}
	for _, required := range []int64{0, 1, 35, 65} {
		var last int64 = -1
		for current := int64(900); current < 1200; current++ {
			result := Classify(inclusion, current, required)
			assert.GreaterOrEqual(t, result.Confirmations, last)
			last = result.Confirmations
			if result.State == StateConfirmed {
				assert.GreaterOrEqual(t, result.Confirmations, required)
			} else {
				assert.Less(t, result.Confirmations, required)
			}
		}
	}
}

func TestEvaluate(t *testing.T) {

	t.Run("Uses per chain thresholds", func(t *testing.T) {
		reader := &fakeReader{height: 140, inclusion: Inclusion{Found: true, Height: 100, BlockHash: "0xblock"}}
		tracker := newTestTracker(reader, reader)

		result, err := tracker.Evaluate(context.Background(), "0x01", models.ChainTypeEthereum)
		assert.Nil(t, err)
		assert.Equal(t, StateUnderConfirmed, result.State)
		assert.Equal(t, int64(40), result.Confirmations)
		assert.Equal(t, int64(65), result.Required)
		assert.Equal(t, "0xblock", result.BlockHash)

		result, err = tracker.Evaluate(context.Background(), "0x01", models.ChainTypeDefiChain)
		assert.Nil(t, err)
		assert.Equal(t, StateConfirmed, result.State)
		assert.True(t, result.IsConfirmed())
		assert.Equal(t, int64(35), result.Required)
	})

	t.Run("Pending", func(t *testing.T) {
		tracker := newTestTracker(&fakeReader{height: 140}, nil)

		result, err := tracker.Evaluate(context.Background(), "0x01", models.ChainTypeEthereum)
		assert.Nil(t, err)
		assert.Equal(t, StatePending, result.State)
	})

	t.Run("Timeout is pending", func(t *testing.T) {
		reader := &fakeReader{height: 1000, inclusion: Inclusion{Found: true, Height: 1}, delay: time.Second}
		tracker := newTestTracker(reader, nil)

		result, err := tracker.Evaluate(context.Background(), "0x01", models.ChainTypeEthereum)
		assert.Nil(t, err)
		assert.Equal(t, StatePending, result.State)
	})

	t.Run("Timeout is per chain", func(t *testing.T) {
		slow := &fakeReader{height: 1000, inclusion: Inclusion{Found: true, Height: 1}, delay: 200 * time.Millisecond}
		tracker := NewTracker(Config{
			Thresholds: testThresholds,
			Timeouts: map[models.ChainType]time.Duration{
				models.ChainTypeEthereum:  50 * time.Millisecond,
				models.ChainTypeDefiChain: time.Second,
			},
		}, map[models.ChainType]ChainReader{
			models.ChainTypeEthereum:  slow,
			models.ChainTypeDefiChain: slow,
		})

		result, err := tracker.Evaluate(context.Background(), "0x01", models.ChainTypeEthereum)
		assert.Nil(t, err)
		assert.Equal(t, StatePending, result.State)

		result, err = tracker.Evaluate(context.Background(), "0x01", models.ChainTypeDefiChain)
		assert.Nil(t, err)
		assert.Equal(t, StateConfirmed, result.State)
	})

	t.Run("Chain error is transient", func(t *testing.T) {
		reader := &fakeReader{inclusion: Inclusion{Found: true, Height: 1}, heightErr: errors.New("connection refused")}
		tracker := newTestTracker(reader, nil)

		_, err := tracker.Evaluate(context.Background(), "0x01", models.ChainTypeEthereum)
		assert.True(t, errors.Is(err, common.ErrTransientChain))
	})

	t.Run("Unknown chain", func(t *testing.T) {
		tracker := NewTracker(Config{Thresholds: testThresholds}, map[models.ChainType]ChainReader{})

		_, err := tracker.Evaluate(context.Background(), "0x01", models.ChainTypeEthereum)
		assert.NotNil(t, err)
	})
}
