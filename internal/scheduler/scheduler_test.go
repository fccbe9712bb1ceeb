package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/huangsam/birkin/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunNow(t *testing.T) {
	fixed := time.Date(2025, 3, 14, 0, 5, 0, 0, time.UTC)
	var gotNow time.Time
	s := NewScheduler(context.Background(), func(_ context.Context, now time.Time) (*schema.LoadResult, error) {
		gotNow = now
		return &schema.LoadResult{Dataset: schema.PriceDataset{}, LastUpdated: "2025-03-14", Source: schema.NetworkSource}, nil
	})
	s.now = func() time.Time { return fixed }

	s.RunNow()
	assert.Equal(t, fixed, gotNow)
	assert.Equal(t, int64(1), s.Runs())
}

func TestRunNowError(t *testing.T) {
	s := NewScheduler(context.Background(), func(context.Context, time.Time) (*schema.LoadResult, error) {
		return nil, errors.New("canceled")
	})
	s.RunNow()
	assert.Equal(t, int64(1), s.Runs())
}

func TestRegister(t *testing.T) {
	s := NewScheduler(context.Background(), func(context.Context, time.Time) (*schema.LoadResult, error) {
		return &schema.LoadResult{}, nil
	})
	require.NoError(t, s.Register("0 5 0 * * *"))
	assert.Len(t, s.Cron.Entries(), 1)

	assert.Error(t, s.Register("not a spec"))
}

func TestScheduledRefreshFires(t *testing.T) {
	fired := make(chan struct{}, 4)
	s := NewScheduler(context.Background(), func(context.Context, time.Time) (*schema.LoadResult, error) {
		fired <- struct{}{}
		return &schema.LoadResult{Degraded: true, Reason: "status 503"}, nil
	})
	require.NoError(t, s.Register("* * * * * *"))
	s.Start()
	defer s.Stop()

	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("refresh task did not fire")
	}
	assert.False(t, s.Next().IsZero())
}
