package core

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/huangsam/birkin/schema"
)

// fakeSource counts fetches and optionally blocks until released.
type fakeSource struct {
	calls   atomic.Int32
	result  schema.FetchResult
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newFakeSource(result schema.FetchResult) *fakeSource {
	return &fakeSource{result: result}
}

func (f *fakeSource) Fetch(ctx context.Context) schema.FetchResult {
	f.calls.Add(1)
	if f.entered != nil {
		f.once.Do(func() { close(f.entered) })
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return schema.FetchResult{Data: schema.PriceDataset{}, Err: ctx.Err()}
		}
	}
	return f.result
}

// failingCache always misses and refuses writes.
type failingCache struct{}

func (failingCache) Get() (*schema.CacheEnvelope, bool) { return nil, false }
func (failingCache) Set(schema.CacheEnvelope) error     { return errors.New("disk full") }

// recordingSleep captures requested delays without waiting.
type recordingSleep struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *recordingSleep) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.delays = append(r.delays, d)
	r.mu.Unlock()
	return ctx.Err()
}

func sampleDataset() schema.PriceDataset {
	return schema.PriceDataset{
		schema.Birkin25: {
			schema.Palladium: {
				schema.PreciousSkin: {
					{Year: 2020, Price: 10000},
					{Year: 2021, Month: "June", Price: 12000},
					{Year: 2021, Month: "June 2021", Price: 12500},
					{Year: 2024, Price: 15000},
				},
			},
			schema.BrushedGold: {
				schema.CollectorLE: {{Year: 2024, Price: 10000}},
			},
		},
	}
}

var (
	day1 = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	day2 = time.Date(2025, 3, 15, 0, 0, 1, 0, time.UTC)
)
