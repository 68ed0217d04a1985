package history

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"netpulse/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSeries is an in-memory SeriesStore with optional fault injection
type fakeSeries struct {
	series map[string][]domain.Sample

	appendErr error
	loadErr   error
	appended  chan string
}

func newFakeSeries() *fakeSeries {
	return &fakeSeries{
		series:   make(map[string][]domain.Sample),
		appended: make(chan string, 128),
	}
}

func (f *fakeSeries) AppendSample(ctx context.Context, resourceID string, sample domain.Sample) error {
	if f.appendErr != nil {
		f.appended <- resourceID
		return f.appendErr
	}
	f.series[resourceID] = append(f.series[resourceID], sample)
	f.appended <- resourceID
	return nil
}

func (f *fakeSeries) LoadSeries(ctx context.Context, resourceID string, limit int) ([]domain.Sample, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	s := f.series[resourceID]
	if len(s) > limit {
		s = s[len(s)-limit:]
	}
	out := make([]domain.Sample, len(s))
	copy(out, s)
	return out, nil
}

func (f *fakeSeries) LastValue(ctx context.Context, resourceID string) (float64, bool, error) {
	if f.loadErr != nil {
		return 0, false, f.loadErr
	}
	s := f.series[resourceID]
	if len(s) == 0 {
		return 0, false, nil
	}
	return s[len(s)-1].Value, true, nil
}

func (f *fakeSeries) Close() error { return nil }

func sampleAt(i int) domain.Sample {
	return domain.Sample{
		Timestamp: time.Date(2026, 8, 30, 0, 0, i, 0, time.UTC),
		Value:     float64(i),
	}
}

func TestAppendTrimsToCap(t *testing.T) {
	s := NewStore(nil)

	var last []domain.Sample
	for i := 0; i < domain.HistoryCap+1; i++ {
		last = s.Append("net/a", sampleAt(i))
	}

	require.Len(t, last, domain.HistoryCap)
	// Oldest sample evicted, order preserved
	assert.Equal(t, 1.0, last[0].Value)
	assert.Equal(t, float64(domain.HistoryCap), last[len(last)-1].Value)
	for i := 1; i < len(last); i++ {
		assert.True(t, last[i].Timestamp.After(last[i-1].Timestamp), "history must stay chronological")
	}
}

func TestAppendReturnsIndependentCopy(t *testing.T) {
	s := NewStore(nil)

	first := s.Append("net/a", sampleAt(0))
	s.Append("net/a", sampleAt(1))

	require.Len(t, first, 1)
	assert.Equal(t, 0.0, first[0].Value)
}

func TestMostRecentValue(t *testing.T) {
	t.Run("from memory", func(t *testing.T) {
		s := NewStore(nil)
		s.Append("net/a", sampleAt(3))
		s.Append("net/a", sampleAt(7))

		v, ok := s.MostRecentValue(context.Background(), "net/a")
		require.True(t, ok)
		assert.Equal(t, 7.0, v)
	})

	t.Run("unknown resource", func(t *testing.T) {
		s := NewStore(nil)
		_, ok := s.MostRecentValue(context.Background(), "net/missing")
		assert.False(t, ok)
	})

	t.Run("from durable store", func(t *testing.T) {
		fake := newFakeSeries()
		fake.series["net/a"] = []domain.Sample{sampleAt(1), sampleAt(5)}

		s := NewStore(fake)
		v, ok := s.MostRecentValue(context.Background(), "net/a")
		require.True(t, ok)
		assert.Equal(t, 5.0, v)
	})

	t.Run("durable read failure degrades to none", func(t *testing.T) {
		fake := newFakeSeries()
		fake.loadErr = errors.New("disk gone")

		s := NewStore(fake)
		_, ok := s.MostRecentValue(context.Background(), "net/a")
		assert.False(t, ok)
	})
}

func TestLoad(t *testing.T) {
	t.Run("reloads durable series once and caches it", func(t *testing.T) {
		fake := newFakeSeries()
		fake.series["net/a"] = []domain.Sample{sampleAt(1), sampleAt(2)}

		s := NewStore(fake)
		got := s.Load(context.Background(), "net/a")
		require.Len(t, got, 2)

		// Appends continue from the reloaded buffer
		buf := s.Append("net/a", sampleAt(3))
		assert.Len(t, buf, 3)
	})

	t.Run("read failure degrades to empty", func(t *testing.T) {
		fake := newFakeSeries()
		fake.loadErr = errors.New("corrupt")

		s := NewStore(fake)
		assert.Empty(t, s.Load(context.Background(), "net/a"))
	})

	t.Run("no durable store yields empty", func(t *testing.T) {
		s := NewStore(nil)
		assert.Empty(t, s.Load(context.Background(), "net/a"))
	})
}

func TestDurableWriteBehind(t *testing.T) {
	t.Run("appends reach the durable store in order", func(t *testing.T) {
		fake := newFakeSeries()
		s := NewStore(fake)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go s.Run(ctx)

		for i := 0; i < 5; i++ {
			s.Append("net/a", sampleAt(i))
		}

		for i := 0; i < 5; i++ {
			select {
			case <-fake.appended:
			case <-time.After(2 * time.Second):
				t.Fatalf("durable append %d never happened", i)
			}
		}

		require.Len(t, fake.series["net/a"], 5)
		for i, got := range fake.series["net/a"] {
			assert.Equal(t, float64(i), got.Value, "durable order must match append order")
		}
	})

	t.Run("write failure never reaches the caller", func(t *testing.T) {
		fake := newFakeSeries()
		fake.appendErr = errors.New("disk full")

		s := NewStore(fake)
		var failures atomic.Int64
		s.OnPersistFailure(func() { failures.Add(1) })

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go s.Run(ctx)

		buf := s.Append("net/a", sampleAt(0))
		require.Len(t, buf, 1, "in-memory buffer stays authoritative")

		select {
		case <-fake.appended:
		case <-time.After(2 * time.Second):
			t.Fatal("durable append never attempted")
		}

		assert.Eventually(t, func() bool {
			return failures.Load() == 1
		}, 2*time.Second, 10*time.Millisecond)
	})
}

func TestLenTracksBuffers(t *testing.T) {
	s := NewStore(nil)
	for i := 0; i < 10; i++ {
		s.Append(fmt.Sprintf("net/res%d", i%2), sampleAt(i))
	}
	assert.Equal(t, 5, s.Len("net/res0"))
	assert.Equal(t, 5, s.Len("net/res1"))
}
