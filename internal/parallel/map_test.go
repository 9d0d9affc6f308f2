package parallel_test

import (
	"context"
	"iter"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/rust-ffi-checker/crateval/internal/parallel"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestMap(t *testing.T) {
	t.Parallel()

	f := func(_ context.Context, d time.Duration) (int, error) {
		time.Sleep(d)
		return int(d), nil
	}

	input := []time.Duration{1 * time.Second, 2 * time.Second, 5 * time.Second, 10 * time.Second}
	expected := []int{
		int(1 * time.Second),
		int(2 * time.Second),
		int(5 * time.Second),
		int(10 * time.Second),
	}

	var testCases = []struct {
		scenario string
		limit    int
		then     time.Duration
	}{
		{"limit 0 behaves as 1", 0, 18 * time.Second},
		{"limit 1", 1, 18 * time.Second},
		// 1s+5s on the first worker, 2s+10s on the second
		{"limit 2", 2, 12 * time.Second},
		{"limit 10", 10, 10 * time.Second},
	}

	for _, tt := range testCases {
		t.Run(tt.scenario, func(t *testing.T) {
			t.Parallel()
			synctest.Test(t, func(t *testing.T) {
				start := time.Now()
				m1 := parallel.NewMap(t.Context(), tt.limit, f).Iter(parallel.All(input))
				require.ElementsMatch(t, expected, values(m1))
				require.Equal(t, tt.then, time.Since(start))
			})
		})
	}
}

func TestMap_Bounded(t *testing.T) {
	t.Parallel()
	synctest.Test(t, func(t *testing.T) {
		const limit = 3
		var inFlight, peak atomic.Int32
		f := func(_ context.Context, i int) (int, error) {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(time.Duration(i%4+1) * time.Second)
			inFlight.Add(-1)
			return i, nil
		}

		input := make([]int, 20)
		for i := range input {
			input[i] = i
		}
		got := values(parallel.NewMap(t.Context(), limit, f).Iter(parallel.All(input)))
		require.ElementsMatch(t, input, got)
		require.Equal(t, int32(limit), peak.Load())
	})
}

func TestMap_Errors(t *testing.T) {
	t.Parallel()
	f := func(_ context.Context, i int) (int, error) {
		if i%2 == 1 {
			return 0, context.DeadlineExceeded
		}
		return i, nil
	}

	var oks, errs int
	for _, err := range parallel.NewMap(t.Context(), 2, f).Iter(parallel.All([]int{0, 1, 2, 3, 4})) {
		if err != nil {
			errs++
			continue
		}
		oks++
	}
	require.Equal(t, 3, oks)
	require.Equal(t, 2, errs)
}

func TestMap_Cancel(t *testing.T) {
	t.Parallel()
	synctest.Test(t, func(t *testing.T) {
		f := func(ctx context.Context, d time.Duration) (time.Duration, error) {
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(d):
				return d, nil
			}
		}
		ctx, cancel := context.WithTimeout(t.Context(), 1*time.Second)
		defer cancel()

		start := time.Now()
		input := []time.Duration{10 * time.Second, 10 * time.Second, 10 * time.Second}
		for d, err := range parallel.NewMap(ctx, 1, f).Iter(parallel.All(input)) {
			require.Zero(t, d)
			require.ErrorIs(t, err, context.DeadlineExceeded)
		}
		require.Equal(t, 1*time.Second, time.Since(start))
	})
}

func TestMap_Break(t *testing.T) {
	t.Parallel()
	synctest.Test(t, func(t *testing.T) {
		f := func(ctx context.Context, i int) (int, error) {
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(time.Duration(i) * time.Second):
				return i, nil
			}
		}
		for i, err := range parallel.NewMap(t.Context(), 2, f).Iter(parallel.All([]int{1, 5, 6, 7})) {
			require.NoError(t, err)
			require.Equal(t, 1, i)
			break
		}
	})
}

func values[T any](i iter.Seq2[T, error]) []T {
	var ret []T
	for k := range i {
		ret = append(ret, k)
	}
	return ret
}
