package walk

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync/atomic"
	"testing"
	"time"
)

func TestOrderedPreservesOrder(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		width int
	}{
		{"empty", 0, 7},
		{"fewer items than width", 3, 7},
		{"width 7", 50, 7},
		{"width 13", 100, 13},
		{"width 1", 10, 1},
		{"width 0 treated as 1", 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var inFlight, peak atomic.Int64
			seq := ordered(context.Background(), tt.n, tt.width, func(ctx context.Context, i int) (int, error) {
				cur := inFlight.Add(1)
				for {
					old := peak.Load()
					if cur <= old || peak.CompareAndSwap(old, cur) {
						break
					}
				}
				time.Sleep(time.Duration(rand.IntN(200)) * time.Microsecond)
				inFlight.Add(-1)
				return i, nil
			})

			next := 0
			for v, err := range seq {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if v != next {
					t.Fatalf("got position %d, want %d", v, next)
				}
				next++
			}
			if next != tt.n {
				t.Errorf("got %d results, want %d", next, tt.n)
			}
			if limit := int64(max(tt.width, 1)); peak.Load() > limit {
				t.Errorf("peak in flight %d exceeds width %d", peak.Load(), limit)
			}
		})
	}
}

func TestOrderedYieldsErrorsInPlace(t *testing.T) {
	boom := errors.New("boom")
	seq := ordered(context.Background(), 5, 3, func(ctx context.Context, i int) (int, error) {
		if i == 2 {
			return 0, boom
		}
		// later positions finish first
		time.Sleep(time.Duration(5-i) * time.Millisecond)
		return i, nil
	})

	var got []int
	for v, err := range seq {
		if err != nil {
			if !errors.Is(err, boom) {
				t.Fatalf("unexpected error: %v", err)
			}
			break
		}
		got = append(got, v)
	}
	if len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Errorf("expected results before the failure only, got %v", got)
	}
}

func TestOrderedStopCancelsInFlight(t *testing.T) {
	var started, cancelled atomic.Int64
	seq := ordered(context.Background(), 20, 4, func(ctx context.Context, i int) (int, error) {
		if i == 0 {
			return 0, nil
		}
		started.Add(1)
		<-ctx.Done()
		cancelled.Add(1)
		return 0, ctx.Err()
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range seq {
			break
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("stopping the iteration did not release in-flight calls")
	}

	// every started call has returned once the iterator is done
	if started.Load() != cancelled.Load() {
		t.Errorf("started %d calls but only %d returned", started.Load(), cancelled.Load())
	}
	if started.Load() > 3 {
		t.Errorf("expected at most 3 blocked calls, got %d", started.Load())
	}
}
