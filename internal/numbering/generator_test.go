package numbering

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahulverma-dev/medstock-backend/pkg/config"
)

// fakeIndex treats the existence re-check as the claim point: the first caller
// to re-check a free number gets it, later callers see it as taken. That
// mirrors the race the generator is written to survive.
type fakeIndex struct {
	mu       sync.Mutex
	taken    map[string]bool
	claimOn  bool
	scanErr  error
	checkErr error
}

func newFakeIndex(claimOnCheck bool) *fakeIndex {
	return &fakeIndex{taken: map[string]bool{}, claimOn: claimOnCheck}
}

func (f *fakeIndex) HighestNumber(_ context.Context, _ uuid.UUID, prefix string) (string, error) {
	if f.scanErr != nil {
		return "", f.scanErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	highest := ""
	for number := range f.taken {
		if len(number) == len(prefix)+sequenceWidth && number > highest {
			highest = number
		}
	}
	return highest, nil
}

func (f *fakeIndex) NumberExists(_ context.Context, _ uuid.UUID, number string) (bool, error) {
	if f.checkErr != nil {
		return false, f.checkErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.taken[number] {
		return true, nil
	}
	if f.claimOn {
		f.taken[number] = true
	}
	return false, nil
}

func newTestGenerator(t *testing.T, index Index) *Generator {
	t.Helper()
	gen, err := NewGenerator(index, nil, nil, config.NumberingConfig{MaxRetries: 5, RetryBackoff: time.Millisecond})
	require.NoError(t, err)
	gen.sleep = func(time.Duration) {}
	gen.now = func() time.Time {
		return time.Date(2026, time.August, 14, 10, 0, 0, 0, time.UTC)
	}
	return gen
}

func TestNext_FirstNumberOfMonth(t *testing.T) {
	gen := newTestGenerator(t, newFakeIndex(false))

	number, err := gen.Next(context.Background(), uuid.New(), GRNPrefix)
	require.NoError(t, err)
	assert.Equal(t, "GRN2026080001", number)
}

func TestNext_ContinuesFromHighest(t *testing.T) {
	index := newFakeIndex(false)
	index.taken["GRN2026080007"] = true
	gen := newTestGenerator(t, index)

	number, err := gen.Next(context.Background(), uuid.New(), GRNPrefix)
	require.NoError(t, err)
	assert.Equal(t, "GRN2026080008", number)
}

func TestNext_RetriesPastCollision(t *testing.T) {
	index := newFakeIndex(false)
	// First re-check collides (a concurrent creator committed the proposal
	// between scan and check); after one backoff the rescan observes it.
	index.taken["GRN2026080002"] = true
	stale := &staleScanIndex{inner: index, pinned: "GRN2026080001", pinnedFor: 1}
	gen := newTestGenerator(t, stale)
	sleeps := 0
	gen.sleep = func(time.Duration) { sleeps++ }

	number, err := gen.Next(context.Background(), uuid.New(), GRNPrefix)
	require.NoError(t, err)
	assert.Equal(t, "GRN2026080003", number)
	assert.Equal(t, 1, sleeps)
}

func TestNext_FallbackAfterExhaustion(t *testing.T) {
	index := newFakeIndex(false)
	index.taken["GRN2026080002"] = true
	// The scan never advances past 0001, so every proposal collides.
	stale := &staleScanIndex{inner: index, pinned: "GRN2026080001", pinnedFor: -1}
	gen := newTestGenerator(t, stale)
	sleeps := 0
	gen.sleep = func(time.Duration) { sleeps++ }

	number, err := gen.Next(context.Background(), uuid.New(), GRNPrefix)
	require.NoError(t, err)
	assert.Equal(t, 5, sleeps, "one backoff per retry")
	assert.NotContains(t, index.taken, number)
	assert.Contains(t, number, "GRN202608")
	assert.Greater(t, len(number), len("GRN202608")+sequenceWidth, "fallback carries a timestamp suffix")
}

// staleScanIndex pins the highest-number scan to a fixed answer for the first
// pinnedFor calls (forever when negative), modelling a reader that lags behind
// concurrent commits.
type staleScanIndex struct {
	inner     *fakeIndex
	pinned    string
	pinnedFor int
	calls     int
}

func (s *staleScanIndex) HighestNumber(ctx context.Context, storeID uuid.UUID, prefix string) (string, error) {
	s.calls++
	if s.pinnedFor < 0 || s.calls <= s.pinnedFor {
		return s.pinned, nil
	}
	return s.inner.HighestNumber(ctx, storeID, prefix)
}

func (s *staleScanIndex) NumberExists(ctx context.Context, storeID uuid.UUID, number string) (bool, error) {
	return s.inner.NumberExists(ctx, storeID, number)
}

func TestNext_ConcurrentCallersGetDistinctNumbers(t *testing.T) {
	index := newFakeIndex(true)
	gen := newTestGenerator(t, index)

	const callers = 5
	results := make(chan string, callers)
	errs := make(chan error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			number, err := gen.Next(context.Background(), uuid.New(), GRNPrefix)
			if err != nil {
				errs <- err
				return
			}
			results <- number
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent caller failed: %v", err)
	}

	seen := map[string]bool{}
	for number := range results {
		assert.False(t, seen[number], "duplicate number %s", number)
		seen[number] = true
	}
	assert.Len(t, seen, callers)
}

func TestParseSequence(t *testing.T) {
	cases := []struct {
		name   string
		number string
		want   int
	}{
		{"empty", "", 0},
		{"dense", "GRN2026080042", 42},
		{"wrong period", "GRN2026070042", 0},
		{"fallback suffix ignored", "GRN2026081755172800000", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, parseSequence(tc.number, "GRN202608"))
		})
	}
}
