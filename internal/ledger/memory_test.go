package ledger

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_DebitCredit(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		capacity int
		run      func(l *Memory) (int, error)
		wantBal  int
		wantErr  error
	}{
		{
			name:     "debit within capacity",
			capacity: 10,
			run:      func(l *Memory) (int, error) { return l.Debit(ctx, "r1", 4) },
			wantBal:  6,
		},
		{
			name:     "debit of exactly the remaining capacity",
			capacity: 5,
			run:      func(l *Memory) (int, error) { return l.Debit(ctx, "r1", 5) },
			wantBal:  0,
		},
		{
			name:     "debit beyond capacity is rejected",
			capacity: 3,
			run:      func(l *Memory) (int, error) { return l.Debit(ctx, "r1", 5) },
			wantBal:  3,
			wantErr:  ErrInsufficientCapacity,
		},
		{
			name:     "credit on a full account overflows",
			capacity: 10,
			run:      func(l *Memory) (int, error) { return l.Credit(ctx, "r1", 1) },
			wantBal:  10,
			wantErr:  ErrLedgerOverflow,
		},
		{
			name:     "zero quantity",
			capacity: 10,
			run:      func(l *Memory) (int, error) { return l.Debit(ctx, "r1", 0) },
			wantBal:  10,
			wantErr:  ErrInvalidQuantity,
		},
		{
			name:     "unknown receiver",
			capacity: 10,
			run:      func(l *Memory) (int, error) { return l.Debit(ctx, "nope", 1) },
			wantBal:  10,
			wantErr:  ErrUnknownReceiver,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewMemory()
			require.NoError(t, l.Open("r1", tt.capacity))

			_, err := tt.run(l)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			rem, err := l.Remaining(ctx, "r1")
			require.NoError(t, err)
			assert.Equal(t, tt.wantBal, rem)
		})
	}
}

func TestMemory_RoundTrip(t *testing.T) {
	ctx := context.Background()
	l := NewMemory()
	require.NoError(t, l.Open("r1", 10))

	_, err := l.Debit(ctx, "r1", 7)
	require.NoError(t, err)
	rem, err := l.Credit(ctx, "r1", 7)
	require.NoError(t, err)
	assert.Equal(t, 10, rem)

	// second credit of the same quantity would be a double credit
	_, err = l.Credit(ctx, "r1", 7)
	assert.ErrorIs(t, err, ErrLedgerOverflow)
}

func TestMemory_Open(t *testing.T) {
	l := NewMemory()
	require.NoError(t, l.Open("r1", 0))
	assert.Error(t, l.Open("r1", 5))
	assert.Error(t, l.Open("r2", -1))
}

func TestMemory_ConcurrentDebitsNeverOverdraw(t *testing.T) {
	ctx := context.Background()
	l := NewMemory()
	require.NoError(t, l.Open("r1", 50))

	var ok atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.Debit(ctx, "r1", 3); err == nil {
				ok.Add(1)
			} else {
				assert.ErrorIs(t, err, ErrInsufficientCapacity)
			}
		}()
	}
	wg.Wait()

	bal, err := l.Balance("r1")
	require.NoError(t, err)
	assert.Equal(t, int64(16), ok.Load())
	assert.Equal(t, 2, bal.Remaining)
	assert.GreaterOrEqual(t, bal.Remaining, 0)
}

func TestMemory_ConcurrentMixedKeepsBounds(t *testing.T) {
	ctx := context.Background()
	l := NewMemory()
	require.NoError(t, l.Open("r1", 20))
	require.NoError(t, l.Open("r2", 20))

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		for _, id := range []string{"r1", "r2"} {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				if _, err := l.Debit(ctx, id, 2); err != nil {
					return
				}
				_, err := l.Credit(ctx, id, 2)
				assert.NoError(t, err)
			}(id)
		}
	}
	wg.Wait()

	for _, id := range []string{"r1", "r2"} {
		bal, err := l.Balance(id)
		require.NoError(t, err)
		assert.Equal(t, 20, bal.Remaining)
	}
}

func TestBalance_UsedPercentage(t *testing.T) {
	assert.Equal(t, 0.0, Balance{}.UsedPercentage())
	assert.InDelta(t, 60.0, Balance{Remaining: 4, Original: 10}.UsedPercentage(), 1e-9)
	assert.InDelta(t, 100.0, Balance{Remaining: 0, Original: 7}.UsedPercentage(), 1e-9)
}
