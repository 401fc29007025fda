package slot_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/craftline/wardrobe/internal/domain"
	"github.com/craftline/wardrobe/internal/slot"
	"github.com/craftline/wardrobe/internal/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReserveIsExclusive(t *testing.T) {
	repo := storetest.NewSlotRepository()
	reg := slot.NewRegistry(repo)
	ctx := context.Background()

	require.NoError(t, reg.Reserve(ctx, 1, "2024-06-05", domain.SlotMorning))

	err := reg.Reserve(ctx, 2, "2024-06-05", domain.SlotMorning)
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	// A different window on the same day is free.
	assert.NoError(t, reg.Reserve(ctx, 2, "2024-06-05", domain.SlotAfternoon))
}

func TestReserveRacesYieldOneWinner(t *testing.T) {
	repo := storetest.NewSlotRepository()
	reg := slot.NewRegistry(repo)
	ctx := context.Background()

	const callers = 32
	var (
		start     = make(chan struct{})
		wg        sync.WaitGroup
		won       int32
		conflicts int32
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(orderID int64) {
			defer wg.Done()
			<-start
			err := reg.Reserve(ctx, orderID, "2024-06-05", domain.SlotMorning)
			switch {
			case err == nil:
				atomic.AddInt32(&won, 1)
			case domain.KindOf(err) == domain.KindConflict:
				atomic.AddInt32(&conflicts, 1)
			}
		}(int64(i + 1))
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&won))
	assert.Equal(t, int32(callers-1), atomic.LoadInt32(&conflicts))
	assert.True(t, repo.Reserved("2024-06-05", domain.SlotMorning))
}

func TestReleaseMakesSlotReservable(t *testing.T) {
	repo := storetest.NewSlotRepository()
	reg := slot.NewRegistry(repo)
	ctx := context.Background()

	require.NoError(t, reg.Reserve(ctx, 1, "2024-06-05", domain.SlotMorning))
	require.NoError(t, reg.Release(ctx, 1))

	assert.NoError(t, reg.Reserve(ctx, 2, "2024-06-05", domain.SlotMorning))
}

func TestReleaseUnknownOrderIsNoop(t *testing.T) {
	repo := storetest.NewSlotRepository()
	reg := slot.NewRegistry(repo)

	assert.NoError(t, reg.Release(context.Background(), 42))
}
