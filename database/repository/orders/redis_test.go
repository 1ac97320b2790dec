package ordersRepo

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AKM-dv/aafa-partner/models"
	"github.com/AKM-dv/aafa-partner/utils"
)

func newTestRepo(t *testing.T) (OrdersRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisOrdersRepoWithClient(client), mr
}

func TestSavePersistsOnlyDurableOrders(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	repo.Save(ctx, []models.LiveOrder{
		{BookingID: 1, Status: models.OrderCurrent},
		{BookingID: 2, Status: models.OrderPending},
		{BookingID: 3, Status: models.OrderCompleted},
		{Status: models.OrderCurrent}, // no booking id
	})

	loaded := repo.Load(ctx)
	require.Len(t, loaded, 2)
	assert.Equal(t, int64(1), loaded[0].BookingID)
	assert.Equal(t, int64(3), loaded[1].BookingID)
}

func TestLoadDropsIdlessRows(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(utils.OrdersStorageKey,
		`[{"bookingId":5,"status":"Current"},{"bookingId":0,"status":"Completed"}]`))

	loaded := repo.Load(ctx)
	require.Len(t, loaded, 1)
	assert.Equal(t, int64(5), loaded[0].BookingID)
}

func TestCorruptPayloadDiscarded(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(utils.OrdersStorageKey, "[broken"))
	assert.Nil(t, repo.Load(ctx))
	assert.False(t, mr.Exists(utils.OrdersStorageKey))
}

func TestClear(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	repo.Save(ctx, []models.LiveOrder{{BookingID: 7, Status: models.OrderCurrent}})
	require.True(t, mr.Exists(utils.OrdersStorageKey))

	repo.Clear(ctx)
	assert.Nil(t, repo.Load(ctx))
}
