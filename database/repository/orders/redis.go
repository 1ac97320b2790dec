package ordersRepo

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/AKM-dv/aafa-partner/models"
	"github.com/AKM-dv/aafa-partner/utils"
)

// Save writes only current and completed orders that carry a booking id.
// Pending offers are re-derived from notifications after a restart, so
// persisting them would only produce stale duplicates.
func (r *redisOrdersRepo) Save(ctx context.Context, orders []models.LiveOrder) {
	durable := make([]models.LiveOrder, 0, len(orders))
	for _, o := range orders {
		if o.BookingID == 0 {
			continue
		}
		if o.Status == models.OrderCurrent || o.Status == models.OrderCompleted {
			durable = append(durable, o)
		}
	}
	data, err := json.Marshal(durable)
	if err != nil {
		utils.GetLogger().Warn("orders save: marshal failed", zap.Error(err))
		return
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		utils.GetLogger().Warn("orders save: store unavailable", zap.Error(err))
	}
}

// Load returns the stored orders, dropping any entry that lost its booking
// id. A corrupt payload is deleted so the next load starts clean.
func (r *redisOrdersRepo) Load(ctx context.Context) []models.LiveOrder {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		utils.GetLogger().Warn("orders load: store unavailable", zap.Error(err))
		return nil
	}
	var stored []models.LiveOrder
	if err := json.Unmarshal(data, &stored); err != nil {
		utils.GetLogger().Warn("orders load: corrupt payload discarded", zap.Error(err))
		r.client.Del(ctx, r.key)
		return nil
	}
	orders := make([]models.LiveOrder, 0, len(stored))
	for _, o := range stored {
		if o.BookingID != 0 {
			orders = append(orders, o)
		}
	}
	return orders
}

// Clear removes the stored orders.
func (r *redisOrdersRepo) Clear(ctx context.Context) {
	if err := r.client.Del(ctx, r.key).Err(); err != nil && err != redis.Nil {
		utils.GetLogger().Warn("orders clear failed", zap.Error(err))
	}
}
