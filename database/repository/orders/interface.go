// Package ordersRepo persists the partner's order list in Redis so accepted
// and completed work survives a restart. Pending offers are transient and
// never written.
package ordersRepo

import (
	"context"

	"github.com/go-redis/redis/v8"

	"github.com/AKM-dv/aafa-partner/models"
	"github.com/AKM-dv/aafa-partner/utils"
)

type OrdersRepository interface {
	// Save stores the durable subset of the given orders.
	Save(ctx context.Context, orders []models.LiveOrder)
	// Load returns the stored orders, or nil when none are usable.
	Load(ctx context.Context) []models.LiveOrder
	// Clear removes the stored orders.
	Clear(ctx context.Context)
}

type redisOrdersRepo struct {
	client *redis.Client
	key    string
}

// NewRedisOrdersRepo returns an OrdersRepository backed by the shared orders
// cache client.
func NewRedisOrdersRepo() OrdersRepository {
	return &redisOrdersRepo{
		client: utils.GetOrdersCacheClient(),
		key:    utils.OrdersStorageKey,
	}
}

// NewRedisOrdersRepoWithClient builds a repository against an explicit
// client, used by tests.
func NewRedisOrdersRepoWithClient(client *redis.Client) OrdersRepository {
	return &redisOrdersRepo{client: client, key: utils.OrdersStorageKey}
}
