// Package sessionRepo persists the single partner session record in Redis.
//
// The store is deliberately fail-safe: a missing, corrupt or unreachable
// record is indistinguishable from "never signed in". Callers get a nil
// record and the partner restarts from the beginning of onboarding.
package sessionRepo

import (
	"context"

	"github.com/go-redis/redis/v8"

	"github.com/AKM-dv/aafa-partner/models"
	"github.com/AKM-dv/aafa-partner/utils"
)

type SessionRepository interface {
	// Save stores the record. Records without a token are silently ignored.
	Save(ctx context.Context, rec *models.SessionRecord)
	// Load returns the stored record, or nil when none is usable.
	Load(ctx context.Context) *models.SessionRecord
	// Clear removes the stored record.
	Clear(ctx context.Context)
}

type redisSessionRepo struct {
	client *redis.Client
	key    string
}

// NewRedisSessionRepo returns a SessionRepository backed by the shared
// session cache client.
func NewRedisSessionRepo() SessionRepository {
	return &redisSessionRepo{
		client: utils.GetSessionCacheClient(),
		key:    utils.SessionStorageKey,
	}
}

// NewRedisSessionRepoWithClient builds a repository against an explicit
// client, used by tests.
func NewRedisSessionRepoWithClient(client *redis.Client) SessionRepository {
	return &redisSessionRepo{client: client, key: utils.SessionStorageKey}
}
