package sessionRepo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/AKM-dv/aafa-partner/models"
	"github.com/AKM-dv/aafa-partner/utils"
)

// Save stores the record under the session key. A record without a token is
// not worth resuming from, so it is dropped without touching the store.
func (r *redisSessionRepo) Save(ctx context.Context, rec *models.SessionRecord) {
	if rec == nil || rec.Token == "" {
		return
	}
	rec.SavedAt = time.Now()
	data, err := json.Marshal(rec)
	if err != nil {
		utils.GetLogger().Warn("session save: marshal failed", zap.Error(err))
		return
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		utils.GetLogger().Warn("session save: store unavailable", zap.Error(err))
	}
}

// Load returns the stored record. A corrupt record is deleted so the next
// load starts clean.
func (r *redisSessionRepo) Load(ctx context.Context) *models.SessionRecord {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		utils.GetLogger().Warn("session load: store unavailable", zap.Error(err))
		return nil
	}
	var rec models.SessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		utils.GetLogger().Warn("session load: corrupt record discarded", zap.Error(err))
		r.client.Del(ctx, r.key)
		return nil
	}
	if rec.Token == "" {
		r.client.Del(ctx, r.key)
		return nil
	}
	return &rec
}

// Clear removes the stored record.
func (r *redisSessionRepo) Clear(ctx context.Context) {
	if err := r.client.Del(ctx, r.key).Err(); err != nil && err != redis.Nil {
		utils.GetLogger().Warn("session clear failed", zap.Error(err))
	}
}
