package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"math_quest_backend/internal/model"
	"math_quest_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// QuestCache 任务定义创建后不可变，读路径可以放心缓存
type QuestCache struct {
	Redis *redis.Client
	TTL   time.Duration
}

func NewQuestCache(rdb *redis.Client, ttl time.Duration) *QuestCache {
	return &QuestCache{Redis: rdb, TTL: ttl}
}

func questCacheKey(id uint64) string {
	return fmt.Sprintf("math_quest:quest:%d", id)
}

func (c *QuestCache) Get(ctx context.Context, id uint64) (*model.Quest, bool) {
	data, err := c.Redis.Get(ctx, questCacheKey(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Log.Warn("quest cache read failed", zap.Uint64("quest_id", id), zap.Error(err))
		}
		return nil, false
	}
	var quest model.Quest
	if err := json.Unmarshal(data, &quest); err != nil {
		return nil, false
	}
	return &quest, true
}

func (c *QuestCache) Set(ctx context.Context, quest *model.Quest) {
	data, err := json.Marshal(quest)
	if err != nil {
		return
	}
	if err := c.Redis.Set(ctx, questCacheKey(quest.ID), data, c.TTL).Err(); err != nil {
		logger.Log.Warn("quest cache write failed", zap.Uint64("quest_id", quest.ID), zap.Error(err))
	}
}

// CachedStore 只在只读视图上走缓存；事务内读取必须来自存储本身，
// 否则回滚的写入可能被缓存下来
type CachedStore struct {
	Store
	Cache *QuestCache
}

func NewCachedStore(store Store, cache *QuestCache) *CachedStore {
	return &CachedStore{Store: store, Cache: cache}
}

func (s *CachedStore) Read(ctx context.Context, fn func(repos *Repositories) error) error {
	return s.Store.Read(ctx, func(repos *Repositories) error {
		cached := *repos
		cached.Quests = &cachedQuestRepository{inner: repos.Quests, cache: s.Cache, ctx: ctx}
		return fn(&cached)
	})
}

type cachedQuestRepository struct {
	inner QuestRepository
	cache *QuestCache
	ctx   context.Context
}

func (r *cachedQuestRepository) FindByID(id uint64) (*model.Quest, error) {
	if quest, ok := r.cache.Get(r.ctx, id); ok {
		return quest, nil
	}
	quest, err := r.inner.FindByID(id)
	if err != nil {
		return nil, err
	}
	r.cache.Set(r.ctx, quest)
	return quest, nil
}

func (r *cachedQuestRepository) Exists(id uint64) (bool, error) {
	if _, ok := r.cache.Get(r.ctx, id); ok {
		return true, nil
	}
	return r.inner.Exists(id)
}

func (r *cachedQuestRepository) Create(quest *model.Quest) error {
	return ErrReadOnly
}
