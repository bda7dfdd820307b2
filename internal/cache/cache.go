package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Nakkasenp65/device-assessment-dss/internal/metrics"
	"github.com/Nakkasenp65/device-assessment-dss/internal/store"
)

const keyPrefix = "dss:catalog:"

func conditionsKey(c store.Category) string { return keyPrefix + "conditions:" + string(c) }
func optionKey(id int64) string             { return keyPrefix + "option:" + strconv.FormatInt(id, 10) }
func modelKey(id int64) string              { return keyPrefix + "model:" + strconv.FormatInt(id, 10) }
func groupKey(id int64) string              { return keyPrefix + "group:" + strconv.FormatInt(id, 10) }
func modelsKey() string                     { return keyPrefix + "models" }
func pathsKey() string                      { return keyPrefix + "paths" }

// Store decorates a store.Store with a Redis read-through cache for catalog
// reads. Redis failures are logged and fall through to the wrapped store.
// Assessment reads and writes are never cached.
type Store struct {
	store.Store
	rdb     *redis.Client
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New wraps next. m may be nil.
func New(next store.Store, rdb *redis.Client, ttl time.Duration, m *metrics.Metrics, logger *slog.Logger) *Store {
	return &Store{Store: next, rdb: rdb, ttl: ttl, metrics: m, logger: logger}
}

func (s *Store) observe(result string) {
	if s.metrics != nil {
		s.metrics.ObserveCache(result)
	}
}

// get loads key into dst. It reports whether the value was found.
func (s *Store) get(ctx context.Context, key string, dst interface{}) bool {
	val, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		s.observe(metrics.CacheMiss)
		return false
	}
	if err != nil {
		s.observe(metrics.CacheError)
		s.logger.Warn("cache read failed", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(val, dst); err != nil {
		s.observe(metrics.CacheError)
		s.logger.Warn("cache entry corrupt", "key", key, "error", err)
		return false
	}
	s.observe(metrics.CacheHit)
	return true
}

func (s *Store) set(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, data, s.ttl).Err(); err != nil {
		s.logger.Warn("cache write failed", "key", key, "error", err)
	}
}

func (s *Store) ConditionsByCategory(ctx context.Context, category store.Category) ([]store.Condition, error) {
	var conds []store.Condition
	if s.get(ctx, conditionsKey(category), &conds) {
		return conds, nil
	}
	conds, err := s.Store.ConditionsByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	s.set(ctx, conditionsKey(category), conds)
	return conds, nil
}

// AnswerOptionsByIDs caches options one key per ID, so overlapping answer
// sets share entries. Only the IDs missing from Redis reach the wrapped store.
func (s *Store) AnswerOptionsByIDs(ctx context.Context, ids []int64) ([]store.AnswerOption, error) {
	if len(ids) == 0 {
		return s.Store.AnswerOptionsByIDs(ctx, ids)
	}

	unique := make([]int64, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	keys := make([]string, len(unique))
	for i, id := range unique {
		keys[i] = optionKey(id)
	}
	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		s.observe(metrics.CacheError)
		s.logger.Warn("cache read failed", "key", keyPrefix+"option:*", "error", err)
		return s.Store.AnswerOptionsByIDs(ctx, unique)
	}

	var out []store.AnswerOption
	var missing []int64
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			missing = append(missing, unique[i])
			continue
		}
		var o store.AnswerOption
		if err := json.Unmarshal([]byte(str), &o); err != nil {
			missing = append(missing, unique[i])
			continue
		}
		out = append(out, o)
	}
	if len(missing) == 0 {
		s.observe(metrics.CacheHit)
		return out, nil
	}
	s.observe(metrics.CacheMiss)

	loaded, err := s.Store.AnswerOptionsByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	pipe := s.rdb.Pipeline()
	for _, o := range loaded {
		data, err := json.Marshal(o)
		if err != nil {
			continue
		}
		pipe.Set(ctx, optionKey(o.ID), data, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Warn("cache write failed", "key", keyPrefix+"option:*", "error", err)
	}
	return append(out, loaded...), nil
}

// AnswerOptionsByGroups caches each group's option list under its own key.
func (s *Store) AnswerOptionsByGroups(ctx context.Context, groupIDs []int64) ([]store.AnswerOption, error) {
	var out []store.AnswerOption
	var missing []int64
	seen := make(map[int64]bool, len(groupIDs))
	for _, id := range groupIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		var opts []store.AnswerOption
		if s.get(ctx, groupKey(id), &opts) {
			out = append(out, opts...)
			continue
		}
		missing = append(missing, id)
	}
	if len(missing) > 0 {
		loaded, err := s.Store.AnswerOptionsByGroups(ctx, missing)
		if err != nil {
			return nil, err
		}
		byGroup := make(map[int64][]store.AnswerOption, len(missing))
		for _, o := range loaded {
			byGroup[o.GroupID] = append(byGroup[o.GroupID], o)
		}
		for _, id := range missing {
			opts := byGroup[id]
			if opts == nil {
				opts = []store.AnswerOption{}
			}
			s.set(ctx, groupKey(id), opts)
		}
		out = append(out, loaded...)
	}
	store.SortAnswerOptions(out)
	return out, nil
}

// GetModel caches found models only; a miss is asked of the wrapped store
// every time so newly added models show up immediately.
func (s *Store) GetModel(ctx context.Context, id int64) (*store.DeviceModel, error) {
	var m store.DeviceModel
	if s.get(ctx, modelKey(id), &m) {
		return &m, nil
	}
	model, err := s.Store.GetModel(ctx, id)
	if err != nil || model == nil {
		return model, err
	}
	s.set(ctx, modelKey(id), model)
	return model, nil
}

func (s *Store) ListModels(ctx context.Context) ([]store.DeviceModel, error) {
	var models []store.DeviceModel
	if s.get(ctx, modelsKey(), &models) {
		return models, nil
	}
	models, err := s.Store.ListModels(ctx)
	if err != nil {
		return nil, err
	}
	s.set(ctx, modelsKey(), models)
	return models, nil
}

func (s *Store) ListDecisionPaths(ctx context.Context) ([]store.DecisionPath, error) {
	var paths []store.DecisionPath
	if s.get(ctx, pathsKey(), &paths) {
		return paths, nil
	}
	paths, err := s.Store.ListDecisionPaths(ctx)
	if err != nil {
		return nil, err
	}
	s.set(ctx, pathsKey(), paths)
	return paths, nil
}

// CreateDecisionPath writes through and drops the cached path list.
func (s *Store) CreateDecisionPath(ctx context.Context, p *store.DecisionPath) error {
	if err := s.Store.CreateDecisionPath(ctx, p); err != nil {
		return err
	}
	if err := s.rdb.Del(ctx, pathsKey()).Err(); err != nil {
		s.logger.Error("cache invalidation failed, decision paths stale until ttl", "ttl", s.ttl, "error", err)
	}
	return nil
}
