// Package cache memoizes focus predictions in Redis. Predictions are a pure function of the
// focus feature row and the vocabulary version, so both form the key.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/devinpereira/Flexin/internal/config"
	"github.com/devinpereira/Flexin/internal/domain"
	"github.com/devinpereira/Flexin/internal/engine"
	"github.com/devinpereira/Flexin/internal/logger"
	"github.com/devinpereira/Flexin/internal/predictor"
)

const keyPrefix = "flexin:focus:"

// FocusCache stores focus predictions by key. A miss returns ok == false and no error.
type FocusCache interface {
	Get(ctx context.Context, key string) (preds engine.FocusPredictions, ok bool, err error)
	Set(ctx context.Context, key string, preds engine.FocusPredictions) error
}

// FocusKey derives the cache key for a focus feature row.
func FocusKey(vocabularyVersion string, row []float64) string {
	parts := make([]string, len(row))
	for i, v := range row {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, ",")))
	return keyPrefix + vocabularyVersion + ":" + hex.EncodeToString(sum[:16])
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, fmt.Errorf("missing redis address")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

type redisFocusCache struct {
	rdb *goredis.Client
	ttl time.Duration
}

// NewRedisFocusCache stores predictions as JSON with the given TTL.
func NewRedisFocusCache(rdb *goredis.Client, ttl time.Duration) FocusCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &redisFocusCache{rdb: rdb, ttl: ttl}
}

func (c *redisFocusCache) Get(ctx context.Context, key string) (engine.FocusPredictions, bool, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var preds engine.FocusPredictions
	if err := json.Unmarshal(raw, &preds); err != nil {
		return nil, false, err
	}
	return preds, true, nil
}

func (c *redisFocusCache) Set(ctx context.Context, key string, preds engine.FocusPredictions) error {
	raw, err := json.Marshal(preds)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, raw, c.ttl).Err()
}

// sharedCallTimeout bounds an upstream call shared by collapsed misses.
const sharedCallTimeout = 10 * time.Second

// CachedFocusPredictor serves predictions from a FocusCache and collapses concurrent misses for
// the same key into a single upstream call. Cache failures are logged and bypassed.
type CachedFocusPredictor struct {
	next    predictor.FocusPredictor
	cache   FocusCache
	version string
	group   singleflight.Group
	log     *logger.Logger
}

func NewCachedFocusPredictor(next predictor.FocusPredictor, cache FocusCache, vocabularyVersion string, log *logger.Logger) *CachedFocusPredictor {
	if log == nil {
		log = logger.Nop()
	}
	return &CachedFocusPredictor{
		next:    next,
		cache:   cache,
		version: vocabularyVersion,
		log:     log.With("service", "FocusCache"),
	}
}

func (p *CachedFocusPredictor) PredictFocus(ctx context.Context, profile domain.UserProfile, row []float64) (engine.FocusPredictions, error) {
	key := FocusKey(p.version, row)

	preds, ok, err := p.cache.Get(ctx, key)
	if err != nil {
		p.log.Warn("Focus cache read failed", "key", key, "error", err)
	} else if ok {
		return preds, nil
	}

	// The shared call outlives any single caller; each caller only stops waiting on its own ctx.
	ch := p.group.DoChan(key, func() (interface{}, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedCallTimeout)
		defer cancel()
		preds, err := p.next.PredictFocus(callCtx, profile, row)
		if err != nil {
			return nil, err
		}
		if err := p.cache.Set(callCtx, key, preds); err != nil {
			p.log.Warn("Focus cache write failed", "key", key, "error", err)
		}
		return preds, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(engine.FocusPredictions), nil
	}
}
