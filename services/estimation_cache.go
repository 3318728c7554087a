package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"caloriecam/models"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const estimationKeyPrefix = "caloriecam:estimation:"

// kvCache is the subset of redis.Cmdable the cache needs.
type kvCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CachedEstimator memoises successful estimations by image content.
// Redis problems are logged and never fail the request.
type CachedEstimator struct {
	next  Estimator
	cache kvCache
	ttl   time.Duration
	log   logrus.FieldLogger
}

func NewCachedEstimator(next Estimator, cache kvCache, ttl time.Duration, log logrus.FieldLogger) *CachedEstimator {
	return &CachedEstimator{next: next, cache: cache, ttl: ttl, log: log}
}

func EstimationCacheKey(image []byte) string {
	sum := sha256.Sum256(image)
	return estimationKeyPrefix + hex.EncodeToString(sum[:])
}

func (c *CachedEstimator) Estimate(ctx context.Context, image []byte, mimeType string) (*models.CalorieEstimation, error) {
	key := EstimationCacheKey(image)

	raw, err := c.cache.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var est models.CalorieEstimation
		jerr := json.Unmarshal(raw, &est)
		if jerr == nil {
			EstimationCacheLookups.WithLabelValues("hit").Inc()
			return &est, nil
		}
		c.log.WithError(jerr).WithField("key", key).Warn("discarding corrupt cached estimation")
		EstimationCacheLookups.WithLabelValues("error").Inc()
	case errors.Is(err, redis.Nil):
		EstimationCacheLookups.WithLabelValues("miss").Inc()
	default:
		c.log.WithError(err).Warn("estimation cache read failed")
		EstimationCacheLookups.WithLabelValues("error").Inc()
	}

	est, err := c.next.Estimate(ctx, image, mimeType)
	if err != nil || est.Failed() {
		return est, err
	}

	if b, jerr := json.Marshal(est); jerr == nil {
		if serr := c.cache.Set(ctx, key, b, c.ttl).Err(); serr != nil {
			c.log.WithError(serr).Warn("estimation cache write failed")
		}
	}
	return est, nil
}
