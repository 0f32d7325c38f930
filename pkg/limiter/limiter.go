// Package limiter keeps token buckets keyed by route prefix.
package limiter

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/juju/ratelimit"
)

// Face is what the rate limit middleware needs.
type Face interface {
	Key(c *gin.Context) string
	GetBucket(key string) (*ratelimit.Bucket, bool)
	AddBuckets(rules ...BucketRule) Face
}

// BucketRule configures one bucket.
type BucketRule struct {
	Key          string
	FillInterval time.Duration
	Capacity     int64
	Quantum      int64
}

type Limiter struct {
	buckets map[string]*ratelimit.Bucket
	keys    []string
}

// MethodLimiter matches the request path against rule keys by prefix,
// longest key first.
type MethodLimiter struct {
	*Limiter
}

func NewMethodLimiter() Face {
	return MethodLimiter{Limiter: &Limiter{buckets: make(map[string]*ratelimit.Bucket)}}
}

func (l MethodLimiter) Key(c *gin.Context) string {
	path := c.Request.URL.Path
	for _, k := range l.keys {
		if strings.HasPrefix(path, k) {
			return k
		}
	}
	return path
}

func (l MethodLimiter) GetBucket(key string) (*ratelimit.Bucket, bool) {
	bucket, ok := l.buckets[key]
	return bucket, ok
}

// AddBuckets must be called before the limiter serves requests.
func (l MethodLimiter) AddBuckets(rules ...BucketRule) Face {
	for _, rule := range rules {
		if _, ok := l.buckets[rule.Key]; ok {
			continue
		}
		l.buckets[rule.Key] = ratelimit.NewBucketWithQuantum(rule.FillInterval, rule.Capacity, rule.Quantum)
		l.keys = append(l.keys, rule.Key)
	}
	// longest prefix wins
	for i := 1; i < len(l.keys); i++ {
		for j := i; j > 0 && len(l.keys[j]) > len(l.keys[j-1]); j-- {
			l.keys[j], l.keys[j-1] = l.keys[j-1], l.keys[j]
		}
	}
	return l
}
