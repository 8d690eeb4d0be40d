package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis stores session keys as session:<sid>:<key> with a sliding TTL.
// Failures are logged and swallowed; callers see a miss and fall back to
// defaults, the same way the original page treated cleared local storage.
type Redis struct {
	rc  *redis.Client
	ttl time.Duration
	log *zap.SugaredLogger
}

// NewRedis wraps an existing client. ttl bounds how long an idle session
// survives; every write refreshes it.
func NewRedis(rc *redis.Client, ttl time.Duration, log *zap.SugaredLogger) *Redis {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &Redis{rc: rc, ttl: ttl, log: log}
}

func (r *Redis) key(sid, key string) string {
	return "session:" + sid + ":" + key
}

func (r *Redis) Get(ctx context.Context, sid, key string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	v, err := r.rc.Get(ctx, r.key(sid, key)).Result()
	if err != nil {
		if err != redis.Nil && r.log != nil {
			r.log.Debugf("session get failed sid=%s key=%s err=%v", sid, key, err)
		}
		return "", false
	}
	return v, true
}

func (r *Redis) Set(ctx context.Context, sid, key, value string) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := r.rc.Set(ctx, r.key(sid, key), value, r.ttl).Err(); err != nil && r.log != nil {
		r.log.Warnf("session set failed sid=%s key=%s err=%v", sid, key, err)
	}
}

func (r *Redis) Delete(ctx context.Context, sid string, keys ...string) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.key(sid, k)
	}
	if err := r.rc.Del(ctx, full...).Err(); err != nil && r.log != nil {
		r.log.Warnf("session delete failed sid=%s err=%v", sid, err)
	}
}

// Clear removes every key of the session via SCAN, pipelining deletes.
func (r *Redis) Clear(ctx context.Context, sid string) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	pattern := "session:" + sid + ":*"
	var cursor uint64
	for i := 0; i < 10; i++ { // limit rounds to avoid long loops
		keys, cur, err := r.rc.Scan(ctx, cursor, pattern, 1000).Result()
		if err != nil {
			if r.log != nil {
				r.log.Warnf("session clear scan failed sid=%s err=%v", sid, err)
			}
			return
		}
		cursor = cur
		if len(keys) > 0 {
			pipe := r.rc.Pipeline()
			for _, k := range keys {
				pipe.Del(ctx, k)
			}
			_, _ = pipe.Exec(ctx)
		}
		if cursor == 0 {
			break
		}
	}
}
