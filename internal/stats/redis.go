package stats

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps counters in Redis hashes:
//
//	<prefix>:<operation>                      result -> count (cumulative)
//	<prefix>:<operation>:day:<YYYYMMDD>       result -> count (expires after ttl)
//	<prefix>:<operation>:reasons              reason -> count (cumulative)
type RedisStore struct {
	rdb    redis.Cmdable
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithPrefix sets the key prefix (default "kit:stats").
func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		if p := strings.Trim(prefix, ":"); p != "" {
			s.prefix = p
		}
	}
}

// WithTTL sets the expiry of the daily buckets (default 7 days). Zero keeps
// them forever.
func WithTTL(d time.Duration) RedisOption {
	return func(s *RedisStore) { s.ttl = d }
}

// NewRedisStore creates a RedisStore over rdb.
func NewRedisStore(rdb redis.Cmdable, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		rdb:    rdb,
		prefix: "kit:stats",
		ttl:    7 * 24 * time.Hour,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record implements Recorder.
func (s *RedisStore) Record(ctx context.Context, ev Event) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	at := ev.At
	if at.IsZero() {
		at = s.now()
	}

	base := s.prefix + ":" + string(ev.Operation)
	field := string(ev.Result)

	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, base, field, 1)

	dayKey := fmt.Sprintf("%s:day:%s", base, at.UTC().Format("20060102"))
	pipe.HIncrBy(ctx, dayKey, field, 1)
	if s.ttl > 0 {
		pipe.Expire(ctx, dayKey, s.ttl)
	}

	if reason := strings.TrimSpace(ev.Reason); reason != "" {
		pipe.HIncrBy(ctx, base+":reasons", reason, 1)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("recording %s stats: %w", ev.Operation, err)
	}
	return nil
}

// Counters reads the cumulative counters for op.
func (s *RedisStore) Counters(ctx context.Context, op Operation) (Counters, error) {
	vals, err := s.rdb.HGetAll(ctx, s.prefix+":"+string(op)).Result()
	if err != nil {
		return Counters{}, fmt.Errorf("reading %s stats: %w", op, err)
	}
	var c Counters
	for field, raw := range vals {
		var n int64
		if _, err := fmt.Sscan(raw, &n); err != nil {
			continue
		}
		switch Result(field) {
		case ResultSucceeded:
			c.Succeeded = n
		case ResultRejected:
			c.Rejected = n
		case ResultFailed:
			c.Failed = n
		}
	}
	return c, nil
}
