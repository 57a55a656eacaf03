package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/payments-example/internal/platform/logger"
)

const (
	idempotencyKeyPrefix = "idempotency:payments:"

	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultLockTTL        = 30 * time.Second
)

type RecordState string

const (
	StateInFlight  RecordState = "in_flight"
	StateCompleted RecordState = "completed"
)

// Record is what the store keeps per idempotency key.
type Record struct {
	State       RecordState `json:"state"`
	Status      int         `json:"status,omitempty"`
	ContentType string      `json:"contentType,omitempty"`
	Body        []byte      `json:"body,omitempty"`
	// Token identifies the request holding an in-flight reservation.
	Token string `json:"token,omitempty"`
}

// releaseScript deletes KEYS[1] only while it still holds the caller's reservation.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then return redis.call("DEL", KEYS[1]) end return 0`

// commands is the subset of the redis client the store uses.
type commands interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.BoolCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *goredis.Cmd
}

type IdempotencyStore struct {
	log     *logger.Logger
	rdb     commands
	ttl     time.Duration
	lockTTL time.Duration
}

func NewIdempotencyStore(rdb goredis.Cmdable, log *logger.Logger, ttl time.Duration) *IdempotencyStore {
	return newIdempotencyStore(rdb, log, ttl)
}

func newIdempotencyStore(rdb commands, log *logger.Logger, ttl time.Duration) *IdempotencyStore {
	if log == nil {
		log = logger.Nop()
	}
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	return &IdempotencyStore{
		log:     log.With("client", "IdempotencyStore"),
		rdb:     rdb,
		ttl:     ttl,
		lockTTL: DefaultLockTTL,
	}
}

// Get returns the record stored under key, or false when there is none.
func (s *IdempotencyStore) Get(ctx context.Context, key string) (Record, bool, error) {
	raw, err := s.rdb.Get(ctx, s.redisKey(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("idempotency get: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		s.log.Warn("bad idempotency record", "key", key, "error", err)
		return Record{}, false, fmt.Errorf("idempotency decode: %w", err)
	}
	return rec, true, nil
}

// Reserve marks key as in flight and returns the token that owns the reservation.
// It reports false when another request already holds the key.
func (s *IdempotencyStore) Reserve(ctx context.Context, key string) (string, bool, error) {
	token := uuid.NewString()
	raw, err := reservation(token)
	if err != nil {
		return "", false, err
	}
	ok, err := s.rdb.SetNX(ctx, s.redisKey(key), raw, s.lockTTL).Result()
	if err != nil {
		return "", false, fmt.Errorf("idempotency reserve: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Complete stores the final response for key for the configured TTL.
func (s *IdempotencyStore) Complete(ctx context.Context, key string, rec Record) error {
	rec.State = StateCompleted
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, s.redisKey(key), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency complete: %w", err)
	}
	return nil
}

// Release drops the reservation made with token so the client may retry. A reservation that
// expired and was taken over by another request is left alone.
func (s *IdempotencyStore) Release(ctx context.Context, key, token string) error {
	raw, err := reservation(token)
	if err != nil {
		return err
	}
	n, err := s.rdb.Eval(ctx, releaseScript, []string{s.redisKey(key)}, string(raw)).Int64()
	if err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	if n == 0 {
		s.log.Warn("idempotency reservation no longer owned; not released", "key", key)
	}
	return nil
}

// reservation is the stored form of an in-flight record. Release compares it byte for byte.
func reservation(token string) ([]byte, error) {
	return json.Marshal(Record{State: StateInFlight, Token: token})
}

func (s *IdempotencyStore) redisKey(key string) string {
	return idempotencyKeyPrefix + strings.TrimSpace(key)
}
