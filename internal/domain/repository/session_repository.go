package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"user_hub/internal/common"
	"user_hub/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

// SessionRepository owns the session table keyed by session id, plus the
// per-user index needed to revoke everything a user holds when the backing
// record is deleted. Delete of an absent session is a no-op, not an error.
type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	Find(ctx context.Context, id string) (*model.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteAllForUser(ctx context.Context, userID string) error
}

const (
	sessionKeyPrefix     = "session:"
	userSessionKeyPrefix = "user_sessions:"
)

type redisSessionRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisSessionRepository stores sessions in Redis with the given TTL. The
// TTL is the deployment's session expiry policy; it should cover at least the
// refresh-token lifetime so a live token never outlasts its session.
func NewRedisSessionRepository(rdb *redis.Client, ttl time.Duration) SessionRepository {
	return &redisSessionRepository{rdb: rdb, ttl: ttl}
}

func (r *redisSessionRepository) Create(ctx context.Context, session *model.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("redisSessionRepository.Create marshal: %w", err)
	}

	pipe := r.rdb.TxPipeline()
	pipe.Set(ctx, sessionKeyPrefix+session.ID, payload, r.ttl)
	pipe.SAdd(ctx, userSessionKeyPrefix+session.UserID, session.ID)
	pipe.Expire(ctx, userSessionKeyPrefix+session.UserID, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redisSessionRepository.Create: %w", err)
	}
	return nil
}

func (r *redisSessionRepository) Find(ctx context.Context, id string) (*model.Session, error) {
	payload, err := r.rdb.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("redisSessionRepository.Find: %w", err)
	}

	session := &model.Session{}
	if err := json.Unmarshal(payload, session); err != nil {
		return nil, fmt.Errorf("redisSessionRepository.Find unmarshal: %w", err)
	}
	return session, nil
}

func (r *redisSessionRepository) Delete(ctx context.Context, id string) error {
	session, err := r.Find(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		return err
	}

	pipe := r.rdb.TxPipeline()
	pipe.Del(ctx, sessionKeyPrefix+id)
	pipe.SRem(ctx, userSessionKeyPrefix+session.UserID, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redisSessionRepository.Delete: %w", err)
	}
	return nil
}

func (r *redisSessionRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	ids, err := r.rdb.SMembers(ctx, userSessionKeyPrefix+userID).Result()
	if err != nil {
		return fmt.Errorf("redisSessionRepository.DeleteAllForUser: %w", err)
	}

	pipe := r.rdb.TxPipeline()
	for _, id := range ids {
		pipe.Del(ctx, sessionKeyPrefix+id)
	}
	pipe.Del(ctx, userSessionKeyPrefix+userID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redisSessionRepository.DeleteAllForUser: %w", err)
	}
	return nil
}
