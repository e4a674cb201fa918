package onboarding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"collabhub/models"

	"github.com/go-redis/redis/v8"
)

const (
	sessionKeyPrefix = "onboarding:session:"
	fileKeyPrefix    = "onboarding:file:"
	lockKeyPrefix    = "onboarding:lock:"

	maxUpdateAttempts = 5
)

// RedisSessionStore keeps drafts as JSON strings with a sliding TTL. Staged files share the TTL.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func sessionKey(userID string) string { return sessionKeyPrefix + userID }

func fileKey(userID string, kind FileKind) string {
	return fileKeyPrefix + userID + ":" + string(kind)
}

func lockKey(userID string) string { return lockKeyPrefix + userID }

func (r *RedisSessionStore) Load(ctx context.Context, userID string) (*models.WizardSession, error) {
	data, err := r.client.Get(ctx, sessionKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load onboarding session: %w", err)
	}
	var s models.WizardSession
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal onboarding session: %w", err)
	}
	return &s, nil
}

func (r *RedisSessionStore) Save(ctx context.Context, s *models.WizardSession) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal onboarding session: %w", err)
	}
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, sessionKey(s.UserID), data, r.ttl)
	pipe.Expire(ctx, fileKey(s.UserID, FileProfilePicture), r.ttl)
	pipe.Expire(ctx, fileKey(s.UserID, FileLogo), r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save onboarding session: %w", err)
	}
	return nil
}

// Update watches the draft and the submit lock. A write to either between the read and the
// MULTI/EXEC aborts the transaction and fn runs again on the fresh draft.
func (r *RedisSessionStore) Update(ctx context.Context, userID string, fn UpdateFunc) (*models.WizardSession, error) {
	key, lock := sessionKey(userID), lockKey(userID)
	var out *models.WizardSession
	var fnErr error

	txf := func(tx *redis.Tx) error {
		out, fnErr = nil, nil
		held, err := tx.Exists(ctx, lock).Result()
		if err != nil {
			return fmt.Errorf("failed to check submit lock: %w", err)
		}
		if held > 0 {
			return ErrSubmissionInProgress
		}
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrNoSession
		}
		if err != nil {
			return fmt.Errorf("failed to load onboarding session: %w", err)
		}
		var s models.WizardSession
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("failed to unmarshal onboarding session: %w", err)
		}
		save, ferr := fn(&s)
		out, fnErr = &s, ferr
		if !save {
			return nil
		}
		payload, err := json.Marshal(&s)
		if err != nil {
			return fmt.Errorf("failed to marshal onboarding session: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, r.ttl)
			pipe.Expire(ctx, fileKey(userID, FileProfilePicture), r.ttl)
			pipe.Expire(ctx, fileKey(userID, FileLogo), r.ttl)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := r.client.Watch(ctx, txf, key, lock)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return out, fnErr
	}
	return nil, ErrConcurrentUpdate
}

func (r *RedisSessionStore) Clear(ctx context.Context, userID string) error {
	err := r.client.Del(ctx,
		sessionKey(userID),
		fileKey(userID, FileProfilePicture),
		fileKey(userID, FileLogo),
	).Err()
	if err != nil {
		return fmt.Errorf("failed to clear onboarding session: %w", err)
	}
	return nil
}

func (r *RedisSessionStore) SaveFile(ctx context.Context, userID string, kind FileKind, data []byte) error {
	if err := r.client.Set(ctx, fileKey(userID, kind), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to stage %s: %w", kind, err)
	}
	return nil
}

func (r *RedisSessionStore) LoadFile(ctx context.Context, userID string, kind FileKind) ([]byte, error) {
	data, err := r.client.Get(ctx, fileKey(userID, kind)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load staged %s: %w", kind, err)
	}
	return data, nil
}

func (r *RedisSessionStore) DeleteFile(ctx context.Context, userID string, kind FileKind) error {
	return r.client.Del(ctx, fileKey(userID, kind)).Err()
}

func (r *RedisSessionStore) AcquireSubmitLock(ctx context.Context, userID string, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, lockKey(userID), time.Now().Unix(), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire submit lock: %w", err)
	}
	return ok, nil
}

func (r *RedisSessionStore) ReleaseSubmitLock(ctx context.Context, userID string) error {
	return r.client.Del(ctx, lockKey(userID)).Err()
}
