// Package keyValue is the short lived state store: password reset tokens,
// revoked sessions and voice channel presence. It runs on redis, or on an in
// process map when the app is self-contained.
package keyValue

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type value struct {
	value   string
	expires time.Time
}

func (v value) expired(now time.Time) bool {
	return !v.expires.IsZero() && v.expires.Before(now)
}

type Store struct {
	sugar       *zap.SugaredLogger
	redisClient *redis.Client

	mutex   sync.RWMutex
	hashmap map[string]value
	hashes  map[string]map[string]string
}

// New returns a Store backed by redisClient, or by local maps when redisClient is nil.
// Local expired keys are swept every minute until ctx ends.
func New(ctx context.Context, sugar *zap.SugaredLogger, redisClient *redis.Client) *Store {
	s := &Store{
		sugar:       sugar,
		redisClient: redisClient,
	}

	if s.local() {
		s.hashmap = make(map[string]value)
		s.hashes = make(map[string]map[string]string)
		go s.checkForLocalExpiredKeys(ctx)
	}

	return s
}

func (s *Store) local() bool {
	return s.redisClient == nil
}

func (s *Store) checkForLocalExpiredKeys(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.mutex.Lock()
			for key, v := range s.hashmap {
				if v.expired(now) {
					delete(s.hashmap, key)
				}
			}
			s.mutex.Unlock()
		}
	}
}

// Get returns "" for missing keys.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if s.local() {
		s.sugar.Debugf("Getting value of key [%s] from hashmap", key)

		s.mutex.RLock()
		defer s.mutex.RUnlock()

		v, ok := s.hashmap[key]
		if !ok || v.expired(time.Now()) {
			return "", nil
		}
		return v.value, nil
	}

	s.sugar.Debugf("Getting value of key [%s] from redis", key)

	result, err := s.redisClient.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return result, err
}

// GetDel returns "" for missing keys.
func (s *Store) GetDel(ctx context.Context, key string) (string, error) {
	if s.local() {
		s.sugar.Debugf("Getting and deleting value of key [%s] from hashmap", key)

		s.mutex.Lock()
		defer s.mutex.Unlock()

		v, ok := s.hashmap[key]
		delete(s.hashmap, key)
		if !ok || v.expired(time.Now()) {
			return "", nil
		}
		return v.value, nil
	}

	s.sugar.Debugf("Getting and deleting value of key [%s] from redis", key)

	result, err := s.redisClient.GetDel(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return result, err
}

// Set stores value under key. A zero expires keeps it forever.
func (s *Store) Set(ctx context.Context, key string, val string, expires time.Duration) error {
	if s.local() {
		s.sugar.Debugf("Setting value of key [%s] in hashmap", key)

		s.mutex.Lock()
		defer s.mutex.Unlock()

		v := value{value: val}
		if expires > 0 {
			v.expires = time.Now().Add(expires)
		}
		s.hashmap[key] = v
		return nil
	}

	s.sugar.Debugf("Setting value of key [%s] in redis", key)
	return s.redisClient.Set(ctx, key, val, expires).Err()
}

func (s *Store) HSet(ctx context.Context, key string, field string, val string) error {
	if s.local() {
		s.mutex.Lock()
		defer s.mutex.Unlock()

		hash, ok := s.hashes[key]
		if !ok {
			hash = make(map[string]string)
			s.hashes[key] = hash
		}
		hash[field] = val
		return nil
	}

	return s.redisClient.HSet(ctx, key, field, val).Err()
}

// HGet returns "" for missing fields.
func (s *Store) HGet(ctx context.Context, key string, field string) (string, error) {
	if s.local() {
		s.mutex.RLock()
		defer s.mutex.RUnlock()

		return s.hashes[key][field], nil
	}

	result, err := s.redisClient.HGet(ctx, key, field).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return result, err
}

// HDel reports whether the field existed.
func (s *Store) HDel(ctx context.Context, key string, field string) (bool, error) {
	if s.local() {
		s.mutex.Lock()
		defer s.mutex.Unlock()

		hash := s.hashes[key]
		_, existed := hash[field]
		delete(hash, field)

		// drop empty hashes the same way redis does
		if len(hash) == 0 {
			delete(s.hashes, key)
		}
		return existed, nil
	}

	removed, err := s.redisClient.HDel(ctx, key, field).Result()
	return removed > 0, err
}

func (s *Store) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if s.local() {
		s.mutex.RLock()
		defer s.mutex.RUnlock()

		out := make(map[string]string, len(s.hashes[key]))
		for field, v := range s.hashes[key] {
			out[field] = v
		}
		return out, nil
	}

	return s.redisClient.HGetAll(ctx, key).Result()
}
