package main

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/notizen-app/notizen/types"
)

const limiterWindow = time.Minute

// A client that has been limited gets a fresh window after this long.
const limiterRetryWindow = 60 * time.Second

// windowStore counts requests per client over a moving window. Allow
// satisfies echo's middleware.RateLimiterStore.
type windowStore interface {
	Allow(identifier string) (bool, error)
	RetryAfter(identifier string) time.Duration
}

func rateLimitMiddleware(cfg types.Config) echo.MiddlewareFunc {
	if !cfg.LimiterEnabled {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	var store windowStore
	if cfg.LimiterRedisAddr != "" {
		store = newRedisWindowStore(redis.NewClient(&redis.Options{Addr: cfg.LimiterRedisAddr}), cfg.LimiterPerMinute)
	} else {
		store = newMemoryWindowStore(cfg.LimiterPerMinute)
	}

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		Store: store,
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			retryAfter := int(store.RetryAfter(identifier).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}

			c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
			return c.Render(http.StatusTooManyRequests, "rate_limit", types.RateLimitPageData{
				Page:       newPage(c),
				RetryAfter: retryAfter,
				ResetTime:  time.Now().Add(time.Duration(retryAfter) * time.Second).Format("15:04:05"),
			})
		},
	})
}

type clientWindow struct {
	events   []time.Time
	deniedAt time.Time
}

type memoryWindowStore struct {
	mu        sync.Mutex
	limit     int
	clients   map[string]*clientWindow
	now       func() time.Time
	lastSweep time.Time
}

func newMemoryWindowStore(limit int) *memoryWindowStore {
	return &memoryWindowStore{
		limit:   limit,
		clients: map[string]*clientWindow{},
		now:     time.Now,
	}
}

func (s *memoryWindowStore) Allow(identifier string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)
	w, ok := s.clients[identifier]
	if !ok {
		w = &clientWindow{}
		s.clients[identifier] = w
	}

	// A limited client starts over once the retry window has passed.
	if !w.deniedAt.IsZero() && now.Sub(w.deniedAt) >= limiterRetryWindow {
		w.events = nil
		w.deniedAt = time.Time{}
	}

	cutoff := now.Add(-limiterWindow)
	kept := w.events[:0]
	for _, t := range w.events {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	w.events = kept

	if len(w.events) < s.limit {
		w.events = append(w.events, now)
		return true, nil
	}

	if w.deniedAt.IsZero() {
		w.deniedAt = now
	}
	return false, nil
}

// sweep drops clients whose events have all aged out and whose retry window
// has passed, so the map does not grow with every distinct IP ever seen.
// Runs at most once per window. Callers hold the lock.
func (s *memoryWindowStore) sweep(now time.Time) {
	if now.Sub(s.lastSweep) < limiterWindow {
		return
	}
	s.lastSweep = now

	cutoff := now.Add(-limiterWindow)
	for id, w := range s.clients {
		if !w.deniedAt.IsZero() && now.Sub(w.deniedAt) < limiterRetryWindow {
			continue
		}
		if len(w.events) > 0 && w.events[len(w.events)-1].After(cutoff) {
			continue
		}
		delete(s.clients, id)
	}
}

func (s *memoryWindowStore) RetryAfter(identifier string) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.clients[identifier]
	if !ok || w.deniedAt.IsZero() {
		return limiterRetryWindow
	}
	remaining := limiterRetryWindow - s.now().Sub(w.deniedAt)
	if remaining < time.Second {
		remaining = time.Second
	}
	return remaining
}

type redisWindowStore struct {
	client *redis.Client
	limit  int
}

func newRedisWindowStore(client *redis.Client, limit int) *redisWindowStore {
	return &redisWindowStore{client: client, limit: limit}
}

func (s *redisWindowStore) Allow(identifier string) (bool, error) {
	ctx := context.Background()
	deniedKey := "ratelimit:denied:" + identifier
	eventsKey := "ratelimit:events:" + identifier

	ttl, err := s.client.PTTL(ctx, deniedKey).Result()
	if err != nil {
		return false, err
	}
	if ttl > 0 {
		return false, nil
	}

	now := time.Now()
	pipe := s.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, eventsKey, "0", strconv.FormatInt(now.Add(-limiterWindow).UnixNano(), 10))
	countCmd := pipe.ZCard(ctx, eventsKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	if countCmd.Val() < int64(s.limit) {
		score := float64(now.UnixNano())
		pipe := s.client.TxPipeline()
		pipe.ZAdd(ctx, eventsKey, redis.Z{Score: score, Member: now.UnixNano()})
		pipe.Expire(ctx, eventsKey, limiterWindow)
		if _, err := pipe.Exec(ctx); err != nil {
			return false, err
		}
		return true, nil
	}

	// First denial marks the client; the events reset now so the retry
	// window starts clean.
	pipe = s.client.TxPipeline()
	pipe.SetNX(ctx, deniedKey, "1", limiterRetryWindow)
	pipe.Del(ctx, eventsKey)
	if _, err := pipe.Exec(ctx); err != nil {
		logrus.Error("marking rate limited client: ", err)
	}
	return false, nil
}

func (s *redisWindowStore) RetryAfter(identifier string) time.Duration {
	ttl, err := s.client.PTTL(context.Background(), "ratelimit:denied:"+identifier).Result()
	if err != nil || ttl <= 0 {
		return limiterRetryWindow
	}
	return ttl
}
