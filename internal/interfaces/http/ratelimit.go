package http

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/jhoicas/gestor-tareas/internal/application/dto"
	"github.com/jhoicas/gestor-tareas/pkg/logger"
)

// RateLimiter limita peticiones por clave (IP del cliente). Con Redis el contador es
// compartido entre instancias; si Redis falla o no está configurado se usa un limitador local.
type RateLimiter struct {
	limiter  *redis_rate.Limiter
	fallback *localLimiter
	limit    redis_rate.Limit
	prefix   string
	log      *logger.Logger
}

// NewRateLimiter construye el limitador. rdb puede ser nil.
func NewRateLimiter(rdb *redis.Client, perMinute, burst int, prefix string, log *logger.Logger) *RateLimiter {
	if log == nil {
		log = logger.Nop()
	}
	if perMinute <= 0 {
		perMinute = 1
	}
	if burst <= 0 {
		burst = 1
	}
	rl := &RateLimiter{
		fallback: newLocalLimiter(),
		limit:    redis_rate.Limit{Rate: perMinute, Burst: burst, Period: time.Minute},
		prefix:   prefix,
		log:      log,
	}
	if rdb != nil {
		rl.limiter = redis_rate.NewLimiter(rdb)
	}
	return rl
}

// Handler middleware de Fiber. Responde 429 RATE_LIMITED con Retry-After al superar el límite.
func (rl *RateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := "ratelimit:" + rl.prefix + ":ip:" + c.IP()
		res := rl.allow(c.UserContext(), key)

		c.Set("X-RateLimit-Limit", strconv.Itoa(rl.limit.Rate))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

		if res.Allowed == 0 {
			retryAfter := int(res.RetryAfter.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code:    "RATE_LIMITED",
				Message: fmt.Sprintf("demasiados intentos, reintente en %d segundos", retryAfter),
			})
		}
		return c.Next()
	}
}

func (rl *RateLimiter) allow(ctx context.Context, key string) *redis_rate.Result {
	if rl.limiter != nil {
		res, err := rl.limiter.Allow(ctx, key, rl.limit)
		if err == nil {
			return res
		}
		rl.log.Warn().Err(err).Str("key", key).Msg("limitador Redis no disponible, se usa el local")
	}
	return rl.fallback.allow(key, rl.limit)
}

// localLimiter token bucket por clave en memoria del proceso.
type localLimiter struct {
	mu       sync.Mutex
	limiters map[string]*localEntry
}

type localEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

const localEntryTTL = 10 * time.Minute

func newLocalLimiter() *localLimiter {
	return &localLimiter{limiters: make(map[string]*localEntry)}
}

func (l *localLimiter) allow(key string, limit redis_rate.Limit) *redis_rate.Result {
	ratePerSec := float64(limit.Rate) / limit.Period.Seconds()
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	// Limpieza perezosa de claves sin uso.
	for k, e := range l.limiters {
		if now.Sub(e.lastAccess) > localEntryTTL {
			delete(l.limiters, k)
		}
	}
	entry, ok := l.limiters[key]
	if !ok {
		entry = &localEntry{limiter: rate.NewLimiter(rate.Limit(ratePerSec), limit.Burst)}
		l.limiters[key] = entry
	}
	entry.lastAccess = now

	res := &redis_rate.Result{
		Limit:      limit,
		ResetAfter: time.Duration(float64(time.Second) / ratePerSec),
		RetryAfter: -1,
	}
	if entry.limiter.AllowN(now, 1) {
		res.Allowed = 1
	} else {
		res.RetryAfter = time.Duration(float64(time.Second) / ratePerSec)
	}
	if remaining := int(entry.limiter.TokensAt(now)); remaining > 0 {
		res.Remaining = remaining
	}
	return res
}
