package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Produccion-api/internal/application/ports"
	"github.com/jhoicas/Produccion-api/internal/domain"
)

var _ ports.Locker = (*Locker)(nil)

// Locker bloqueo distribuido por clave (producción o transferencia) sobre redislock.
type Locker struct {
	client *redislock.Client
	prefix string
	log    zerolog.Logger
}

// NewLocker construye el locker sobre el cliente Redis.
func NewLocker(rdb redis.UniversalClient, prefix string, log zerolog.Logger) *Locker {
	return &Locker{client: redislock.New(rdb), prefix: prefix, log: log}
}

// Obtain intenta tomar el lock sin reintentos. Si está tomado devuelve domain.ErrConflict.
func (l *Locker) Obtain(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	full := "lock:" + key
	if l.prefix != "" {
		full = l.prefix + ":" + full
	}
	lock, err := l.client.Obtain(ctx, full, ttl, nil)
	if err != nil {
		return nil, obtainError(key, err)
	}
	return func() {
		// contexto propio: la request pudo cancelarse antes de liberar
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := lock.Release(rctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.log.Warn().Err(err).Str("lock", full).Msg("no se pudo liberar el lock")
		}
	}, nil
}

func obtainError(key string, err error) error {
	if errors.Is(err, redislock.ErrNotObtained) {
		return fmt.Errorf("operación en curso sobre %s: %w", key, domain.ErrConflict)
	}
	return fmt.Errorf("obtain lock %s: %w", key, err)
}
