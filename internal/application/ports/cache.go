package ports

import (
	"context"
	"time"
)

// Claves de estadísticas agregadas cacheadas.
const (
	StatsKeyMovements = "stats:movimientos"
	StatsKeyBranches  = "stats:sucursales"
)

// StatsCache caché de agregados. Cualquier mutación invalida las claves afectadas.
type StatsCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// NoopCache nunca encuentra nada.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string, any) (bool, error)        { return false, nil }
func (NoopCache) Set(context.Context, string, any, time.Duration) error { return nil }
func (NoopCache) Invalidate(context.Context, ...string) error           { return nil }
