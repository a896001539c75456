package ports

import (
	"context"
	"time"
)

// Locker serializa operaciones destructivas sobre una misma clave entre instancias.
// Obtain devuelve domain.ErrConflict si otra operación mantiene el bloqueo.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}

// NoopLocker no bloquea; se usa cuando no hay Redis configurado (la transacción sigue protegiendo las filas).
type NoopLocker struct{}

// Obtain implementa Locker.
func (NoopLocker) Obtain(context.Context, string, time.Duration) (func(), error) {
	return func() {}, nil
}
