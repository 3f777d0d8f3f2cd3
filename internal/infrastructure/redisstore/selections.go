package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/gestor-tareas/internal/application/access"
)

var _ access.SelectionStore = (*Selections)(nil)

const selectionPrefix = "gestor:proyecto_activo:"

// Selections guarda el proyecto activo de cada sesión en Redis, con vencimiento igual al
// del token para no acumular sesiones muertas.
type Selections struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSelections construye el almacén. ttl <= 0 = sin vencimiento.
func NewSelections(rdb *redis.Client, ttl time.Duration) *Selections {
	return &Selections{rdb: rdb, ttl: ttl}
}

func (s *Selections) Get(ctx context.Context, sessionID string) (int, bool, error) {
	id, err := s.rdb.Get(ctx, selectionPrefix+sessionID).Int()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

func (s *Selections) Set(ctx context.Context, sessionID string, projectID int) error {
	ttl := s.ttl
	if ttl < 0 {
		ttl = 0
	}
	return s.rdb.Set(ctx, selectionPrefix+sessionID, projectID, ttl).Err()
}

func (s *Selections) Delete(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, selectionPrefix+sessionID).Err()
}
