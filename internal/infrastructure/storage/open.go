// Package storage selecciona el backend del almacén de documentos según la configuración.
package storage

import (
	"context"
	"fmt"

	"github.com/jhoicas/gestor-tareas/internal/domain/repository"
	"github.com/jhoicas/gestor-tareas/internal/infrastructure/filestore"
	"github.com/jhoicas/gestor-tareas/internal/infrastructure/postgres"
	"github.com/jhoicas/gestor-tareas/pkg/config"
	"github.com/jhoicas/gestor-tareas/pkg/logger"
)

// Open devuelve el DocumentStore configurado (STORE_DRIVER) y la función que libera sus recursos.
// Con postgres crea la tabla de documentos si no existe.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.DocumentStore, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreDriverFile:
		log.Info().Str("dir", cfg.Store.DataDir).Msg("almacén de documentos en archivos")
		return filestore.New(cfg.Store.DataDir), func() {}, nil
	case config.StoreDriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		repo := postgres.NewDocumentRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		log.Info().Str("host", cfg.DB.Host).Str("db", cfg.DB.DBName).Msg("almacén de documentos en PostgreSQL")
		return repo, pool.Close, nil
	}
	return nil, nil, fmt.Errorf("driver de almacenamiento desconocido %q", cfg.Store.Driver)
}
