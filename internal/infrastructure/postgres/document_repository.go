package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/gestor-tareas/internal/domain"
	"github.com/jhoicas/gestor-tareas/internal/domain/repository"
)

// Asegura que DocumentRepo implementa repository.DocumentStore.
var _ repository.DocumentStore = (*DocumentRepo)(nil)

const schemaDocumentos = `
	CREATE TABLE IF NOT EXISTS documentos (
		clave          TEXT PRIMARY KEY,
		contenido      JSONB NOT NULL,
		actualizado_en TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

// DBTX lo que el repositorio usa de la conexión; lo implementan *pgxpool.Pool y pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DocumentRepo implementación del puerto DocumentStore sobre una tabla JSONB de PostgreSQL.
// Cada documento lógico (empresas, proyectos, usuarios, tareas_<id>) es una fila.
type DocumentRepo struct {
	db DBTX
}

// NewDocumentRepository construye el adaptador de persistencia de documentos.
func NewDocumentRepository(db DBTX) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// EnsureSchema crea la tabla de documentos si no existe.
func (r *DocumentRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schemaDocumentos); err != nil {
		return fmt.Errorf("crear tabla documentos: %w: %w", domain.ErrIO, err)
	}
	return nil
}

// Load obtiene el contenido del documento. Sin fila (o sin tabla) devuelve (nil, nil).
func (r *DocumentRepo) Load(ctx context.Context, key string) ([]byte, error) {
	var content []byte
	err := r.db.QueryRow(ctx, `SELECT contenido FROM documentos WHERE clave = $1`, key).Scan(&content)
	if err != nil {
		if isNoRows(err) || isUndefinedTable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get documento %s: %w: %w", key, domain.ErrIO, err)
	}
	return content, nil
}

// Save inserta o reemplaza el documento completo.
func (r *DocumentRepo) Save(ctx context.Context, key string, data []byte) error {
	query := `
		INSERT INTO documentos (clave, contenido, actualizado_en)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (clave) DO UPDATE SET contenido = EXCLUDED.contenido, actualizado_en = now()`
	if _, err := r.db.Exec(ctx, query, key, string(data)); err != nil {
		return fmt.Errorf("upsert documento %s: %w: %w", key, domain.ErrIO, err)
	}
	return nil
}

// Delete elimina el documento por clave.
func (r *DocumentRepo) Delete(ctx context.Context, key string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM documentos WHERE clave = $1`, key); err != nil {
		return fmt.Errorf("delete documento %s: %w: %w", key, domain.ErrIO, err)
	}
	return nil
}
