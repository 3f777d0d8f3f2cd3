package repository

import "context"

// DocumentStore define el puerto de persistencia de documentos JSON identificados por clave (DIP).
// Las implementaciones viven en infrastructure (archivos locales o PostgreSQL).
type DocumentStore interface {
	// Load devuelve el contenido crudo del documento. Un documento inexistente
	// devuelve (nil, nil); solo los fallos de infraestructura devuelven error.
	Load(ctx context.Context, key string) ([]byte, error)
	// Save sobrescribe el documento completo, creando la estructura contenedora si falta.
	Save(ctx context.Context, key string, data []byte) error
	// Delete elimina el documento. Eliminar un documento inexistente no es error.
	Delete(ctx context.Context, key string) error
}
