// Package filestore implementa repository.DocumentStore sobre archivos JSON locales:
// un archivo <clave>.json por documento dentro de un directorio de datos.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhoicas/gestor-tareas/internal/domain"
	"github.com/jhoicas/gestor-tareas/internal/domain/repository"
)

var _ repository.DocumentStore = (*FileStore)(nil)

// FileStore guarda cada documento en su propio archivo. La escritura es por archivo
// temporal + rename, de modo que un lector nunca ve un documento a medio escribir.
type FileStore struct {
	dir string
}

// New construye el almacén sobre el directorio indicado (se crea al primer Save).
func New(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir devuelve el directorio de datos.
func (s *FileStore) Dir() string { return s.dir }

// Load lee el documento. Un archivo inexistente devuelve (nil, nil).
func (s *FileStore) Load(_ context.Context, key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("leer %s: %w: %w", key, domain.ErrIO, err)
	}
	return data, nil
}

// Save sobrescribe el documento completo.
func (s *FileStore) Save(_ context.Context, key string, data []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("crear directorio %s: %w: %w", s.dir, domain.ErrIO, err)
	}
	tmp, err := os.CreateTemp(s.dir, "."+key+".*.tmp")
	if err != nil {
		return fmt.Errorf("guardar %s: %w: %w", key, domain.ErrIO, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("guardar %s: %w: %w", key, domain.ErrIO, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("guardar %s: %w: %w", key, domain.ErrIO, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("guardar %s: %w: %w", key, domain.ErrIO, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("guardar %s: %w: %w", key, domain.ErrIO, err)
	}
	return nil
}

// Delete elimina el archivo del documento si existe.
func (s *FileStore) Delete(_ context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("eliminar %s: %w: %w", key, domain.ErrIO, err)
	}
	return nil
}

func (s *FileStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return "", fmt.Errorf("clave de documento %q: %w", key, domain.ErrInvalidInput)
	}
	return filepath.Join(s.dir, key+".json"), nil
}
