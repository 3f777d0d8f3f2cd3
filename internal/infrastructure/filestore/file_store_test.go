package filestore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestor-tareas/internal/domain"
	"github.com/jhoicas/gestor-tareas/internal/infrastructure/filestore"
)

func TestFileStore_LoadInexistenteDevuelveNil(t *testing.T) {
	s := filestore.New(filepath.Join(t.TempDir(), "no-existe"))

	data, err := s.Load(context.Background(), "empresas")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestFileStore_SaveCreaDirectorioYSobrescribe(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "anidado", "datos")
	s := filestore.New(dir)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "tareas_1", []byte(`{"a":1}`)))
	require.NoError(t, s.Save(ctx, "tareas_1", []byte(`{"b":2}`)))

	data, err := s.Load(ctx, "tareas_1")
	require.NoError(t, err)
	assert.Equal(t, `{"b":2}`, string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no deben quedar archivos temporales")
}

func TestFileStore_Delete(t *testing.T) {
	s := filestore.New(t.TempDir())
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "tareas_7", []byte(`{}`)))
	require.NoError(t, s.Delete(ctx, "tareas_7"))
	require.NoError(t, s.Delete(ctx, "tareas_7"), "eliminar dos veces no es error")

	data, err := s.Load(ctx, "tareas_7")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestFileStore_ClaveInvalida(t *testing.T) {
	s := filestore.New(t.TempDir())

	err := s.Save(context.Background(), "../fuera", []byte(`{}`))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFileStore_FalloDeEscrituraEsErrIO(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "archivo")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	// El directorio de datos apunta a un archivo regular: MkdirAll falla.
	s := filestore.New(filepath.Join(blocker, "datos"))
	err := s.Save(context.Background(), "empresas", []byte(`{}`))
	assert.ErrorIs(t, err, domain.ErrIO)
}
