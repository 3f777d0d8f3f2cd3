package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestor-tareas/internal/infrastructure/filestore"
	"github.com/jhoicas/gestor-tareas/internal/infrastructure/storage"
	"github.com/jhoicas/gestor-tareas/pkg/config"
	"github.com/jhoicas/gestor-tareas/pkg/logger"
)

func TestOpen_File(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{Store: config.StoreConfig{Driver: config.StoreDriverFile, DataDir: dir}}

	docs, closeFn, err := storage.Open(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer closeFn()

	fs, ok := docs.(*filestore.FileStore)
	require.True(t, ok)
	assert.Equal(t, dir, fs.Dir())

	require.NoError(t, docs.Save(context.Background(), "empresas", []byte(`{"empresas":[]}`)))
	raw, err := docs.Load(context.Background(), "empresas")
	require.NoError(t, err)
	assert.JSONEq(t, `{"empresas":[]}`, string(raw))
}

func TestOpen_DriverDesconocido(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: "mongo"}}
	_, _, err := storage.Open(context.Background(), cfg, logger.Nop())
	assert.Error(t, err)
}
