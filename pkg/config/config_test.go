package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestor-tareas/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("ACCESS_EJECUTOR_SOLO_ASIGNADAS", "true")

	cfg, err := config.Load()
	require.Error(t, err, "mongo no es un driver soportado")
	assert.Nil(t, cfg)

	t.Setenv("STORE_DRIVER", "FILE")
	cfg, err = config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.StoreDriverFile, cfg.Store.Driver)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.True(t, cfg.Access.EjecutorOnlyAssigned)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, 10, cfg.RateLimit.LoginPerMinute)
	assert.Equal(t, 5, cfg.RateLimit.LoginBurst)

	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("LOGIN_INTENTOS_POR_MINUTO", "3")
	cfg, err = config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 3, cfg.RateLimit.LoginPerMinute)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss", DBName: "tareas", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/tareas?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
