// alertas imprime en JSON las tareas abiertas que vencen en los próximos días, agrupadas por
// proyecto. El envío de correos lo hace un proceso externo que consume esta salida.
//
// Uso: go run ./cmd/alertas [-dias 3]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/gestor-tareas/internal/application/store"
	"github.com/jhoicas/gestor-tareas/internal/application/tasks"
	"github.com/jhoicas/gestor-tareas/internal/infrastructure/storage"
	"github.com/jhoicas/gestor-tareas/pkg/config"
	"github.com/jhoicas/gestor-tareas/pkg/logger"
)

func main() {
	days := flag.Int("dias", -1, "ventana en días (por defecto ALERTAS_DIAS)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	window := cfg.Alerts.Days
	if *days >= 0 {
		window = *days
	}

	ctx := context.Background()
	docs, closeStore, err := storage.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacén de documentos")
	}
	defer closeStore()

	lifecycle := tasks.NewLifecycleUseCase(store.New(docs, log), log)
	alerts, err := lifecycle.AlertCandidates(ctx, window, time.Now())
	if err != nil {
		log.Fatal().Err(err).Msg("buscar tareas próximas a vencer")
	}
	log.Info().Int("dias", window).Int("proyectos", len(alerts)).Msg("alertas calculadas")

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(alerts); err != nil {
		log.Fatal().Err(err).Msg("escribir salida")
	}
}
