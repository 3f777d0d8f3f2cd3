// importar_tareas carga en un proyecto las tareas de una planilla CSV exportada por el
// sistema anterior (separador ';', Windows-1252).
//
// Uso: go run ./cmd/importar_tareas -proyecto 3 [-codificacion utf-8] [-separador ,] tareas.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/jhoicas/gestor-tareas/internal/application/store"
	"github.com/jhoicas/gestor-tareas/internal/application/tasks"
	"github.com/jhoicas/gestor-tareas/internal/infrastructure/csvimport"
	"github.com/jhoicas/gestor-tareas/internal/infrastructure/storage"
	"github.com/jhoicas/gestor-tareas/pkg/config"
	"github.com/jhoicas/gestor-tareas/pkg/logger"
)

func main() {
	projectID := flag.Int("proyecto", 0, "id del proyecto destino")
	encoding := flag.String("codificacion", csvimport.EncodingWindows1252, "codificación del archivo (windows-1252, iso-8859-1, utf-8)")
	separator := flag.String("separador", ";", "separador de campos")
	flag.Parse()

	if *projectID <= 0 || flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Uso: importar_tareas -proyecto <id> [-codificacion enc] [-separador ;] <archivo.csv>")
		os.Exit(2)
	}
	comma, size := utf8.DecodeRuneInString(*separator)
	if size == 0 || size != len(*separator) {
		fmt.Fprintf(os.Stderr, "Separador inválido: %q\n", *separator)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Str("archivo", flag.Arg(0)).Msg("abrir planilla")
	}
	defer f.Close()

	rows, err := csvimport.Parse(f, csvimport.Options{Encoding: *encoding, Comma: comma})
	if err != nil {
		log.Fatal().Err(err).Msg("leer planilla")
	}

	ctx := context.Background()
	docs, closeStore, err := storage.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacén de documentos")
	}
	defer closeStore()

	entityStore := store.New(docs, log)
	project := entityStore.ReadProjects(ctx).Find(*projectID)
	if project == nil {
		log.Fatal().Int("proyecto", *projectID).Msg("proyecto inexistente")
	}
	if project.Terminated {
		log.Fatal().Int("proyecto", *projectID).Msg("el proyecto está terminado")
	}

	importer := csvimport.NewImporter(tasks.NewLifecycleUseCase(entityStore, log), log)
	res, err := importer.Import(ctx, *projectID, rows)
	if err != nil {
		log.Fatal().Err(err).Int("creadas", res.Created).Msg("importar tareas")
	}
	fmt.Printf("Proyecto %d (%s): %d tareas creadas, %d situaciones aplicadas\n",
		project.ID, project.Name, res.Created, res.StatusesApplied)
}
