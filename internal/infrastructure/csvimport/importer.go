package csvimport

import (
	"context"
	"fmt"

	"github.com/jhoicas/gestor-tareas/internal/application/tasks"
	"github.com/jhoicas/gestor-tareas/internal/domain"
	"github.com/jhoicas/gestor-tareas/internal/domain/entity"
	"github.com/jhoicas/gestor-tareas/pkg/logger"
)

// Result resumen de una importación.
type Result struct {
	Created         int `json:"creadas"`
	StatusesApplied int `json:"situaciones_aplicadas"`
}

// systemActor actor con el que se aplican las situaciones importadas (incluida Validada).
var systemActor = &entity.User{ID: 0, Name: "importación", Role: entity.RoleSuperadmin, Active: true}

// Importer carga filas ya leídas en un proyecto.
type Importer struct {
	lifecycle *tasks.LifecycleUseCase
	log       *logger.Logger
}

// NewImporter construye el importador.
func NewImporter(lifecycle *tasks.LifecycleUseCase, log *logger.Logger) *Importer {
	if log == nil {
		log = logger.Nop()
	}
	return &Importer{lifecycle: lifecycle, log: log.Named("importacion")}
}

// Import crea todas las tareas en una sola escritura y luego aplica las situaciones distintas
// de Sin Ejecutar. Si la creación falla no queda ninguna tarea nueva.
func (im *Importer) Import(ctx context.Context, projectID int, rows []Row) (Result, error) {
	if len(rows) == 0 {
		return Result{}, fmt.Errorf("no hay filas para importar: %w", domain.ErrInvalidInput)
	}
	inputs := make([]tasks.CreateTaskInput, len(rows))
	for i, r := range rows {
		inputs[i] = r.Task
	}
	created, err := im.lifecycle.CreateTasks(ctx, projectID, inputs)
	if err != nil {
		return Result{}, err
	}

	res := Result{Created: len(created)}
	for i, t := range created {
		status := rows[i].Status
		if status == entity.StatusSinEjecutar || status == "" {
			continue
		}
		if _, err := im.lifecycle.ChangeStatus(ctx, projectID, t.ID, string(status), systemActor); err != nil {
			return res, fmt.Errorf("línea %d: aplicar situación %q: %w", rows[i].Line, status, err)
		}
		res.StatusesApplied++
	}
	im.log.Info().
		Int("proyecto", projectID).
		Int("creadas", res.Created).
		Int("situaciones", res.StatusesApplied).
		Msg("importación de tareas completada")
	return res, nil
}
