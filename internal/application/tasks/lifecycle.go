// Package tasks contiene el ciclo de vida de las tareas de un proyecto: alta, edición,
// adjuntos y cambios de situación, con la normalización de documentos heredados al cargar.
package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/gestor-tareas/internal/application/store"
	"github.com/jhoicas/gestor-tareas/internal/domain"
	"github.com/jhoicas/gestor-tareas/internal/domain/entity"
	"github.com/jhoicas/gestor-tareas/pkg/logger"
)

// CreateTaskInput datos de una tarea nueva. Los textos se recortan antes de guardar.
type CreateTaskInput struct {
	Text           string
	Responsible    string
	Center         string
	Deadline       string
	Observation    string
	Resources      string
	AssignedUserID *int
}

// UpdateTaskInput campos a sobrescribir; nil = no se toca. AssignedUserID con valor 0 desasigna.
type UpdateTaskInput struct {
	Text           *string
	Responsible    *string
	Center         *string
	Deadline       *string
	Observation    *string
	Resources      *string
	AssignedUserID *int
}

// LifecycleUseCase aplica las reglas del ciclo de vida sobre el documento de tareas de cada proyecto.
// Toda mutación es leer-modificar-escribir bajo el candado del proyecto.
type LifecycleUseCase struct {
	store *store.EntityStore
	log   *logger.Logger
}

// NewLifecycleUseCase construye el caso de uso.
func NewLifecycleUseCase(s *store.EntityStore, log *logger.Logger) *LifecycleUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &LifecycleUseCase{store: s, log: log.Named("tareas")}
}

// ListTasks devuelve las tareas normalizadas del proyecto. Si el documento no se puede leer
// devuelve la colección vacía sin escribir nada.
func (uc *LifecycleUseCase) ListTasks(ctx context.Context, projectID int) ([]entity.Task, error) {
	if err := uc.requireProject(ctx, projectID); err != nil {
		return nil, err
	}
	unlock := uc.store.LockProject(projectID)
	defer unlock()

	doc, err := uc.load(ctx, projectID)
	if err != nil {
		uc.log.Warn().Err(err).Int("proyecto", projectID).Msg("lectura de tareas fallida, se devuelve colección vacía")
		return []entity.Task{}, nil
	}
	return doc.Snapshot(), nil
}

// CreateTask crea una tarea en Sin Ejecutar con el siguiente id del proyecto.
// domain.ErrInvalidInput si el texto queda vacío tras recortar.
func (uc *LifecycleUseCase) CreateTask(ctx context.Context, projectID int, in CreateTaskInput) (*entity.Task, error) {
	created, err := uc.CreateTasks(ctx, projectID, []CreateTaskInput{in})
	if err != nil {
		return nil, err
	}
	return &created[0], nil
}

// CreateTasks crea varias tareas en una sola escritura (importaciones). Si alguna entrada
// es inválida no se crea ninguna.
func (uc *LifecycleUseCase) CreateTasks(ctx context.Context, projectID int, in []CreateTaskInput) ([]entity.Task, error) {
	for i := range in {
		if strings.TrimSpace(in[i].Text) == "" {
			return nil, fmt.Errorf("tarea %d: el texto es obligatorio: %w", i+1, domain.ErrInvalidInput)
		}
	}
	if err := uc.requireProject(ctx, projectID); err != nil {
		return nil, err
	}
	unlock := uc.store.LockProject(projectID)
	defer unlock()

	doc, err := uc.lockedDocument(ctx, projectID)
	if err != nil {
		return nil, err
	}
	created := make([]entity.Task, 0, len(in))
	for _, t := range in {
		task := entity.Task{
			ID:             doc.AllocateID(),
			Text:           strings.TrimSpace(t.Text),
			Status:         entity.StatusSinEjecutar,
			Responsible:    strings.TrimSpace(t.Responsible),
			Center:         strings.TrimSpace(t.Center),
			Deadline:       strings.TrimSpace(t.Deadline),
			Observation:    strings.TrimSpace(t.Observation),
			Resources:      strings.TrimSpace(t.Resources),
			Documents:      []string{},
			AssignedUserID: assignedID(t.AssignedUserID),
		}
		doc.Tasks = append(doc.Tasks, task)
		created = append(created, task.Clone())
	}
	if err := uc.store.WriteTasks(ctx, projectID, doc); err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateTask sobrescribe solo los campos presentes. El id y la situación no cambian.
func (uc *LifecycleUseCase) UpdateTask(ctx context.Context, projectID, taskID int, in UpdateTaskInput) (*entity.Task, error) {
	if in.Text != nil && strings.TrimSpace(*in.Text) == "" {
		return nil, fmt.Errorf("el texto no puede quedar vacío: %w", domain.ErrInvalidInput)
	}
	return uc.mutate(ctx, projectID, taskID, func(t *entity.Task) error {
		setTrimmed(&t.Text, in.Text)
		setTrimmed(&t.Responsible, in.Responsible)
		setTrimmed(&t.Center, in.Center)
		setTrimmed(&t.Deadline, in.Deadline)
		setTrimmed(&t.Observation, in.Observation)
		setTrimmed(&t.Resources, in.Resources)
		if in.AssignedUserID != nil {
			t.AssignedUserID = assignedID(in.AssignedUserID)
		}
		return nil
	})
}

// ChangeStatus cambia la situación de la tarea. Cualquier situación puede pasar a cualquier otra,
// pero entrar en Validada exige rol supervisor o superadmin. Un rechazo no modifica nada.
func (uc *LifecycleUseCase) ChangeStatus(ctx context.Context, projectID, taskID int, newStatus string, actor *entity.User) (*entity.Task, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	status, ok := entity.ParseStatus(newStatus)
	if !ok {
		return nil, fmt.Errorf("situación %q desconocida: %w", newStatus, domain.ErrInvalidInput)
	}
	return uc.mutate(ctx, projectID, taskID, func(t *entity.Task) error {
		if status == entity.StatusValidada && !actor.CanValidate() {
			uc.log.Warn().
				Int("proyecto", projectID).Int("tarea", taskID).
				Int("usuario", actor.ID).Str("rol", actor.Role).
				Msg("cambio a Validada rechazado por rol")
			return domain.ErrForbidden
		}
		t.Status = status
		return nil
	})
}

// AttachDocument agrega el nombre de archivo a la tarea si no estaba (comparación por nombre).
// El archivo ya fue almacenado por el colaborador de subida; aquí solo se registra el nombre.
func (uc *LifecycleUseCase) AttachDocument(ctx context.Context, projectID, taskID int, filename string) (*entity.Task, error) {
	name := strings.TrimSpace(filename)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("nombre de archivo %q: %w", filename, domain.ErrInvalidInput)
	}
	return uc.mutate(ctx, projectID, taskID, func(t *entity.Task) error {
		if !t.HasDocument(name) {
			t.Documents = append(t.Documents, name)
		}
		return nil
	})
}

// mutate aplica fn sobre la tarea bajo el candado del proyecto y persiste el documento.
// Si fn devuelve error no se escribe nada.
func (uc *LifecycleUseCase) mutate(ctx context.Context, projectID, taskID int, fn func(*entity.Task) error) (*entity.Task, error) {
	if err := uc.requireProject(ctx, projectID); err != nil {
		return nil, err
	}
	unlock := uc.store.LockProject(projectID)
	defer unlock()

	doc, err := uc.lockedDocument(ctx, projectID)
	if err != nil {
		return nil, err
	}
	task := doc.Find(taskID)
	if task == nil {
		return nil, domain.ErrNotFound
	}
	working := task.Clone()
	if err := fn(&working); err != nil {
		return nil, err
	}
	*task = working
	if err := uc.store.WriteTasks(ctx, projectID, doc); err != nil {
		return nil, err
	}
	out := working.Clone()
	return &out, nil
}

// lockedDocument carga el documento para una mutación ya con el candado tomado. El proyecto
// se vuelve a comprobar porque pudo eliminarse entre la primera comprobación y el candado.
func (uc *LifecycleUseCase) lockedDocument(ctx context.Context, projectID int) (*store.TaskDocument, error) {
	projects, err := uc.store.ReadProjectsForUpdate(ctx)
	if err != nil {
		return nil, err
	}
	if projects.Find(projectID) == nil {
		return nil, domain.ErrNotFound
	}
	return uc.load(ctx, projectID)
}

// load lee y normaliza el documento del proyecto; si la normalización cambió algo se persiste.
// Un fallo de lectura se devuelve como domain.ErrIO. Debe llamarse con el candado del proyecto tomado.
func (uc *LifecycleUseCase) load(ctx context.Context, projectID int) (*store.TaskDocument, error) {
	doc, err := uc.store.ReadTasksForUpdate(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if doc.Normalize() {
		if err := uc.store.WriteTasks(ctx, projectID, doc); err != nil {
			uc.log.Warn().Err(err).Int("proyecto", projectID).Msg("no se pudo persistir la normalización")
		} else {
			uc.log.Info().Int("proyecto", projectID).Msg("documento de tareas normalizado")
		}
	}
	return doc, nil
}

func (uc *LifecycleUseCase) requireProject(ctx context.Context, projectID int) error {
	if uc.store.ReadProjects(ctx).Find(projectID) == nil {
		return domain.ErrNotFound
	}
	return nil
}

func setTrimmed(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func assignedID(id *int) *int {
	if id == nil || *id <= 0 {
		return nil
	}
	v := *id
	return &v
}
