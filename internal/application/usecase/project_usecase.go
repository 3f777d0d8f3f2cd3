package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/gestor-tareas/internal/application/access"
	"github.com/jhoicas/gestor-tareas/internal/application/dto"
	"github.com/jhoicas/gestor-tareas/internal/application/store"
	"github.com/jhoicas/gestor-tareas/internal/domain"
	"github.com/jhoicas/gestor-tareas/internal/domain/entity"
	"github.com/jhoicas/gestor-tareas/pkg/logger"
)

// ProjectUseCase alta, listado y terminación de proyectos.
type ProjectUseCase struct {
	store *store.EntityStore
	auth  *access.Authorizer
	log   *logger.Logger
}

// NewProjectUseCase construye el caso de uso.
func NewProjectUseCase(s *store.EntityStore, auth *access.Authorizer, log *logger.Logger) *ProjectUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ProjectUseCase{store: s, auth: auth, log: log.Named("proyectos")}
}

// Create crea un proyecto respetando el límite de proyectos activos de la licencia.
func (uc *ProjectUseCase) Create(ctx context.Context, actor *entity.User, in dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	companyID, err := targetCompany(actor, in.CompanyID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("el nombre del proyecto es obligatorio: %w", domain.ErrInvalidInput)
	}
	if err := uc.auth.Authorize(ctx, actor, access.CompanyResource(companyID), access.ActionManage); err != nil {
		return nil, err
	}

	unlock := uc.store.LockAdmin()
	defer unlock()

	companies, err := uc.store.ReadCompaniesForUpdate(ctx)
	if err != nil {
		return nil, err
	}
	company := companies.Find(companyID)
	if company == nil {
		return nil, domain.ErrNotFound
	}
	projects, err := uc.store.ReadProjectsForUpdate(ctx)
	if err != nil {
		return nil, err
	}
	open := 0
	for _, p := range projects.ByCompany(companyID) {
		if !p.Terminated {
			open++
		}
	}
	if !company.AllowsProjects(open) {
		return nil, fmt.Errorf("empresa %d con %d proyectos activos: %w", companyID, open, domain.ErrLicenseLimit)
	}

	project := entity.Project{
		ID:        projects.AllocateID(),
		CompanyID: companyID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	projects.Projects = append(projects.Projects, project)
	if err := uc.store.WriteProjects(ctx, projects); err != nil {
		return nil, err
	}
	if err := writeEmptyTasks(ctx, uc.store, project.ID); err != nil {
		return nil, err
	}
	out := dto.ProjectFromEntity(project)
	return &out, nil
}

// List devuelve los proyectos accesibles para el usuario.
func (uc *ProjectUseCase) List(ctx context.Context, actor *entity.User) ([]dto.ProjectResponse, error) {
	list, err := uc.auth.AccessibleProjects(ctx, actor)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProjectResponse, 0, len(list))
	for _, p := range list {
		items = append(items, dto.ProjectFromEntity(p))
	}
	return items, nil
}

// Terminate marca el proyecto como terminado (baja lógica: los datos se conservan).
// domain.ErrConflict si ya estaba terminado.
func (uc *ProjectUseCase) Terminate(ctx context.Context, actor *entity.User, projectID int) (*dto.ProjectResponse, error) {
	if err := uc.auth.Authorize(ctx, actor, access.ProjectResource(projectID), access.ActionManage); err != nil {
		return nil, err
	}
	unlock := uc.store.LockAdmin()
	defer unlock()

	projects, err := uc.store.ReadProjectsForUpdate(ctx)
	if err != nil {
		return nil, err
	}
	p := projects.Find(projectID)
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if p.Terminated {
		return nil, fmt.Errorf("proyecto %d: %w", projectID, domain.ErrConflict)
	}
	now := time.Now().UTC()
	p.Terminated = true
	p.TerminatedAt = &now
	if err := uc.store.WriteProjects(ctx, projects); err != nil {
		return nil, err
	}
	uc.log.Info().Int("proyecto", projectID).Int("actor", actor.ID).Msg("proyecto terminado")
	out := dto.ProjectFromEntity(*p)
	return &out, nil
}

// writeEmptyTasks crea el documento de tareas vacío de un proyecto recién creado.
func writeEmptyTasks(ctx context.Context, s *store.EntityStore, projectID int) error {
	unlock := s.LockProject(projectID)
	defer unlock()
	return s.WriteTasks(ctx, projectID, &store.TaskDocument{Tasks: []entity.Task{}, NextID: 1})
}
