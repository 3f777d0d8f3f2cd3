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

// CompanyUseCase aplica reglas de negocio para empresas (casos de uso).
type CompanyUseCase struct {
	store *store.EntityStore
	auth  *access.Authorizer
	log   *logger.Logger
}

// NewCompanyUseCase construye el caso de uso.
func NewCompanyUseCase(s *store.EntityStore, auth *access.Authorizer, log *logger.Logger) *CompanyUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &CompanyUseCase{store: s, auth: auth, log: log.Named("empresas")}
}

// CreateCompanyWithProjectAndUsers crea una empresa junto con su primer proyecto, un supervisor
// y un ejecutor. Solo el superadmin. domain.ErrEmailAlreadyExists si algún email ya existe.
func (uc *CompanyUseCase) CreateCompanyWithProjectAndUsers(ctx context.Context, actor *entity.User, in dto.CreateCompanyRequest) (*dto.CompanySetupResponse, error) {
	if err := requireSuperadmin(actor); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("el nombre de la empresa es obligatorio: %w", domain.ErrInvalidInput)
	}
	if in.MaxUsers < 0 || in.MaxProjects < 0 {
		return nil, fmt.Errorf("los límites de licencia no pueden ser negativos: %w", domain.ErrInvalidInput)
	}
	if in.MaxUsers == 1 {
		return nil, fmt.Errorf("max_usuarios=1 no admite los dos usuarios iniciales: %w", domain.ErrLicenseLimit)
	}
	projectName := strings.TrimSpace(in.ProjectName)
	if projectName == "" {
		projectName = name + " - Proyecto inicial"
	}
	supervisor, err := newUser(in.Supervisor.Name, in.Supervisor.Email, in.Supervisor.Password, entity.RoleSupervisor)
	if err != nil {
		return nil, fmt.Errorf("supervisor: %w", err)
	}
	ejecutor, err := newUser(in.Ejecutor.Name, in.Ejecutor.Email, in.Ejecutor.Password, entity.RoleEjecutor)
	if err != nil {
		return nil, fmt.Errorf("ejecutor: %w", err)
	}
	if supervisor.Email == ejecutor.Email {
		return nil, fmt.Errorf("%s: %w", ejecutor.Email, domain.ErrEmailAlreadyExists)
	}

	unlock := uc.store.LockAdmin()
	defer unlock()

	users, err := uc.store.ReadUsersForUpdate(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range []*entity.User{supervisor, ejecutor} {
		if users.FindByEmail(u.Email) != nil {
			return nil, fmt.Errorf("%s: %w", u.Email, domain.ErrEmailAlreadyExists)
		}
	}
	companies, err := uc.store.ReadCompaniesForUpdate(ctx)
	if err != nil {
		return nil, err
	}
	projects, err := uc.store.ReadProjectsForUpdate(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	company := entity.Company{
		ID:          companies.AllocateID(),
		Name:        name,
		CreatedAt:   now,
		MaxUsers:    in.MaxUsers,
		MaxProjects: in.MaxProjects,
		Active:      true,
	}
	project := entity.Project{
		ID:        projects.AllocateID(),
		CompanyID: company.ID,
		Name:      projectName,
		CreatedAt: now,
	}
	for _, u := range []*entity.User{supervisor, ejecutor} {
		u.ID = users.AllocateID()
		u.CompanyID = intPtr(company.ID)
	}

	companies.Companies = append(companies.Companies, company)
	projects.Projects = append(projects.Projects, project)
	users.Users = append(users.Users, *supervisor, *ejecutor)

	if err := uc.store.WriteCompanies(ctx, companies); err != nil {
		return nil, err
	}
	if err := uc.store.WriteProjects(ctx, projects); err != nil {
		return nil, err
	}
	if err := uc.store.WriteUsers(ctx, users); err != nil {
		return nil, err
	}
	if err := writeEmptyTasks(ctx, uc.store, project.ID); err != nil {
		return nil, err
	}

	uc.log.Info().Int("empresa", company.ID).Int("proyecto", project.ID).Int("actor", actor.ID).Msg("empresa creada")
	return &dto.CompanySetupResponse{
		Company:    dto.CompanyFromEntity(company),
		Project:    dto.ProjectFromEntity(project),
		Supervisor: dto.UserFromEntity(*supervisor),
		Ejecutor:   dto.UserFromEntity(*ejecutor),
	}, nil
}

// List devuelve todas las empresas al superadmin y la propia al resto.
func (uc *CompanyUseCase) List(ctx context.Context, actor *entity.User) ([]dto.CompanyResponse, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	items := []dto.CompanyResponse{}
	for _, c := range uc.store.ReadCompanies(ctx).Companies {
		if uc.auth.Authorize(ctx, actor, access.CompanyResource(c.ID), access.ActionView) == nil {
			items = append(items, dto.CompanyFromEntity(c))
		}
	}
	return items, nil
}

// GetByID obtiene una empresa visible para el usuario.
func (uc *CompanyUseCase) GetByID(ctx context.Context, actor *entity.User, id int) (*dto.CompanyResponse, error) {
	if err := uc.auth.Authorize(ctx, actor, access.CompanyResource(id), access.ActionView); err != nil {
		return nil, err
	}
	c := uc.store.ReadCompanies(ctx).Find(id)
	if c == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.CompanyFromEntity(*c)
	return &out, nil
}

// Update modifica nombre, límites de licencia o estado. Solo el superadmin.
func (uc *CompanyUseCase) Update(ctx context.Context, actor *entity.User, id int, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	if err := requireSuperadmin(actor); err != nil {
		return nil, err
	}
	unlock := uc.store.LockAdmin()
	defer unlock()

	companies, err := uc.store.ReadCompaniesForUpdate(ctx)
	if err != nil {
		return nil, err
	}
	c := companies.Find(id)
	if c == nil {
		return nil, domain.ErrNotFound
	}
	updated := *c
	if in.Name != nil {
		updated.Name = strings.TrimSpace(*in.Name)
		if updated.Name == "" {
			return nil, fmt.Errorf("el nombre de la empresa es obligatorio: %w", domain.ErrInvalidInput)
		}
	}
	if in.MaxUsers != nil {
		updated.MaxUsers = *in.MaxUsers
	}
	if in.MaxProjects != nil {
		updated.MaxProjects = *in.MaxProjects
	}
	if updated.MaxUsers < 0 || updated.MaxProjects < 0 {
		return nil, fmt.Errorf("los límites de licencia no pueden ser negativos: %w", domain.ErrInvalidInput)
	}
	if in.Active != nil {
		updated.Active = *in.Active
	}
	*c = updated
	if err := uc.store.WriteCompanies(ctx, companies); err != nil {
		return nil, err
	}
	out := dto.CompanyFromEntity(updated)
	return &out, nil
}

// Delete elimina la empresa con sus proyectos, usuarios y documentos de tareas.
func (uc *CompanyUseCase) Delete(ctx context.Context, actor *entity.User, id int) error {
	if err := uc.auth.Authorize(ctx, actor, access.CompanyResource(id), access.ActionDelete); err != nil {
		return err
	}
	unlock := uc.store.LockAdmin()
	defer unlock()

	companies, err := uc.store.ReadCompaniesForUpdate(ctx)
	if err != nil {
		return err
	}
	keptCompanies := make([]entity.Company, 0, len(companies.Companies))
	for _, c := range companies.Companies {
		if c.ID != id {
			keptCompanies = append(keptCompanies, c)
		}
	}
	if len(keptCompanies) == len(companies.Companies) {
		return domain.ErrNotFound
	}
	companies.Companies = keptCompanies

	projects, err := uc.store.ReadProjectsForUpdate(ctx)
	if err != nil {
		return err
	}
	var removed []int
	keptProjects := make([]entity.Project, 0, len(projects.Projects))
	for _, p := range projects.Projects {
		if p.CompanyID == id {
			removed = append(removed, p.ID)
			continue
		}
		keptProjects = append(keptProjects, p)
	}
	projects.Projects = keptProjects

	users, err := uc.store.ReadUsersForUpdate(ctx)
	if err != nil {
		return err
	}
	keptUsers := make([]entity.User, 0, len(users.Users))
	for _, u := range users.Users {
		if !u.BelongsTo(id) {
			keptUsers = append(keptUsers, u)
		}
	}
	users.Users = keptUsers

	if err := uc.store.WriteCompanies(ctx, companies); err != nil {
		return err
	}
	if err := uc.store.WriteProjects(ctx, projects); err != nil {
		return err
	}
	if err := uc.store.WriteUsers(ctx, users); err != nil {
		return err
	}
	for _, projectID := range removed {
		unlockProject := uc.store.LockProject(projectID)
		err := uc.store.DeleteTasks(ctx, projectID)
		unlockProject()
		if err != nil {
			return err
		}
	}

	uc.log.Info().Int("empresa", id).Ints("proyectos", removed).Int("actor", actor.ID).Msg("empresa eliminada")
	return nil
}
