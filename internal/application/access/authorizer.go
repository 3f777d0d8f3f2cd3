// Package access concentra las reglas de rol y de tenencia (empresa) del sistema:
// quién puede ver o actuar sobre una empresa, un proyecto, un usuario o una tarea.
package access

import (
	"context"
	"fmt"

	"github.com/jhoicas/gestor-tareas/internal/application/store"
	"github.com/jhoicas/gestor-tareas/internal/domain"
	"github.com/jhoicas/gestor-tareas/internal/domain/entity"
)

// ResourceKind tipo de recurso sobre el que se evalúa un permiso.
type ResourceKind string

// Tipos de recurso.
const (
	ResourceCompany ResourceKind = "empresa"
	ResourceProject ResourceKind = "proyecto"
	ResourceUser    ResourceKind = "usuario"
	ResourceTask    ResourceKind = "tarea"
)

// Action acción que se pretende realizar sobre el recurso.
type Action string

// Acciones.
const (
	ActionView     Action = "ver"
	ActionEdit     Action = "editar"
	ActionValidate Action = "validar"     // llevar una tarea a Validada
	ActionManage   Action = "administrar" // crear/terminar proyectos, gestionar usuarios de la empresa
	ActionDelete   Action = "eliminar"    // eliminar una empresa (cascada)
)

// Resource identifica el recurso. Las tareas se identifican dentro de su proyecto.
type Resource struct {
	Kind      ResourceKind
	ID        int
	ProjectID int // solo para ResourceTask
}

// CompanyResource recurso empresa.
func CompanyResource(id int) Resource { return Resource{Kind: ResourceCompany, ID: id} }

// ProjectResource recurso proyecto.
func ProjectResource(id int) Resource { return Resource{Kind: ResourceProject, ID: id} }

// UserResource recurso usuario.
func UserResource(id int) Resource { return Resource{Kind: ResourceUser, ID: id} }

// TaskResource recurso tarea dentro de un proyecto.
func TaskResource(projectID, taskID int) Resource {
	return Resource{Kind: ResourceTask, ID: taskID, ProjectID: projectID}
}

// Policy políticas opcionales configurables.
type Policy struct {
	// EjecutorOnlyAssigned: un ejecutor solo puede editar o cambiar la situación de
	// tareas cuyo usuario asignado es él mismo.
	EjecutorOnlyAssigned bool
}

// Authorizer evalúa permisos (usuario, recurso, acción) contra el estado del almacén.
type Authorizer struct {
	store  *store.EntityStore
	policy Policy
}

// NewAuthorizer construye el evaluador de permisos.
func NewAuthorizer(s *store.EntityStore, policy Policy) *Authorizer {
	return &Authorizer{store: s, policy: policy}
}

// Policy devuelve la política vigente.
func (a *Authorizer) Policy() Policy { return a.policy }

// Authorize devuelve nil si el usuario puede realizar la acción. Errores:
// domain.ErrUnauthenticated sin usuario, domain.ErrNotFound si el recurso no existe,
// domain.ErrForbidden si el rol o la empresa no lo permiten.
func (a *Authorizer) Authorize(ctx context.Context, user *entity.User, res Resource, action Action) error {
	if user == nil {
		return domain.ErrUnauthenticated
	}
	switch res.Kind {
	case ResourceCompany:
		return a.authorizeCompany(ctx, user, res.ID, action)
	case ResourceProject:
		_, err := a.authorizeProject(ctx, user, res.ID, action)
		return err
	case ResourceTask:
		return a.authorizeTask(ctx, user, res.ProjectID, res.ID, action)
	case ResourceUser:
		return a.authorizeUser(ctx, user, res.ID, action)
	}
	return fmt.Errorf("access: tipo de recurso %q: %w", res.Kind, domain.ErrInvalidInput)
}

// CanAccessProject informa si el usuario puede ver el proyecto.
func (a *Authorizer) CanAccessProject(ctx context.Context, user *entity.User, projectID int) bool {
	return a.Authorize(ctx, user, ProjectResource(projectID), ActionView) == nil
}

// IsProjectTerminated informa si el proyecto está terminado. domain.ErrNotFound si no existe.
func (a *Authorizer) IsProjectTerminated(ctx context.Context, projectID int) (bool, error) {
	p := a.store.ReadProjects(ctx).Find(projectID)
	if p == nil {
		return false, domain.ErrNotFound
	}
	return p.Terminated, nil
}

// AccessibleProjects lista los proyectos visibles para el usuario: todos para el superadmin,
// los no terminados de su empresa para el resto.
func (a *Authorizer) AccessibleProjects(ctx context.Context, user *entity.User) ([]entity.Project, error) {
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	projects := a.store.ReadProjects(ctx)
	if user.IsSuperadmin() {
		return append([]entity.Project{}, projects.Projects...), nil
	}
	out := []entity.Project{}
	if user.CompanyID == nil || !a.companyActive(ctx, *user.CompanyID) {
		return out, nil
	}
	for _, p := range projects.ByCompany(*user.CompanyID) {
		if !p.Terminated {
			out = append(out, p)
		}
	}
	return out, nil
}

func (a *Authorizer) authorizeCompany(ctx context.Context, user *entity.User, companyID int, action Action) error {
	c := a.store.ReadCompanies(ctx).Find(companyID)
	if c == nil {
		return domain.ErrNotFound
	}
	if user.IsSuperadmin() {
		return nil
	}
	if !user.BelongsTo(companyID) || !c.Active {
		return domain.ErrForbidden
	}
	switch action {
	case ActionView:
		return nil
	case ActionManage:
		return requireSupervisor(user)
	}
	return domain.ErrForbidden
}

func (a *Authorizer) authorizeProject(ctx context.Context, user *entity.User, projectID int, action Action) (*entity.Project, error) {
	p := a.store.ReadProjects(ctx).Find(projectID)
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if user.IsSuperadmin() {
		return p, nil
	}
	if !user.BelongsTo(p.CompanyID) || p.Terminated || !a.companyActive(ctx, p.CompanyID) {
		return nil, domain.ErrForbidden
	}
	switch action {
	case ActionView, ActionEdit:
		return p, nil
	case ActionValidate, ActionManage:
		return p, requireSupervisor(user)
	}
	return nil, domain.ErrForbidden
}

func (a *Authorizer) authorizeTask(ctx context.Context, user *entity.User, projectID, taskID int, action Action) error {
	if _, err := a.authorizeProject(ctx, user, projectID, ActionView); err != nil {
		return err
	}
	t := a.store.ReadTasks(ctx, projectID).Find(taskID)
	if t == nil {
		return domain.ErrNotFound
	}
	switch action {
	case ActionView:
		return nil
	case ActionValidate:
		return requireSupervisor(user)
	case ActionEdit:
		if a.policy.EjecutorOnlyAssigned && user.Role == entity.RoleEjecutor {
			if t.AssignedUserID == nil || *t.AssignedUserID != user.ID {
				return domain.ErrForbidden
			}
		}
		return nil
	}
	return domain.ErrForbidden
}

func (a *Authorizer) authorizeUser(ctx context.Context, user *entity.User, userID int, action Action) error {
	target := a.store.ReadUsers(ctx).Find(userID)
	if target == nil {
		return domain.ErrNotFound
	}
	if user.IsSuperadmin() {
		return nil
	}
	if target.CompanyID == nil || !user.BelongsTo(*target.CompanyID) {
		return domain.ErrForbidden
	}
	if target.ID == user.ID && (action == ActionView || action == ActionEdit) {
		return nil
	}
	switch action {
	case ActionView, ActionEdit, ActionManage:
		return requireSupervisor(user)
	}
	return domain.ErrForbidden
}

func (a *Authorizer) companyActive(ctx context.Context, companyID int) bool {
	c := a.store.ReadCompanies(ctx).Find(companyID)
	return c != nil && c.Active
}

// requireSupervisor: solo supervisor o superadmin.
func requireSupervisor(user *entity.User) error {
	if user.CanValidate() {
		return nil
	}
	return domain.ErrForbidden
}
