package dto

import (
	"time"

	"github.com/jhoicas/gestor-tareas/internal/domain/entity"
)

// CreateProjectRequest entrada para crear un proyecto. CompanyID solo lo usa el superadmin;
// el resto crea proyectos en su propia empresa.
type CreateProjectRequest struct {
	CompanyID *int   `json:"empresa_id"`
	Name      string `json:"nombre" validate:"required,min=1,max=200"`
}

// SelectProjectRequest selección del proyecto activo de la sesión.
type SelectProjectRequest struct {
	ProjectID int `json:"proyecto_id" validate:"required,min=1"`
}

// ActiveProjectResponse proyecto activo de la sesión.
type ActiveProjectResponse struct {
	ProjectID int `json:"proyecto_id"`
}

// ProjectResponse salida de un proyecto.
type ProjectResponse struct {
	ID           int        `json:"id"`
	CompanyID    int        `json:"empresa_id"`
	Name         string     `json:"nombre"`
	CreatedAt    time.Time  `json:"fecha_creacion"`
	Terminated   bool       `json:"terminado"`
	TerminatedAt *time.Time `json:"fecha_terminacion,omitempty"`
}

// ProjectFromEntity mapea la entidad a su respuesta.
func ProjectFromEntity(p entity.Project) ProjectResponse {
	return ProjectResponse{
		ID:           p.ID,
		CompanyID:    p.CompanyID,
		Name:         p.Name,
		CreatedAt:    p.CreatedAt,
		Terminated:   p.Terminated,
		TerminatedAt: p.TerminatedAt,
	}
}
