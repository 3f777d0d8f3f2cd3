package dto

import (
	"time"

	"github.com/jhoicas/gestor-tareas/internal/domain/entity"
)

// SeedUserRequest datos de uno de los usuarios iniciales de una empresa nueva.
type SeedUserRequest struct {
	Name     string `json:"nombre" validate:"required,min=1,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// CreateCompanyRequest alta conjunta de empresa, primer proyecto, supervisor y ejecutor.
type CreateCompanyRequest struct {
	Name        string          `json:"nombre" validate:"required,min=1,max=200"`
	MaxUsers    int             `json:"max_usuarios" validate:"min=0"`
	MaxProjects int             `json:"max_proyectos" validate:"min=0"`
	ProjectName string          `json:"proyecto"` // vacío = "<nombre> - Proyecto inicial"
	Supervisor  SeedUserRequest `json:"supervisor"`
	Ejecutor    SeedUserRequest `json:"ejecutor"`
}

// UpdateCompanyRequest entrada para actualizar una empresa (campos opcionales).
type UpdateCompanyRequest struct {
	Name        *string `json:"nombre" validate:"omitempty,min=1,max=200"`
	MaxUsers    *int    `json:"max_usuarios" validate:"omitempty,min=0"`
	MaxProjects *int    `json:"max_proyectos" validate:"omitempty,min=0"`
	Active      *bool   `json:"activa"`
}

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID          int       `json:"id"`
	Name        string    `json:"nombre"`
	CreatedAt   time.Time `json:"fecha_creacion"`
	MaxUsers    int       `json:"max_usuarios"`
	MaxProjects int       `json:"max_proyectos"`
	Active      bool      `json:"activa"`
}

// CompanySetupResponse resultado del alta conjunta.
type CompanySetupResponse struct {
	Company    CompanyResponse `json:"empresa"`
	Project    ProjectResponse `json:"proyecto"`
	Supervisor UserResponse    `json:"supervisor"`
	Ejecutor   UserResponse    `json:"ejecutor"`
}

// CompanyFromEntity mapea la entidad a su respuesta.
func CompanyFromEntity(c entity.Company) CompanyResponse {
	return CompanyResponse{
		ID:          c.ID,
		Name:        c.Name,
		CreatedAt:   c.CreatedAt,
		MaxUsers:    c.MaxUsers,
		MaxProjects: c.MaxProjects,
		Active:      c.Active,
	}
}
