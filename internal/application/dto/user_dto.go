package dto

import (
	"time"

	"github.com/jhoicas/gestor-tareas/internal/domain/entity"
)

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
// CompanyID solo lo indica el superadmin; un supervisor crea usuarios en su empresa.
type CreateUserRequest struct {
	CompanyID *int   `json:"empresa_id"`
	Name      string `json:"nombre" validate:"required,min=1,max=200"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Role      string `json:"rol" validate:"required,oneof=superadmin supervisor ejecutor"`
}

// UpdateUserRequest campos opcionales; Role y Active solo los cambia un supervisor o superadmin.
type UpdateUserRequest struct {
	Name     *string `json:"nombre" validate:"omitempty,min=1,max=200"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=8"`
	Role     *string `json:"rol" validate:"omitempty,oneof=supervisor ejecutor"`
	Active   *bool   `json:"activo"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        int    `json:"id"`
	Name      string `json:"nombre"`
	Email     string `json:"email"`
	Role      string `json:"rol"`
	CompanyID *int   `json:"empresa_id"`
	Active    bool   `json:"activo"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token JWT (incluye el id de sesión) y usuario autenticado.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expira"`
	User      UserResponse `json:"user"`
}

// UserFromEntity mapea la entidad a su respuesta sin el hash de la contraseña.
func UserFromEntity(u entity.User) UserResponse {
	var companyID *int
	if u.CompanyID != nil {
		id := *u.CompanyID
		companyID = &id
	}
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CompanyID: companyID,
		Active:    u.Active,
	}
}
