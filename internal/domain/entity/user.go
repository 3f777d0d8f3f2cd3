package entity

// Roles válidos para User.
const (
	RoleSuperadmin = "superadmin"
	RoleSupervisor = "supervisor"
	RoleEjecutor   = "ejecutor"
)

// User representa un usuario del sistema. Solo el superadmin no pertenece a una Company.
type User struct {
	ID           int    `json:"id"`
	Name         string `json:"nombre"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"` // bcrypt
	Role         string `json:"rol"`
	CompanyID    *int   `json:"empresa_id"` // nil si y solo si Role == superadmin
	Active       bool   `json:"activo"`
}

// IsSuperadmin informa si el usuario es administrador global.
func (u *User) IsSuperadmin() bool {
	return u != nil && u.Role == RoleSuperadmin
}

// BelongsTo informa si el usuario pertenece a la empresa indicada.
func (u *User) BelongsTo(companyID int) bool {
	return u != nil && u.CompanyID != nil && *u.CompanyID == companyID
}

// CanValidate informa si el usuario puede llevar una tarea a Validada (supervisor o superadmin).
func (u *User) CanValidate() bool {
	return u != nil && (u.Role == RoleSupervisor || u.Role == RoleSuperadmin)
}

// ValidRole informa si el rol es uno de los tres conocidos.
func ValidRole(role string) bool {
	switch role {
	case RoleSuperadmin, RoleSupervisor, RoleEjecutor:
		return true
	}
	return false
}
