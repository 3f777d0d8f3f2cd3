package entity

import "time"

// Company representa una empresa cliente (tenant). Es dueña de sus proyectos y usuarios.
type Company struct {
	ID          int       `json:"id"`
	Name        string    `json:"nombre"`
	CreatedAt   time.Time `json:"fecha_creacion"`
	MaxUsers    int       `json:"max_usuarios"`  // 0 = sin límite
	MaxProjects int       `json:"max_proyectos"` // 0 = sin límite
	Active      bool      `json:"activa"`
}

// AllowsUsers informa si la licencia admite un usuario más dado el conteo actual.
func (c *Company) AllowsUsers(current int) bool {
	return c.MaxUsers <= 0 || current < c.MaxUsers
}

// AllowsProjects informa si la licencia admite un proyecto más dado el conteo actual.
func (c *Company) AllowsProjects(current int) bool {
	return c.MaxProjects <= 0 || current < c.MaxProjects
}

// Project representa un proyecto de una empresa. Cada proyecto tiene su propio documento de tareas.
type Project struct {
	ID           int        `json:"id"`
	CompanyID    int        `json:"empresa_id"`
	Name         string     `json:"nombre"`
	CreatedAt    time.Time  `json:"fecha_creacion"`
	Terminated   bool       `json:"terminado"`
	TerminatedAt *time.Time `json:"fecha_terminacion,omitempty"`
}
