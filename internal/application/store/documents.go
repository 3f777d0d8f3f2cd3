package store

import (
	"fmt"

	"github.com/jhoicas/gestor-tareas/internal/domain/entity"
)

// Claves de los documentos lógicos.
const (
	KeyCompanies = "empresas"
	KeyProjects  = "proyectos"
	KeyUsers     = "usuarios"
)

// TaskKey devuelve la clave del documento de tareas de un proyecto (uno por proyecto).
func TaskKey(projectID int) string {
	return fmt.Sprintf("tareas_%d", projectID)
}

// CompanyDocument colección de empresas con su contador de ids.
type CompanyDocument struct {
	Companies []entity.Company `json:"empresas"`
	NextID    int              `json:"siguiente_id"`
}

// ProjectDocument colección de proyectos con su contador de ids.
type ProjectDocument struct {
	Projects []entity.Project `json:"proyectos"`
	NextID   int              `json:"siguiente_id"`
}

// UserDocument colección de usuarios con su contador de ids.
type UserDocument struct {
	Users  []entity.User `json:"usuarios"`
	NextID int           `json:"siguiente_id"`
}

// TaskDocument tareas de un único proyecto con su contador de ids.
type TaskDocument struct {
	Tasks  []entity.Task `json:"tareas"`
	NextID int           `json:"siguiente_id"`
}

// NextID devuelve max(ids existentes) + 1, o 1 si no hay elementos.
func NextID[T any](items []T, id func(T) int) int {
	maxID := 0
	for _, it := range items {
		if v := id(it); v > maxID {
			maxID = v
		}
	}
	return maxID + 1
}

// allocate reserva el siguiente id. Si el contador guardado quedó atrás respecto a
// los ids existentes se recalcula como max+1.
func allocate(counter *int, computed int) int {
	next := *counter
	if next < computed {
		next = computed
	}
	*counter = next + 1
	return next
}

// AllocateID reserva un id nuevo de empresa.
func (d *CompanyDocument) AllocateID() int {
	return allocate(&d.NextID, NextID(d.Companies, func(c entity.Company) int { return c.ID }))
}

// Find devuelve un puntero a la empresa o nil.
func (d *CompanyDocument) Find(id int) *entity.Company {
	for i := range d.Companies {
		if d.Companies[i].ID == id {
			return &d.Companies[i]
		}
	}
	return nil
}

// AllocateID reserva un id nuevo de proyecto.
func (d *ProjectDocument) AllocateID() int {
	return allocate(&d.NextID, NextID(d.Projects, func(p entity.Project) int { return p.ID }))
}

// Find devuelve un puntero al proyecto o nil.
func (d *ProjectDocument) Find(id int) *entity.Project {
	for i := range d.Projects {
		if d.Projects[i].ID == id {
			return &d.Projects[i]
		}
	}
	return nil
}

// ByCompany devuelve los proyectos de una empresa (copias).
func (d *ProjectDocument) ByCompany(companyID int) []entity.Project {
	out := []entity.Project{}
	for _, p := range d.Projects {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out
}

// AllocateID reserva un id nuevo de usuario.
func (d *UserDocument) AllocateID() int {
	return allocate(&d.NextID, NextID(d.Users, func(u entity.User) int { return u.ID }))
}

// Find devuelve un puntero al usuario o nil.
func (d *UserDocument) Find(id int) *entity.User {
	for i := range d.Users {
		if d.Users[i].ID == id {
			return &d.Users[i]
		}
	}
	return nil
}

// FindByEmail busca por email ya normalizado (minúsculas, sin espacios).
func (d *UserDocument) FindByEmail(email string) *entity.User {
	for i := range d.Users {
		if d.Users[i].Email == email {
			return &d.Users[i]
		}
	}
	return nil
}

// CountByCompany cuenta los usuarios de una empresa.
func (d *UserDocument) CountByCompany(companyID int) int {
	n := 0
	for i := range d.Users {
		if d.Users[i].BelongsTo(companyID) {
			n++
		}
	}
	return n
}

// AllocateID reserva un id nuevo de tarea.
func (d *TaskDocument) AllocateID() int {
	return allocate(&d.NextID, NextID(d.Tasks, func(t entity.Task) int { return t.ID }))
}

// Find devuelve un puntero a la tarea o nil.
func (d *TaskDocument) Find(id int) *entity.Task {
	for i := range d.Tasks {
		if d.Tasks[i].ID == id {
			return &d.Tasks[i]
		}
	}
	return nil
}

// Normalize migra situaciones heredadas y completa campos opcionales.
// Devuelve true si el documento cambió y debe persistirse.
func (d *TaskDocument) Normalize() bool {
	changed := false
	if d.Tasks == nil {
		d.Tasks = []entity.Task{}
	}
	for i := range d.Tasks {
		if d.Tasks[i].Normalize() {
			changed = true
		}
	}
	if computed := NextID(d.Tasks, func(t entity.Task) int { return t.ID }); d.NextID < computed {
		d.NextID = computed
		changed = true
	}
	return changed
}

// Snapshot devuelve una copia profunda de las tareas (los llamadores no comparten estado).
func (d *TaskDocument) Snapshot() []entity.Task {
	out := make([]entity.Task, 0, len(d.Tasks))
	for _, t := range d.Tasks {
		out = append(out, t.Clone())
	}
	return out
}

func (d *CompanyDocument) withDefaults() *CompanyDocument {
	if d.Companies == nil {
		d.Companies = []entity.Company{}
	}
	return d
}

func (d *ProjectDocument) withDefaults() *ProjectDocument {
	if d.Projects == nil {
		d.Projects = []entity.Project{}
	}
	return d
}

func (d *UserDocument) withDefaults() *UserDocument {
	if d.Users == nil {
		d.Users = []entity.User{}
	}
	return d
}
