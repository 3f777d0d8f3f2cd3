package access

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/gestor-tareas/internal/domain"
	"github.com/jhoicas/gestor-tareas/internal/domain/entity"
)

// SelectionStore guarda el proyecto activo de cada sesión. La implementación en memoria
// sirve para una sola instancia; con varias instancias se usa la de Redis.
type SelectionStore interface {
	// Get devuelve (id, true, nil) si hay selección y (0, false, nil) si no la hay.
	Get(ctx context.Context, sessionID string) (int, bool, error)
	Set(ctx context.Context, sessionID string, projectID int) error
	Delete(ctx context.Context, sessionID string) error
}

// ActiveProjects administra, por sesión, el proyecto activo seleccionado (como máximo uno).
// El transporte de la sesión (cookie, JWT) es externo; aquí solo se conoce su id.
type ActiveProjects struct {
	auth       *Authorizer
	selections SelectionStore
}

// NewActiveProjects construye el registro de proyectos activos. Con selections nil usa memoria.
func NewActiveProjects(auth *Authorizer, selections SelectionStore) *ActiveProjects {
	if selections == nil {
		selections = NewMemorySelections()
	}
	return &ActiveProjects{auth: auth, selections: selections}
}

// Set selecciona el proyecto activo de la sesión. Falla con domain.ErrForbidden si el
// usuario no puede acceder al proyecto; la selección previa se conserva en ese caso.
func (s *ActiveProjects) Set(ctx context.Context, sessionID string, user *entity.User, projectID int) error {
	if sessionID == "" || user == nil {
		return domain.ErrUnauthenticated
	}
	if err := s.auth.Authorize(ctx, user, ProjectResource(projectID), ActionView); err != nil {
		return err
	}
	if err := s.selections.Set(ctx, sessionID, projectID); err != nil {
		return fmt.Errorf("guardar proyecto activo: %w: %w", domain.ErrIO, err)
	}
	return nil
}

// Clear elimina la selección de la sesión.
func (s *ActiveProjects) Clear(ctx context.Context, sessionID string) error {
	if err := s.selections.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("borrar proyecto activo: %w: %w", domain.ErrIO, err)
	}
	return nil
}

// Get devuelve el proyecto activo. Si no hay selección devuelve domain.ErrNotFound; si el
// proyecto dejó de ser accesible (p. ej. se terminó) se limpia la selección y se devuelve
// el error de acceso.
func (s *ActiveProjects) Get(ctx context.Context, sessionID string, user *entity.User) (int, error) {
	projectID, ok, err := s.selections.Get(ctx, sessionID)
	if err != nil {
		return 0, fmt.Errorf("leer proyecto activo: %w: %w", domain.ErrIO, err)
	}
	if !ok {
		return 0, domain.ErrNotFound
	}
	if err := s.auth.Authorize(ctx, user, ProjectResource(projectID), ActionView); err != nil {
		if clearErr := s.Clear(ctx, sessionID); clearErr != nil {
			return 0, clearErr
		}
		return 0, err
	}
	return projectID, nil
}

// MemorySelections SelectionStore en memoria del proceso.
type MemorySelections struct {
	mu       sync.RWMutex
	selected map[string]int
}

// NewMemorySelections construye el almacén en memoria.
func NewMemorySelections() *MemorySelections {
	return &MemorySelections{selected: make(map[string]int)}
}

func (m *MemorySelections) Get(_ context.Context, sessionID string) (int, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.selected[sessionID]
	return id, ok, nil
}

func (m *MemorySelections) Set(_ context.Context, sessionID string, projectID int) error {
	m.mu.Lock()
	m.selected[sessionID] = projectID
	m.mu.Unlock()
	return nil
}

func (m *MemorySelections) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.selected, sessionID)
	m.mu.Unlock()
	return nil
}
