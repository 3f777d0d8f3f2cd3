// Package store implementa el almacén de entidades: lectura tolerante a fallos y
// escritura completa de los cuatro tipos de documento, asignación monótona de ids y
// el candado por proyecto que serializa los ciclos leer-modificar-escribir.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/gestor-tareas/internal/domain"
	"github.com/jhoicas/gestor-tareas/internal/domain/entity"
	"github.com/jhoicas/gestor-tareas/internal/domain/repository"
	"github.com/jhoicas/gestor-tareas/pkg/logger"
)

// EntityStore acceso tipado a los documentos de empresas, proyectos, usuarios y tareas.
type EntityStore struct {
	docs  repository.DocumentStore
	log   *logger.Logger
	locks *keyedMutex
}

// New construye el almacén sobre el puerto de documentos.
func New(docs repository.DocumentStore, log *logger.Logger) *EntityStore {
	if log == nil {
		log = logger.Nop()
	}
	return &EntityStore{docs: docs, log: log.Named("store"), locks: newKeyedMutex()}
}

// LockProject toma el candado del proyecto y devuelve la función que lo libera.
func (s *EntityStore) LockProject(projectID int) func() {
	return s.locks.Lock(TaskKey(projectID))
}

// LockAdmin serializa las mutaciones sobre empresas, proyectos y usuarios.
func (s *EntityStore) LockAdmin() func() {
	return s.locks.Lock("admin")
}

// ReadCompanies nunca falla: ante documento ausente o corrupto devuelve la colección vacía.
func (s *EntityStore) ReadCompanies(ctx context.Context) *CompanyDocument {
	doc := &CompanyDocument{NextID: 1}
	s.decode(KeyCompanies, s.load(ctx, KeyCompanies), doc)
	return doc.withDefaults()
}

// ReadCompaniesForUpdate lectura para leer-modificar-escribir: si el almacenamiento falla
// devuelve un error domain.ErrIO en lugar de la colección vacía.
func (s *EntityStore) ReadCompaniesForUpdate(ctx context.Context) (*CompanyDocument, error) {
	raw, err := s.loadStrict(ctx, KeyCompanies)
	if err != nil {
		return nil, err
	}
	doc := &CompanyDocument{NextID: 1}
	s.decode(KeyCompanies, raw, doc)
	return doc.withDefaults(), nil
}

// WriteCompanies sobrescribe el documento de empresas.
func (s *EntityStore) WriteCompanies(ctx context.Context, doc *CompanyDocument) error {
	return s.write(ctx, KeyCompanies, doc)
}

// ReadProjects nunca falla: ante documento ausente o corrupto devuelve la colección vacía.
func (s *EntityStore) ReadProjects(ctx context.Context) *ProjectDocument {
	doc := &ProjectDocument{NextID: 1}
	s.decode(KeyProjects, s.load(ctx, KeyProjects), doc)
	return doc.withDefaults()
}

// ReadProjectsForUpdate igual que ReadCompaniesForUpdate para proyectos.
func (s *EntityStore) ReadProjectsForUpdate(ctx context.Context) (*ProjectDocument, error) {
	raw, err := s.loadStrict(ctx, KeyProjects)
	if err != nil {
		return nil, err
	}
	doc := &ProjectDocument{NextID: 1}
	s.decode(KeyProjects, raw, doc)
	return doc.withDefaults(), nil
}

// WriteProjects sobrescribe el documento de proyectos.
func (s *EntityStore) WriteProjects(ctx context.Context, doc *ProjectDocument) error {
	return s.write(ctx, KeyProjects, doc)
}

// ReadUsers nunca falla: ante documento ausente o corrupto devuelve la colección vacía.
func (s *EntityStore) ReadUsers(ctx context.Context) *UserDocument {
	doc := &UserDocument{NextID: 1}
	s.decode(KeyUsers, s.load(ctx, KeyUsers), doc)
	return doc.withDefaults()
}

// ReadUsersForUpdate igual que ReadCompaniesForUpdate para usuarios.
func (s *EntityStore) ReadUsersForUpdate(ctx context.Context) (*UserDocument, error) {
	raw, err := s.loadStrict(ctx, KeyUsers)
	if err != nil {
		return nil, err
	}
	doc := &UserDocument{NextID: 1}
	s.decode(KeyUsers, raw, doc)
	return doc.withDefaults(), nil
}

// WriteUsers sobrescribe el documento de usuarios.
func (s *EntityStore) WriteUsers(ctx context.Context, doc *UserDocument) error {
	return s.write(ctx, KeyUsers, doc)
}

// ReadTasks devuelve el documento de tareas del proyecto tal como está persistido
// (sin normalizar). Acepta también el formato antiguo de lista simple.
func (s *EntityStore) ReadTasks(ctx context.Context, projectID int) *TaskDocument {
	key := TaskKey(projectID)
	return s.decodeTasks(key, s.load(ctx, key))
}

// ReadTasksForUpdate como ReadTasks, pero un fallo del almacenamiento se devuelve como
// error domain.ErrIO: escribir sobre una lectura fallida borraría las tareas existentes.
// El contenido ilegible sigue tratándose como colección vacía.
func (s *EntityStore) ReadTasksForUpdate(ctx context.Context, projectID int) (*TaskDocument, error) {
	key := TaskKey(projectID)
	raw, err := s.loadStrict(ctx, key)
	if err != nil {
		return nil, err
	}
	return s.decodeTasks(key, raw), nil
}

func (s *EntityStore) decodeTasks(key string, raw []byte) *TaskDocument {
	doc := &TaskDocument{NextID: 1}
	if raw != nil {
		if raw[0] == '[' {
			var legacy []entity.Task
			if err := json.Unmarshal(raw, &legacy); err != nil {
				s.log.Warn().Err(err).Str("key", key).Msg("documento de tareas ilegible, se usa colección vacía")
			} else {
				doc.Tasks = legacy
				doc.NextID = 0
			}
		} else if err := json.Unmarshal(raw, doc); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("documento de tareas ilegible, se usa colección vacía")
			doc = &TaskDocument{NextID: 1}
		}
	}
	if doc.Tasks == nil {
		doc.Tasks = []entity.Task{}
	}
	return doc
}

// WriteTasks sobrescribe el documento de tareas del proyecto.
func (s *EntityStore) WriteTasks(ctx context.Context, projectID int, doc *TaskDocument) error {
	return s.write(ctx, TaskKey(projectID), doc)
}

// DeleteTasks elimina el documento de tareas del proyecto.
func (s *EntityStore) DeleteTasks(ctx context.Context, projectID int) error {
	if err := s.docs.Delete(ctx, TaskKey(projectID)); err != nil {
		return fmt.Errorf("store: eliminar tareas del proyecto %d: %w", projectID, err)
	}
	return nil
}

// load devuelve el contenido o nil si está ausente, vacío o no se pudo leer.
func (s *EntityStore) load(ctx context.Context, key string) []byte {
	raw, err := s.loadStrict(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("lectura fallida, se usa colección vacía")
		return nil
	}
	return raw
}

// loadStrict devuelve nil si el documento está ausente o vacío y error si el almacenamiento falla.
func (s *EntityStore) loadStrict(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.docs.Load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("store: leer %s: %w: %w", key, domain.ErrIO, err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}
	return raw, nil
}

func (s *EntityStore) decode(key string, raw []byte, into any) {
	if raw == nil {
		return
	}
	if err := json.Unmarshal(raw, into); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("documento ilegible, se usa colección vacía")
		resetDocument(into)
	}
}

func (s *EntityStore) write(ctx context.Context, key string, doc any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("store: serializar %s: %w: %w", key, domain.ErrIO, err)
	}
	data = append(data, '\n')
	if err := s.docs.Save(ctx, key, data); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return nil
}

// resetDocument devuelve un documento a su valor por defecto tras un Unmarshal parcial.
func resetDocument(doc any) {
	switch d := doc.(type) {
	case *CompanyDocument:
		*d = CompanyDocument{NextID: 1}
	case *ProjectDocument:
		*d = ProjectDocument{NextID: 1}
	case *UserDocument:
		*d = UserDocument{NextID: 1}
	case *TaskDocument:
		*d = TaskDocument{NextID: 1}
	}
}
