package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/gestor-tareas/internal/domain/entity"
)

func TestNormalizeStatus_MigracionHeredada(t *testing.T) {
	casos := map[entity.TaskStatus]entity.TaskStatus{
		"Pendiente":          entity.StatusSinEjecutar,
		"Terminada":          entity.StatusCompletada,
		"Lista Para Validar": entity.StatusPendienteDe,
		"Cualquier cosa":     entity.StatusSinEjecutar,
		"":                   entity.StatusSinEjecutar,
		"Validada":           entity.StatusValidada,
		"En Ejecución":       entity.StatusEnEjecucion,
	}
	for raw, want := range casos {
		assert.Equal(t, want, entity.NormalizeStatus(raw), "valor %q", raw)
	}
}

func TestNormalizeStatus_Estable(t *testing.T) {
	for _, s := range entity.AllStatuses() {
		assert.Equal(t, s, entity.NormalizeStatus(entity.NormalizeStatus(s)))
	}
}

func TestParseStatus(t *testing.T) {
	s, ok := entity.ParseStatus("Pendiente de")
	assert.True(t, ok)
	assert.Equal(t, entity.StatusPendienteDe, s)

	s, ok = entity.ParseStatus(" EnEjecucion ")
	assert.True(t, ok)
	assert.Equal(t, entity.StatusEnEjecucion, s)

	_, ok = entity.ParseStatus("Terminada")
	assert.False(t, ok, "los valores heredados no son entradas válidas")
}

func TestTask_NormalizeCompletaDocumentos(t *testing.T) {
	task := entity.Task{ID: 1, Status: "Pendiente"}
	assert.True(t, task.Normalize())
	assert.Equal(t, entity.StatusSinEjecutar, task.Status)
	assert.NotNil(t, task.Documents)
	assert.False(t, task.Normalize(), "la segunda normalización no cambia nada")
}

func TestTask_NormalizeDeduplicaDocumentos(t *testing.T) {
	task := entity.Task{ID: 1, Status: entity.StatusCompletada, Documents: []string{"b.pdf", "a.pdf", "b.pdf", "c.pdf", "a.pdf"}}
	assert.True(t, task.Normalize())
	assert.Equal(t, []string{"b.pdf", "a.pdf", "c.pdf"}, task.Documents, "se conserva el orden de la primera aparición")
	assert.False(t, task.Normalize())

	clean := entity.Task{ID: 2, Status: entity.StatusValidada, Documents: []string{"x.pdf", "y.pdf"}}
	assert.False(t, clean.Normalize())
	assert.Equal(t, []string{"x.pdf", "y.pdf"}, clean.Documents)
}

func TestTask_DeadlineDate(t *testing.T) {
	d, ok := (&entity.Task{Deadline: "2024-06-15"}).DeadlineDate()
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), d)

	_, ok = (&entity.Task{Deadline: "15/06/2024"}).DeadlineDate()
	assert.False(t, ok)
	_, ok = (&entity.Task{Deadline: "  "}).DeadlineDate()
	assert.False(t, ok)
}

func TestTask_CloneEsProfundo(t *testing.T) {
	uid := 3
	orig := entity.Task{Documents: []string{"a.pdf"}, AssignedUserID: &uid}
	c := orig.Clone()
	c.Documents[0] = "b.pdf"
	*c.AssignedUserID = 9

	assert.Equal(t, "a.pdf", orig.Documents[0])
	assert.Equal(t, 3, *orig.AssignedUserID)
}
