package entity

import (
	"strings"
	"time"
)

// TaskStatus es la situación de una tarea. Los valores persistidos son los canónicos.
type TaskStatus string

// Situaciones canónicas de una tarea.
const (
	StatusSinEjecutar TaskStatus = "Sin Ejecutar"
	StatusEnEjecucion TaskStatus = "En Ejecución"
	StatusPendienteDe TaskStatus = "Pendiente de"
	StatusCompletada  TaskStatus = "Completada"
	StatusValidada    TaskStatus = "Validada"
)

// DateLayout formato ISO de los plazos.
const DateLayout = "2006-01-02"

// AllStatuses devuelve las cinco situaciones canónicas en orden de flujo.
func AllStatuses() []TaskStatus {
	return []TaskStatus{StatusSinEjecutar, StatusEnEjecucion, StatusPendienteDe, StatusCompletada, StatusValidada}
}

// Alias compactos aceptados como entrada (p. ej. desde formularios o query params).
var statusAliases = map[string]TaskStatus{
	"sinejecutar": StatusSinEjecutar,
	"enejecucion": StatusEnEjecucion,
	"pendientede": StatusPendienteDe,
	"completada":  StatusCompletada,
	"validada":    StatusValidada,
}

// Valores heredados de versiones anteriores del sistema.
var legacyStatuses = map[string]TaskStatus{
	"Pendiente":          StatusSinEjecutar,
	"Terminada":          StatusCompletada,
	"Lista Para Validar": StatusPendienteDe,
}

// IsCanonical informa si s es exactamente una de las cinco situaciones canónicas.
func (s TaskStatus) IsCanonical() bool {
	switch s {
	case StatusSinEjecutar, StatusEnEjecucion, StatusPendienteDe, StatusCompletada, StatusValidada:
		return true
	}
	return false
}

// IsClosed informa si la tarea ya no requiere acción (Completada o Validada).
func (s TaskStatus) IsClosed() bool {
	return s == StatusCompletada || s == StatusValidada
}

// ParseStatus interpreta una situación recibida como entrada: acepta el valor canónico
// o su alias compacto ("EnEjecucion"). Devuelve false si no es reconocible.
func ParseStatus(raw string) (TaskStatus, bool) {
	raw = strings.TrimSpace(raw)
	if s := TaskStatus(raw); s.IsCanonical() {
		return s, true
	}
	if s, ok := statusAliases[strings.ToLower(raw)]; ok {
		return s, true
	}
	return "", false
}

// NormalizeStatus convierte un valor persistido en canónico. Los valores heredados se
// traducen según la tabla de migración y cualquier otro valor desconocido pasa a Sin Ejecutar.
func NormalizeStatus(raw TaskStatus) TaskStatus {
	if raw.IsCanonical() {
		return raw
	}
	if s, ok := legacyStatuses[string(raw)]; ok {
		return s
	}
	return StatusSinEjecutar
}

// Task es una tarea dentro de un proyecto.
type Task struct {
	ID             int        `json:"id"`
	Text           string     `json:"texto"`
	Status         TaskStatus `json:"situacion"`
	Responsible    string     `json:"responsable"`
	Center         string     `json:"centro"`
	Deadline       string     `json:"plazo"` // YYYY-MM-DD o vacío
	Observation    string     `json:"observacion"`
	Resources      string     `json:"recursos"`
	Documents      []string   `json:"documentos"`
	AssignedUserID *int       `json:"usuario_asignado_id"`
}

// Normalize aplica la migración de situación, los valores por defecto de campos opcionales
// y elimina documentos repetidos (conserva la primera aparición). Devuelve true si cambió algo.
func (t *Task) Normalize() bool {
	changed := false
	if s := NormalizeStatus(t.Status); s != t.Status {
		t.Status = s
		changed = true
	}
	if t.Documents == nil {
		t.Documents = []string{}
		changed = true
	}
	seen := make(map[string]bool, len(t.Documents))
	docs := make([]string, 0, len(t.Documents))
	for _, d := range t.Documents {
		if seen[d] {
			changed = true
			continue
		}
		seen[d] = true
		docs = append(docs, d)
	}
	t.Documents = docs
	return changed
}

// HasDocument informa si ya hay un documento adjunto con ese nombre.
func (t *Task) HasDocument(name string) bool {
	for _, d := range t.Documents {
		if d == name {
			return true
		}
	}
	return false
}

// DeadlineDate interpreta el plazo. Devuelve false si está vacío o no es una fecha válida.
func (t *Task) DeadlineDate() (time.Time, bool) {
	if strings.TrimSpace(t.Deadline) == "" {
		return time.Time{}, false
	}
	d, err := time.Parse(DateLayout, strings.TrimSpace(t.Deadline))
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// CalendarDay devuelve la fecha calendario de now a medianoche UTC, comparable con los
// plazos (que se interpretan como fechas UTC).
func CalendarDay(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Clone devuelve una copia profunda (slices y punteros incluidos).
func (t Task) Clone() Task {
	c := t
	c.Documents = append([]string(nil), t.Documents...)
	if c.Documents == nil {
		c.Documents = []string{}
	}
	if t.AssignedUserID != nil {
		id := *t.AssignedUserID
		c.AssignedUserID = &id
	}
	return c
}
