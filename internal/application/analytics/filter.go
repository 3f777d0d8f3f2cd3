package analytics

import (
	"strings"
	"time"

	"github.com/jhoicas/gestor-tareas/internal/domain/entity"
)

// All valor centinela que desactiva un criterio.
const All = "all"

// Criteria filtros del dashboard. Un campo vacío o "all" no filtra.
type Criteria struct {
	Center         string `json:"centro" query:"centro"`
	Responsible    string `json:"responsable" query:"responsable"`
	Status         string `json:"situacion" query:"situacion"`
	DeadlineBucket string `json:"plazo" query:"plazo"`
}

func active(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && !strings.EqualFold(v, All)
}

// FilterTasks devuelve, en el mismo orden, las tareas que cumplen todos los criterios.
// La situación de cada tarea se compara ya normalizada, igual que en ComputeStatistics.
// La entrada no se modifica. Una situación o clasificación desconocida no coincide con nada.
func FilterTasks(tasks []entity.Task, c Criteria, now time.Time) []entity.Task {
	var (
		status    entity.TaskStatus
		statusOK  = true
		bucket    DeadlineBucket
		bucketOK  = true
		wantState = active(c.Status)
		wantDue   = active(c.DeadlineBucket)
	)
	if wantState {
		status, statusOK = entity.ParseStatus(c.Status)
	}
	if wantDue {
		bucket, bucketOK = ParseBucket(c.DeadlineBucket)
	}

	out := []entity.Task{}
	if !statusOK || !bucketOK {
		return out
	}
	for _, t := range tasks {
		if active(c.Center) && t.Center != strings.TrimSpace(c.Center) {
			continue
		}
		if active(c.Responsible) && t.Responsible != strings.TrimSpace(c.Responsible) {
			continue
		}
		if wantState && entity.NormalizeStatus(t.Status) != status {
			continue
		}
		if wantDue && ClassifyDeadline(t, now) != bucket {
			continue
		}
		out = append(out, t.Clone())
	}
	return out
}

// Centers y Responsibles devuelven los valores distintos presentes, en orden de aparición,
// para poblar los selectores de filtro.
func Centers(tasks []entity.Task) []string {
	return distinct(tasks, func(t entity.Task) string { return t.Center })
}

func Responsibles(tasks []entity.Task) []string {
	return distinct(tasks, func(t entity.Task) string { return t.Responsible })
}

func distinct(tasks []entity.Task, field func(entity.Task) string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, t := range tasks {
		v := strings.TrimSpace(field(t))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
