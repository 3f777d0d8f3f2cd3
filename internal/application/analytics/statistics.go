// Package analytics agrega y filtra colecciones de tareas para el dashboard y los reportes.
// Las funciones son puras: no mutan la entrada y dependen solo de las tareas y de la fecha.
package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestor-tareas/internal/domain/entity"
)

// Unassigned agrupa las tareas sin responsable o sin centro.
const Unassigned = "Unassigned"

// DeadlineBucket clasificación de una tarea según su plazo.
type DeadlineBucket string

// Clasificaciones de plazo.
const (
	BucketOverdue    DeadlineBucket = "overdue"
	BucketUpcoming   DeadlineBucket = "upcoming"
	BucketNoDeadline DeadlineBucket = "noDeadline"
)

// ParseBucket acepta los nombres de las clasificaciones (sin distinguir mayúsculas).
func ParseBucket(raw string) (DeadlineBucket, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "overdue":
		return BucketOverdue, true
	case "upcoming":
		return BucketUpcoming, true
	case "nodeadline":
		return BucketNoDeadline, true
	}
	return "", false
}

// DeadlineCounts tareas por clasificación de plazo.
type DeadlineCounts struct {
	Overdue    int `json:"overdue"`
	Upcoming   int `json:"upcoming"`
	NoDeadline int `json:"noDeadline"`
}

// Statistics resumen de una colección de tareas.
type Statistics struct {
	Total         int                       `json:"total"`
	ByStatus      map[entity.TaskStatus]int `json:"por_situacion"`
	ByResponsible map[string]int            `json:"por_responsable"`
	ByCenter      map[string]int            `json:"por_centro"`
	Deadlines     DeadlineCounts            `json:"plazos"`
	// CompletionPct porcentaje de tareas Completada o Validada, redondeado a 2 decimales.
	CompletionPct decimal.Decimal `json:"porcentaje_completado"`
	InProgressPct decimal.Decimal `json:"tasa_en_progreso"`
	NotStartedPct decimal.Decimal `json:"tasa_sin_ejecutar"`
	Closed        int             `json:"total_completadas"`

	WithDeadline    int `json:"con_plazo"`
	WithoutDeadline int `json:"sin_plazo"`
	// DueThisWeek tareas cuyo plazo cae entre hoy y dentro de CriticalWindowDays días.
	DueThisWeek int `json:"por_vencer"`

	TotalDocuments int             `json:"total_documentos"`
	AvgDocuments   decimal.Decimal `json:"promedio_documentos"`

	TopResponsibles []RankEntry `json:"top_responsables"`
	TopCenters      []RankEntry `json:"top_centros"`
}

// RankEntry posición de un ranking por cantidad de tareas.
type RankEntry struct {
	Name  string `json:"nombre"`
	Count int    `json:"cantidad_tareas"`
}

// TopN tamaño de los rankings de responsables y centros.
const TopN = 5

// CriticalWindowDays días hacia adelante (hoy incluido) en que una tarea se considera por vencer.
const CriticalWindowDays = 7

// ClassifyDeadline: plazo anterior a hoy → overdue; hoy o posterior → upcoming;
// vacío o con formato inválido → noDeadline.
func ClassifyDeadline(t entity.Task, now time.Time) DeadlineBucket {
	d, ok := t.DeadlineDate()
	if !ok {
		return BucketNoDeadline
	}
	if d.Before(entity.CalendarDay(now)) {
		return BucketOverdue
	}
	return BucketUpcoming
}

// ComputeStatistics cuenta las tareas por situación (las cinco siempre presentes),
// responsable, centro y plazo, y calcula tasas, documentos y rankings.
// La situación de cada tarea se normaliza una vez y ese valor se usa en todos los conteos.
func ComputeStatistics(tasks []entity.Task, now time.Time) Statistics {
	st := Statistics{
		Total:           len(tasks),
		ByStatus:        make(map[entity.TaskStatus]int, 5),
		ByResponsible:   map[string]int{},
		ByCenter:        map[string]int{},
		CompletionPct:   decimal.Zero,
		InProgressPct:   decimal.Zero,
		NotStartedPct:   decimal.Zero,
		AvgDocuments:    decimal.Zero,
		TopResponsibles: []RankEntry{},
		TopCenters:      []RankEntry{},
	}
	for _, s := range entity.AllStatuses() {
		st.ByStatus[s] = 0
	}

	for _, t := range tasks {
		status := entity.NormalizeStatus(t.Status)
		st.ByStatus[status]++
		if status.IsClosed() {
			st.Closed++
		}
		st.ByResponsible[bucketName(t.Responsible)]++
		st.ByCenter[bucketName(t.Center)]++
		switch ClassifyDeadline(t, now) {
		case BucketOverdue:
			st.Deadlines.Overdue++
		case BucketUpcoming:
			st.Deadlines.Upcoming++
		default:
			st.Deadlines.NoDeadline++
		}
		if days, ok := DaysRemaining(t, now); ok {
			st.WithDeadline++
			if days >= 0 && days <= CriticalWindowDays {
				st.DueThisWeek++
			}
		} else {
			st.WithoutDeadline++
		}
		st.TotalDocuments += len(t.Documents)
	}

	if st.Total > 0 {
		st.CompletionPct = percent(st.Closed, st.Total)
		st.InProgressPct = percent(st.ByStatus[entity.StatusEnEjecucion], st.Total)
		st.NotStartedPct = percent(st.ByStatus[entity.StatusSinEjecutar], st.Total)
		st.AvgDocuments = decimal.NewFromInt(int64(st.TotalDocuments)).
			Div(decimal.NewFromInt(int64(st.Total))).
			Round(2)
	}
	st.TopResponsibles = ranking(tasks, func(t entity.Task) string { return t.Responsible }, TopN)
	st.TopCenters = ranking(tasks, func(t entity.Task) string { return t.Center }, TopN)
	return st
}

// DaysRemaining días calendario desde hoy hasta el plazo (negativo si ya venció).
// Devuelve false si la tarea no tiene un plazo válido.
func DaysRemaining(t entity.Task, now time.Time) (int, bool) {
	d, ok := t.DeadlineDate()
	if !ok {
		return 0, false
	}
	return int(d.Sub(entity.CalendarDay(now)) / (24 * time.Hour)), true
}

// CriticalTask tarea vencida o por vencer con sus días restantes.
type CriticalTask struct {
	entity.Task
	DaysRemaining int `json:"dias_restantes"`
}

// CriticalTasks devuelve las tareas vencidas o que vencen en los próximos CriticalWindowDays
// días, de la más urgente a la menos (a igual plazo se conserva el orden de entrada).
func CriticalTasks(tasks []entity.Task, now time.Time) []CriticalTask {
	out := []CriticalTask{}
	for _, t := range tasks {
		days, ok := DaysRemaining(t, now)
		if !ok || days > CriticalWindowDays {
			continue
		}
		out = append(out, CriticalTask{Task: t.Clone(), DaysRemaining: days})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DaysRemaining < out[j].DaysRemaining })
	return out
}

// ranking cuenta las tareas por el valor del campo (los vacíos no participan) y devuelve los
// n primeros por cantidad descendente; los empates se ordenan por nombre.
func ranking(tasks []entity.Task, field func(entity.Task) string, n int) []RankEntry {
	counts := map[string]int{}
	for _, t := range tasks {
		if v := strings.TrimSpace(field(t)); v != "" {
			counts[v]++
		}
	}
	out := make([]RankEntry, 0, len(counts))
	for name, c := range counts {
		out = append(out, RankEntry{Name: name, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func percent(part, total int) decimal.Decimal {
	return decimal.NewFromInt(int64(part)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(2)
}

func bucketName(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return Unassigned
	}
	return v
}
