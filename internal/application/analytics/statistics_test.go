package analytics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestor-tareas/internal/application/analytics"
	"github.com/jhoicas/gestor-tareas/internal/domain/entity"
)

var today = time.Date(2024, 6, 10, 9, 30, 0, 0, time.UTC)

func task(id int, status entity.TaskStatus, responsible, center, deadline string) entity.Task {
	return entity.Task{
		ID: id, Text: "t", Status: status,
		Responsible: responsible, Center: center, Deadline: deadline,
		Documents: []string{},
	}
}

func TestComputeStatistics_Vacia(t *testing.T) {
	st := analytics.ComputeStatistics(nil, today)

	assert.Equal(t, 0, st.Total)
	assert.Len(t, st.ByStatus, 5)
	for _, s := range entity.AllStatuses() {
		v, ok := st.ByStatus[s]
		assert.True(t, ok, "falta %s", s)
		assert.Zero(t, v)
	}
	assert.Empty(t, st.ByResponsible)
	assert.Empty(t, st.ByCenter)
	assert.Equal(t, analytics.DeadlineCounts{}, st.Deadlines)
	assert.True(t, st.CompletionPct.IsZero())
}

func TestComputeStatistics_Conteos(t *testing.T) {
	tasks := []entity.Task{
		task(1, entity.StatusSinEjecutar, "Ana", "Compras", "2020-01-01"),
		task(2, entity.StatusCompletada, "Ana", "", "2024-06-15"),
		task(3, entity.StatusValidada, "", "Compras", ""),
		task(4, entity.StatusEnEjecucion, " ", "Obra", "15/06/2024"),
		task(5, entity.StatusSinEjecutar, "Luis", "Obra", "2024-06-10"),
		task(6, entity.StatusPendienteDe, "Luis", "Obra", "2024-06-09"),
	}
	before := append([]entity.Task(nil), tasks...)

	st := analytics.ComputeStatistics(tasks, today)

	assert.Equal(t, 6, st.Total)
	assert.Equal(t, map[entity.TaskStatus]int{
		entity.StatusSinEjecutar: 2,
		entity.StatusEnEjecucion: 1,
		entity.StatusPendienteDe: 1,
		entity.StatusCompletada:  1,
		entity.StatusValidada:    1,
	}, st.ByStatus)
	assert.Equal(t, map[string]int{"Ana": 2, "Luis": 2, analytics.Unassigned: 2}, st.ByResponsible)
	assert.Equal(t, map[string]int{"Compras": 2, "Obra": 3, analytics.Unassigned: 1}, st.ByCenter)
	assert.Equal(t, analytics.DeadlineCounts{Overdue: 2, Upcoming: 2, NoDeadline: 2}, st.Deadlines)
	assert.Equal(t, "33.33", st.CompletionPct.String())
	assert.Equal(t, before, tasks, "la entrada no se modifica")

	assert.Equal(t, 2, st.Closed)
	assert.Equal(t, "16.67", st.InProgressPct.String())
	assert.Equal(t, "33.33", st.NotStartedPct.String())
	assert.Equal(t, 4, st.WithDeadline)
	assert.Equal(t, 2, st.WithoutDeadline, "vacío y formato inválido cuentan como sin plazo")
	assert.Equal(t, 2, st.DueThisWeek, "hoy y dentro de 5 días; el vencido ayer no cuenta")
	assert.Equal(t, 0, st.TotalDocuments)
	assert.True(t, st.AvgDocuments.IsZero())
	assert.Equal(t, []analytics.RankEntry{{Name: "Ana", Count: 2}, {Name: "Luis", Count: 2}}, st.TopResponsibles,
		"los responsables vacíos no entran en el ranking")
	assert.Equal(t, []analytics.RankEntry{{Name: "Obra", Count: 3}, {Name: "Compras", Count: 2}}, st.TopCenters)
}

func TestComputeStatistics_SituacionesHeredadasSeNormalizanUnaVez(t *testing.T) {
	tasks := []entity.Task{
		task(1, "Terminada", "", "", ""),
		task(2, "Pendiente", "", "", ""),
		task(3, "Lista Para Validar", "", "", ""),
		task(4, entity.StatusValidada, "", "", ""),
	}

	st := analytics.ComputeStatistics(tasks, today)

	assert.Equal(t, 1, st.ByStatus[entity.StatusCompletada])
	assert.Equal(t, 1, st.ByStatus[entity.StatusSinEjecutar])
	assert.Equal(t, 1, st.ByStatus[entity.StatusPendienteDe])
	assert.Equal(t, 2, st.Closed, "Terminada cuenta como Completada")
	assert.Equal(t, "50", st.CompletionPct.String())
	assert.Equal(t, "25", st.NotStartedPct.String())
}

func TestComputeStatistics_DocumentosYRankings(t *testing.T) {
	tasks := []entity.Task{}
	add := func(responsible, center string, docs ...string) {
		tk := task(len(tasks)+1, entity.StatusEnEjecucion, responsible, center, "")
		tk.Documents = append([]string{}, docs...)
		tasks = append(tasks, tk)
	}
	add("Ana", "A", "a.pdf", "b.pdf", "c.pdf")
	add("Ana", "A", "d.pdf")
	add("Ana", "B")
	add("Bea", "B", "e.pdf")
	add("Bea", "C")
	add("Carla", "D")
	add("Dora", "E")
	add("Eva", "F")
	add("Fabio", "G")

	st := analytics.ComputeStatistics(tasks, today)

	assert.Equal(t, 5, st.TotalDocuments)
	assert.Equal(t, "0.56", st.AvgDocuments.String())
	assert.Equal(t, "100", st.InProgressPct.String())
	require.Len(t, st.TopResponsibles, analytics.TopN)
	assert.Equal(t, []analytics.RankEntry{
		{Name: "Ana", Count: 3},
		{Name: "Bea", Count: 2},
		{Name: "Carla", Count: 1},
		{Name: "Dora", Count: 1},
		{Name: "Eva", Count: 1},
	}, st.TopResponsibles, "a igual cantidad se ordena por nombre")
	require.Len(t, st.TopCenters, analytics.TopN)
	assert.Equal(t, analytics.RankEntry{Name: "A", Count: 2}, st.TopCenters[0])
	assert.Equal(t, analytics.RankEntry{Name: "B", Count: 2}, st.TopCenters[1])
}

func TestDaysRemaining(t *testing.T) {
	d, ok := analytics.DaysRemaining(entity.Task{Deadline: "2024-06-17"}, today)
	assert.True(t, ok)
	assert.Equal(t, 7, d)

	d, ok = analytics.DaysRemaining(entity.Task{Deadline: "2024-06-08"}, today)
	assert.True(t, ok)
	assert.Equal(t, -2, d)

	_, ok = analytics.DaysRemaining(entity.Task{Deadline: "pronto"}, today)
	assert.False(t, ok)
}

func TestCriticalTasks_OrdenadasPorDiasRestantes(t *testing.T) {
	tasks := []entity.Task{
		task(1, entity.StatusSinEjecutar, "", "", "2024-06-17"),
		task(2, entity.StatusSinEjecutar, "", "", "2024-06-18"),
		task(3, entity.StatusEnEjecucion, "", "", "2024-06-01"),
		task(4, entity.StatusSinEjecutar, "", "", ""),
		task(5, entity.StatusCompletada, "", "", "2024-06-10"),
		task(6, entity.StatusSinEjecutar, "", "", "2024-06-12"),
		task(7, entity.StatusSinEjecutar, "", "", "2024-06-10"),
	}

	got := analytics.CriticalTasks(tasks, today)

	gotIDs := []int{}
	days := []int{}
	for _, ct := range got {
		gotIDs = append(gotIDs, ct.ID)
		days = append(days, ct.DaysRemaining)
	}
	assert.Equal(t, []int{3, 5, 7, 6, 1}, gotIDs, "a igual plazo se conserva el orden de entrada")
	assert.Equal(t, []int{-9, 0, 0, 2, 7}, days)

	assert.Empty(t, analytics.CriticalTasks(nil, today))
	assert.NotNil(t, analytics.CriticalTasks(nil, today))
}

func TestClassifyDeadline(t *testing.T) {
	tests := []struct {
		deadline string
		want     analytics.DeadlineBucket
	}{
		{"2020-01-01", analytics.BucketOverdue},
		{"2024-06-09", analytics.BucketOverdue},
		{"2024-06-10", analytics.BucketUpcoming},
		{"2024-06-15", analytics.BucketUpcoming},
		{"", analytics.BucketNoDeadline},
		{"mañana", analytics.BucketNoDeadline},
		{"2024-13-40", analytics.BucketNoDeadline},
	}
	for _, tt := range tests {
		t.Run(tt.deadline, func(t *testing.T) {
			got := analytics.ClassifyDeadline(entity.Task{Deadline: tt.deadline}, today)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyDeadline_HoraLocalNoCambiaElDia(t *testing.T) {
	// 23:30 en UTC-5 sigue siendo el 10 de junio para quien consulta.
	bogota := time.FixedZone("COT", -5*3600)
	now := time.Date(2024, 6, 10, 23, 30, 0, 0, bogota)

	assert.Equal(t, analytics.BucketUpcoming, analytics.ClassifyDeadline(entity.Task{Deadline: "2024-06-10"}, now))
	assert.Equal(t, analytics.BucketOverdue, analytics.ClassifyDeadline(entity.Task{Deadline: "2024-06-09"}, now))
}

func TestComputeStatistics_Determinista(t *testing.T) {
	tasks := []entity.Task{
		task(1, entity.StatusCompletada, "Ana", "Compras", "2024-06-01"),
		task(2, entity.StatusSinEjecutar, "Luis", "Obra", ""),
	}
	a := analytics.ComputeStatistics(tasks, today)
	b := analytics.ComputeStatistics(tasks, today)
	assert.Equal(t, a, b)
	assert.Equal(t, "50", a.CompletionPct.String())
}
