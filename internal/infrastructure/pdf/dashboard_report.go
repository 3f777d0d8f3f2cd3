// Package pdf implementa el reporte PDF del dashboard de tareas de un proyecto.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + Proyecto   │  Fecha del reporte           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Total / % completado / Vencidas / Próximas         │
//	│  EFICIENCIA: % en ejecución / % sin ejecutar / 7 días / docs │
//	│  TAREAS CRÍTICAS: vencidas o por vencer, con días restantes  │
//	│  SITUACIONES: conteo de las cinco situaciones                │
//	│  RESPONSABLES y CENTROS: conteos                             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: ID | Tarea | Situación | Responsable | Centro | Plazo│
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/gestor-tareas/internal/application/analytics"
	"github.com/jhoicas/gestor-tareas/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa analytics.ReportGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateDashboardPDF genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateDashboardPDF(_ context.Context, d *analytics.Dashboard) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Dashboard de tareas - "+d.Project.Name, true).
		WithAuthor(d.Company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(d))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(d.Statistics))
	m.AddRows(efficiencyRow(d.Statistics))
	m.AddRows(sectionTitle(fmt.Sprintf("TAREAS CRÍTICAS (%d)", len(d.CriticalTasks))))
	m.AddRows(criticalRows(d.CriticalTasks)...)
	m.AddRows(sectionTitle("SITUACIONES"))
	m.AddRows(statusRows(d.Statistics)...)
	m.AddRows(sectionTitle("POR RESPONSABLE"))
	m.AddRows(countRows(d.Statistics.ByResponsible)...)
	m.AddRows(sectionTitle("POR CENTRO DE RESPONSABILIDAD"))
	m.AddRows(countRows(d.Statistics.ByCenter)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(sectionTitle(fmt.Sprintf("TAREAS (%d de %d) %s", len(d.Tasks), d.Statistics.Total, criteriaLabel(d.Criteria))))
	m.AddRows(tableHeaderRow())
	m.AddRows(taskRows(d.Tasks, d)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: empresa + proyecto (izq) y fecha (der).
func headerRow(d *analytics.Dashboard) core.Row {
	status := "Activo"
	if d.Project.Terminated {
		status = "Terminado"
	}
	return row.New(18).Add(
		col.New(8).Add(
			text.New(d.Company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Proyecto: "+d.Project.Name+" ("+status+")", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("DASHBOARD DE TAREAS", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(d.DateLabel, props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func summaryRow(st analytics.Statistics) core.Row {
	kpi := func(label, value string, color *props.Color) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Size: 7, Align: align.Center, Color: colorGray, Top: 1}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Center, Color: color, Top: 5}),
		)
	}
	return row.New(14).Add(
		kpi("Total", strconv.Itoa(st.Total), colorPrimary),
		kpi("% completado", st.CompletionPct.StringFixed(2)+"%", colorPrimary),
		kpi("Vencidas", strconv.Itoa(st.Deadlines.Overdue), colorAlert),
		kpi("Próximas / sin plazo", fmt.Sprintf("%d / %d", st.Deadlines.Upcoming, st.Deadlines.NoDeadline), colorPrimary),
	)
}

func efficiencyRow(st analytics.Statistics) core.Row {
	kpi := func(label, value string) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Size: 7, Align: align.Center, Color: colorGray, Top: 1}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Center, Color: colorPrimary, Top: 5}),
		)
	}
	return row.New(13).Add(
		kpi("% en ejecución", st.InProgressPct.StringFixed(2)+"%"),
		kpi("% sin ejecutar", st.NotStartedPct.StringFixed(2)+"%"),
		kpi(fmt.Sprintf("Vencen en %d días", analytics.CriticalWindowDays), strconv.Itoa(st.DueThisWeek)),
		kpi("Documentos (promedio)", fmt.Sprintf("%d (%s)", st.TotalDocuments, st.AvgDocuments.StringFixed(2))),
	)
}

// criticalRows: una fila por tarea crítica; las vencidas en rojo.
func criticalRows(list []analytics.CriticalTask) []core.Row {
	if len(list) == 0 {
		return []core.Row{countRow("Sin tareas vencidas ni por vencer", 0)}
	}
	rows := make([]core.Row, 0, len(list))
	for _, ct := range list {
		color := colorGray
		label := fmt.Sprintf("vence en %d días", ct.DaysRemaining)
		switch {
		case ct.DaysRemaining < 0:
			color = colorAlert
			label = fmt.Sprintf("vencida hace %d días", -ct.DaysRemaining)
		case ct.DaysRemaining == 0:
			label = "vence hoy"
		}
		rows = append(rows, row.New(5).Add(
			col.New(1).Add(text.New(strconv.Itoa(ct.ID), props.Text{Size: 7, Align: align.Center, Top: 0.5})),
			col.New(6).Add(text.New(ct.Text, props.Text{Size: 7, Left: 1, Top: 0.5})),
			col.New(2).Add(text.New(nonEmpty(ct.Responsible, "—"), props.Text{Size: 7, Left: 1, Top: 0.5})),
			col.New(3).Add(text.New(label, props.Text{Size: 7, Align: align.Right, Right: 2, Top: 0.5, Color: color})),
		))
	}
	return rows
}

func sectionTitle(label string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
	))
}

func countRow(label string, n int) core.Row {
	return row.New(5).Add(
		col.New(8).Add(text.New(label, props.Text{Size: 8, Left: 2, Top: 0.5})),
		col.New(4).Add(text.New(strconv.Itoa(n), props.Text{Size: 8, Align: align.Right, Right: 2, Top: 0.5})),
	)
}

// statusRows: las cinco situaciones en orden de flujo.
func statusRows(st analytics.Statistics) []core.Row {
	rows := make([]core.Row, 0, 5)
	for _, s := range entity.AllStatuses() {
		rows = append(rows, countRow(string(s), st.ByStatus[s]))
	}
	return rows
}

// countRows: de mayor a menor conteo; a igual conteo, por nombre.
func countRows(counts map[string]int) []core.Row {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) == 0 {
		return []core.Row{countRow("—", 0)}
	}
	rows := make([]core.Row, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, countRow(k, counts[k]))
	}
	return rows
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("ID", 1, align.Center),
		h("Tarea", 4, align.Left),
		h("Situación", 2, align.Left),
		h("Responsable", 2, align.Left),
		h("Centro", 1, align.Left),
		h("Plazo", 2, align.Center),
	)
}

// taskRows: una fila por tarea filtrada; los plazos vencidos en rojo.
func taskRows(tasks []entity.Task, d *analytics.Dashboard) []core.Row {
	if len(tasks) == 0 {
		return []core.Row{row.New(8).Add(col.New(12).Add(
			text.New("Sin tareas para los filtros seleccionados.", props.Text{Size: 8, Color: colorGray, Top: 2, Align: align.Center}),
		))}
	}
	rows := make([]core.Row, 0, len(tasks))
	for _, t := range tasks {
		deadlineColor := colorGray
		if t.Deadline != "" && !t.Status.IsClosed() && analytics.ClassifyDeadline(t, d.GeneratedAt) == analytics.BucketOverdue {
			deadlineColor = colorAlert
		}
		rows = append(rows, row.New(7).Add(
			col.New(1).Add(text.New(strconv.Itoa(t.ID), props.Text{Size: 7, Align: align.Center, Top: 1})),
			col.New(4).Add(text.New(t.Text, props.Text{Size: 7, Left: 1, Top: 1})),
			col.New(2).Add(text.New(string(t.Status), props.Text{Size: 7, Left: 1, Top: 1})),
			col.New(2).Add(text.New(nonEmpty(t.Responsible, "—"), props.Text{Size: 7, Left: 1, Top: 1})),
			col.New(1).Add(text.New(nonEmpty(t.Center, "—"), props.Text{Size: 7, Left: 1, Top: 1})),
			col.New(2).Add(text.New(nonEmpty(t.Deadline, "—"), props.Text{Size: 7, Align: align.Center, Top: 1, Color: deadlineColor})),
		))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func criteriaLabel(c analytics.Criteria) string {
	label := ""
	add := func(name, v string) {
		if v == "" || v == analytics.All {
			return
		}
		if label != "" {
			label += ", "
		}
		label += name + ": " + v
	}
	add("centro", c.Center)
	add("responsable", c.Responsible)
	add("situación", c.Status)
	add("plazo", c.DeadlineBucket)
	if label == "" {
		return ""
	}
	return "[" + label + "]"
}
