package analytics

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/gestor-tareas/internal/application/access"
	"github.com/jhoicas/gestor-tareas/internal/application/store"
	"github.com/jhoicas/gestor-tareas/internal/application/tasks"
	"github.com/jhoicas/gestor-tareas/internal/domain"
	"github.com/jhoicas/gestor-tareas/internal/domain/entity"
)

// Dashboard respuesta de GET /api/proyectos/:id/dashboard.
// Las estadísticas cubren todo el proyecto; Tasks es la lista ya filtrada.
type Dashboard struct {
	Company     entity.Company `json:"empresa"`
	Project     entity.Project `json:"proyecto"`
	DateLabel   string         `json:"fecha"` // ej: "10 de Junio de 2024"
	GeneratedAt time.Time      `json:"generado"`
	Statistics  Statistics     `json:"estadisticas"`
	// CriticalTasks vencidas o por vencer de todo el proyecto, la más urgente primero.
	CriticalTasks []CriticalTask `json:"tareas_criticas"`
	Criteria      Criteria       `json:"filtros"`
	Centers       []string       `json:"centros"`
	Responsibles  []string       `json:"responsables"`
	Tasks         []entity.Task  `json:"tareas"`
}

// ReportGenerator genera la representación PDF de un dashboard.
type ReportGenerator interface {
	GenerateDashboardPDF(ctx context.Context, d *Dashboard) ([]byte, error)
}

// DashboardUseCase arma el dashboard de un proyecto y su reporte PDF.
type DashboardUseCase struct {
	store     *store.EntityStore
	auth      *access.Authorizer
	tasks     *tasks.LifecycleUseCase
	generator ReportGenerator
}

// NewDashboardUseCase construye el caso de uso. generator puede ser nil si no se exportan PDFs.
func NewDashboardUseCase(s *store.EntityStore, auth *access.Authorizer, lifecycle *tasks.LifecycleUseCase, generator ReportGenerator) *DashboardUseCase {
	return &DashboardUseCase{store: s, auth: auth, tasks: lifecycle, generator: generator}
}

// Get valida el acceso del usuario al proyecto y calcula estadísticas y filtros a la fecha now.
func (uc *DashboardUseCase) Get(ctx context.Context, user *entity.User, projectID int, c Criteria, now time.Time) (*Dashboard, error) {
	if err := uc.auth.Authorize(ctx, user, access.ProjectResource(projectID), access.ActionView); err != nil {
		return nil, err
	}
	project := uc.store.ReadProjects(ctx).Find(projectID)
	if project == nil {
		return nil, domain.ErrNotFound
	}
	company := uc.store.ReadCompanies(ctx).Find(project.CompanyID)
	if company == nil {
		return nil, fmt.Errorf("dashboard: empresa %d del proyecto %d: %w", project.CompanyID, projectID, domain.ErrNotFound)
	}

	list, err := uc.tasks.ListTasks(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("dashboard: tareas: %w", err)
	}

	return &Dashboard{
		Company:       *company,
		Project:       *project,
		DateLabel:     dayLabel(now),
		GeneratedAt:   now,
		Statistics:    ComputeStatistics(list, now),
		CriticalTasks: CriticalTasks(list, now),
		Criteria:      c,
		Centers:       Centers(list),
		Responsibles:  Responsibles(list),
		Tasks:         FilterTasks(list, c, now),
	}, nil
}

// Report genera el PDF del dashboard con los mismos filtros que Get.
//
// Retorna (pdfBytes, filename, nil) o los mismos errores que Get.
func (uc *DashboardUseCase) Report(ctx context.Context, user *entity.User, projectID int, c Criteria, now time.Time) ([]byte, string, error) {
	if uc.generator == nil {
		return nil, "", fmt.Errorf("dashboard: generador de PDF no configurado")
	}
	d, err := uc.Get(ctx, user, projectID, c, now)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err := uc.generator.GenerateDashboardPDF(ctx, d)
	if err != nil {
		return nil, "", fmt.Errorf("dashboard: generar PDF: %w", err)
	}
	filename := fmt.Sprintf("dashboard_proyecto_%d_%s.pdf", projectID, now.Format("20060102"))
	return pdfBytes, filename, nil
}

// ExportCSV exporta a CSV (UTF-8 con BOM) las tareas que dejan los mismos filtros que Get.
//
// Retorna (csvBytes, filename, nil) o los mismos errores que Get.
func (uc *DashboardUseCase) ExportCSV(ctx context.Context, user *entity.User, projectID int, c Criteria, now time.Time) ([]byte, string, error) {
	d, err := uc.Get(ctx, user, projectID, c, now)
	if err != nil {
		return nil, "", err
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, d.Tasks, now); err != nil {
		return nil, "", fmt.Errorf("dashboard: exportar CSV: %w", err)
	}
	filename := fmt.Sprintf("tareas_proyecto_%d_%s.csv", projectID, now.Format("20060102"))
	return buf.Bytes(), filename, nil
}

// dayLabel devuelve una etiqueta legible de la fecha, ej: "10 de Junio de 2024".
func dayLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%d de %s de %d", t.Day(), months[t.Month()-1], t.Year())
}
