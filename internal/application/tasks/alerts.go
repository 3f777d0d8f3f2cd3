package tasks

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/gestor-tareas/internal/domain/entity"
)

// ProjectAlert tareas próximas a vencer de un proyecto, para el envío de alertas (externo).
type ProjectAlert struct {
	Company entity.Company `json:"empresa"`
	Project entity.Project `json:"proyecto"`
	Tasks   []entity.Task  `json:"tareas"`
}

// DueSoon devuelve las tareas abiertas (ni Completada ni Validada) cuyo plazo cae entre hoy
// y hoy + withinDays, ambos inclusive, ordenadas por plazo.
func (uc *LifecycleUseCase) DueSoon(ctx context.Context, projectID, withinDays int, now time.Time) ([]entity.Task, error) {
	list, err := uc.ListTasks(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return dueSoon(list, withinDays, now), nil
}

// AlertCandidates recorre los proyectos no terminados de empresas activas y devuelve los que
// tienen tareas próximas a vencer.
func (uc *LifecycleUseCase) AlertCandidates(ctx context.Context, withinDays int, now time.Time) ([]ProjectAlert, error) {
	companies := uc.store.ReadCompanies(ctx)
	projects := uc.store.ReadProjects(ctx)

	alerts := []ProjectAlert{}
	for _, p := range projects.Projects {
		if p.Terminated {
			continue
		}
		c := companies.Find(p.CompanyID)
		if c == nil || !c.Active {
			continue
		}
		due, err := uc.DueSoon(ctx, p.ID, withinDays, now)
		if err != nil {
			return nil, err
		}
		if len(due) > 0 {
			alerts = append(alerts, ProjectAlert{Company: *c, Project: p, Tasks: due})
		}
	}
	return alerts, nil
}

func dueSoon(list []entity.Task, withinDays int, now time.Time) []entity.Task {
	start := entity.CalendarDay(now)
	end := start.AddDate(0, 0, withinDays)

	out := []entity.Task{}
	for _, t := range list {
		if t.Status.IsClosed() {
			continue
		}
		d, ok := t.DeadlineDate()
		if !ok || d.Before(start) || d.After(end) {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Deadline < out[j].Deadline })
	return out
}
