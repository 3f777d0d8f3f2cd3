package analytics

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/gestor-tareas/internal/domain/entity"
)

// utf8BOM permite que Excel abra el archivo como UTF-8.
const utf8BOM = "\ufeff"

var csvHeader = []string{
	"id", "texto", "situacion", "responsable", "centro_responsabilidad", "plazo",
	"dias_restantes", "vencida", "por_vencer", "observacion", "recursos",
	"documentos", "num_documentos", "usuario_asignado_id",
}

// WriteCSV escribe las tareas como CSV UTF-8 con BOM, una fila por tarea y en el orden
// recibido. dias_restantes queda vacío para las tareas sin plazo válido.
func WriteCSV(w io.Writer, tasks []entity.Task, now time.Time) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("csv: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("csv: cabecera: %w", err)
	}
	for _, t := range tasks {
		days, overdue, dueSoon := "", false, false
		if d, ok := DaysRemaining(t, now); ok {
			days = strconv.Itoa(d)
			overdue = d < 0
			dueSoon = d >= 0 && d <= CriticalWindowDays
		}
		assigned := ""
		if t.AssignedUserID != nil {
			assigned = strconv.Itoa(*t.AssignedUserID)
		}
		row := []string{
			strconv.Itoa(t.ID),
			t.Text,
			string(entity.NormalizeStatus(t.Status)),
			t.Responsible,
			t.Center,
			t.Deadline,
			days,
			strconv.FormatBool(overdue),
			strconv.FormatBool(dueSoon),
			t.Observation,
			t.Resources,
			strings.Join(t.Documents, "; "),
			strconv.Itoa(len(t.Documents)),
			assigned,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("csv: tarea %d: %w", t.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("csv: %w", err)
	}
	return nil
}
