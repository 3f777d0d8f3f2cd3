// Package csvimport lee planillas de tareas exportadas en CSV (separador ';', codificación
// Windows-1252 por defecto) y las carga en un proyecto.
package csvimport

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/gestor-tareas/internal/application/tasks"
	"github.com/jhoicas/gestor-tareas/internal/domain"
	"github.com/jhoicas/gestor-tareas/internal/domain/entity"
)

// Codificaciones aceptadas.
const (
	EncodingWindows1252 = "windows-1252"
	EncodingLatin1      = "iso-8859-1"
	EncodingUTF8        = "utf-8"
)

// Options parámetros de lectura. Los valores cero usan ';' y Windows-1252.
type Options struct {
	Encoding string
	Comma    rune
}

// Row una fila válida de la planilla.
type Row struct {
	Line   int
	Task   tasks.CreateTaskInput
	Status entity.TaskStatus
}

type column int

const (
	colText column = iota
	colStatus
	colResponsible
	colCenter
	colDeadline
	colObservation
	colResources
)

// Encabezados reconocidos, ya normalizados (minúsculas y sin tildes).
var headerAliases = map[string]column{
	"texto":         colText,
	"tarea":         colText,
	"descripcion":   colText,
	"situacion":     colStatus,
	"estado":        colStatus,
	"responsable":   colResponsible,
	"centro":        colCenter,
	"plazo":         colDeadline,
	"fecha limite":  colDeadline,
	"fecha_limite":  colDeadline,
	"observacion":   colObservation,
	"observaciones": colObservation,
	"recursos":      colResources,
	"recurso":       colResources,
}

// Formatos de fecha de las planillas: ISO, día/mes/año y la marca de tiempo de pandas.
var deadlineLayouts = []string{
	entity.DateLayout,
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2006-01-02 15:04:05",
}

// Parse lee la planilla completa. Las filas vacías se omiten; cualquier fila inválida
// aborta la lectura con domain.ErrInvalidInput indicando la línea.
func Parse(r io.Reader, opts Options) ([]Row, error) {
	decoded, err := decoder(r, opts.Encoding)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(decoded)
	cr.Comma = opts.Comma
	if cr.Comma == 0 {
		cr.Comma = ';'
	}
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("planilla vacía: %w", domain.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("leer encabezado: %w", domain.ErrInvalidInput)
	}
	cols, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	rows := []Row{}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("leer csv: %v: %w", err, domain.ErrInvalidInput)
		}
		line, _ := cr.FieldPos(0)
		if blank(record) {
			continue
		}
		row, err := parseRecord(record, cols, line)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func decoder(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", EncodingWindows1252, "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	case EncodingLatin1, "latin1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case EncodingUTF8, "utf8":
		// Las exportaciones "utf-8-sig" traen BOM.
		br := bufio.NewReader(r)
		if bom, err := br.Peek(3); err == nil && bytes.Equal(bom, []byte{0xEF, 0xBB, 0xBF}) {
			_, _ = br.Discard(3)
		}
		return br, nil
	}
	return nil, fmt.Errorf("codificación %q no soportada: %w", encoding, domain.ErrInvalidInput)
}

func mapHeader(header []string) (map[column]int, error) {
	cols := make(map[column]int)
	for i, h := range header {
		c, ok := headerAliases[normalizeHeader(h)]
		if !ok {
			continue
		}
		if _, dup := cols[c]; !dup {
			cols[c] = i
		}
	}
	if _, ok := cols[colText]; !ok {
		return nil, fmt.Errorf("falta la columna texto: %w", domain.ErrInvalidInput)
	}
	return cols, nil
}

// normalizeHeader pasa a minúsculas y quita tildes ("Situación" -> "situacion").
func normalizeHeader(h string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, h)
	if err != nil {
		out = h
	}
	return strings.ToLower(strings.TrimSpace(out))
}

func parseRecord(record []string, cols map[column]int, line int) (Row, error) {
	get := func(c column) string {
		i, ok := cols[c]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	row := Row{
		Line: line,
		Task: tasks.CreateTaskInput{
			Text:        get(colText),
			Responsible: get(colResponsible),
			Center:      get(colCenter),
			Observation: get(colObservation),
			Resources:   get(colResources),
		},
		Status: entity.StatusSinEjecutar,
	}
	if row.Task.Text == "" {
		return Row{}, fmt.Errorf("línea %d: el texto es obligatorio: %w", line, domain.ErrInvalidInput)
	}
	deadline, err := parseDeadline(get(colDeadline))
	if err != nil {
		return Row{}, fmt.Errorf("línea %d: %v: %w", line, err, domain.ErrInvalidInput)
	}
	row.Task.Deadline = deadline
	if raw := get(colStatus); raw != "" {
		row.Status = parseStatus(raw)
	}
	return row, nil
}

// parseDeadline devuelve el plazo en formato ISO, o vacío si no hay.
func parseDeadline(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	for _, layout := range deadlineLayouts {
		if d, err := time.Parse(layout, raw); err == nil {
			return d.Format(entity.DateLayout), nil
		}
	}
	return "", fmt.Errorf("plazo %q no reconocido", raw)
}

// parseStatus acepta situaciones canónicas, alias y valores heredados; lo demás queda en Sin Ejecutar.
func parseStatus(raw string) entity.TaskStatus {
	if s, ok := entity.ParseStatus(raw); ok {
		return s
	}
	return entity.NormalizeStatus(entity.TaskStatus(raw))
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
