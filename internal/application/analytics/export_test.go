package analytics_test

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestor-tareas/internal/application/analytics"
	"github.com/jhoicas/gestor-tareas/internal/domain/entity"
)

func TestWriteCSV_BOMCabeceraYFilas(t *testing.T) {
	uid := 7
	tasks := []entity.Task{
		{ID: 1, Text: "Revisar planos, fase 2", Status: entity.StatusSinEjecutar, Responsible: "Ana", Center: "Obra",
			Deadline: "2024-06-08", Documents: []string{"a.pdf", "b.pdf"}, AssignedUserID: &uid},
		{ID: 2, Text: "Cotizar \"cemento\"", Status: "Terminada", Documents: []string{}},
		{ID: 3, Text: "Informe", Status: entity.StatusEnEjecucion, Deadline: "2024-06-14", Documents: []string{}},
	}

	var buf bytes.Buffer
	require.NoError(t, analytics.WriteCSV(&buf, tasks, today))

	raw := buf.Bytes()
	require.True(t, bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}), "el archivo empieza con BOM UTF-8")

	records, err := csv.NewReader(bytes.NewReader(raw[3:])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "id", records[0][0])
	assert.Contains(t, records[0], "dias_restantes")

	assert.Equal(t, []string{
		"1", "Revisar planos, fase 2", "Sin Ejecutar", "Ana", "Obra", "2024-06-08",
		"-2", "true", "false", "", "", "a.pdf; b.pdf", "2", "7",
	}, records[1])
	assert.Equal(t, "Cotizar \"cemento\"", records[2][1])
	assert.Equal(t, "Completada", records[2][2], "la situación se exporta normalizada")
	assert.Equal(t, "", records[2][6], "sin plazo no hay días restantes")
	assert.Equal(t, "4", records[3][6])
	assert.Equal(t, "true", records[3][8])
}

func TestWriteCSV_SinTareasSoloCabecera(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, analytics.WriteCSV(&buf, nil, today))

	records, err := csv.NewReader(bytes.NewReader(buf.Bytes()[3:])).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
