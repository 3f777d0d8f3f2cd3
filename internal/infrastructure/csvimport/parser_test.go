package csvimport_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/gestor-tareas/internal/domain"
	"github.com/jhoicas/gestor-tareas/internal/domain/entity"
	"github.com/jhoicas/gestor-tareas/internal/infrastructure/csvimport"
)

func windows1252(t *testing.T, s string) *strings.Reader {
	t.Helper()
	enc, err := charmap.Windows1252.NewEncoder().String(s)
	require.NoError(t, err)
	return strings.NewReader(enc)
}

func TestParse_Windows1252(t *testing.T) {
	in := "Texto;Situación;Responsable;Centro;Plazo;Observación;Recursos\n" +
		"Revisión de planos;En Ejecución;Ana;Obra;15/06/2024;sin novedad;grúa\n" +
		";;;;;;\n" +
		"Comprar cemento;Terminada;Luis;Compras;2024-07-01;;\n" +
		"Informe;;;;;;\n"

	rows, err := csvimport.Parse(windows1252(t, in), csvimport.Options{})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "Revisión de planos", rows[0].Task.Text)
	assert.Equal(t, entity.StatusEnEjecucion, rows[0].Status)
	assert.Equal(t, "2024-06-15", rows[0].Task.Deadline)
	assert.Equal(t, "sin novedad", rows[0].Task.Observation)
	assert.Equal(t, "grúa", rows[0].Task.Resources)

	assert.Equal(t, 4, rows[1].Line, "las filas vacías se omiten pero cuentan para la línea")
	assert.Equal(t, entity.StatusCompletada, rows[1].Status, "valor heredado")
	assert.Equal(t, "2024-07-01", rows[1].Task.Deadline)

	assert.Equal(t, entity.StatusSinEjecutar, rows[2].Status)
	assert.Empty(t, rows[2].Task.Deadline)
}

func TestParse_UTF8ConBOMYComa(t *testing.T) {
	in := "\xEF\xBB\xBFtarea,estado,plazo,columna_extra\n" +
		"\"Medir, cortar\",Validada,2024-06-10 00:00:00,x\n"

	rows, err := csvimport.Parse(strings.NewReader(in), csvimport.Options{Encoding: "utf-8", Comma: ','})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Medir, cortar", rows[0].Task.Text)
	assert.Equal(t, entity.StatusValidada, rows[0].Status)
	assert.Equal(t, "2024-06-10", rows[0].Task.Deadline)
}

func TestParse_Errores(t *testing.T) {
	tests := []struct {
		name string
		in   string
		opts csvimport.Options
		msg  string
	}{
		{"vacía", "", csvimport.Options{}, "planilla vacía"},
		{"sin columna texto", "responsable;centro\nAna;Obra\n", csvimport.Options{}, "columna texto"},
		{"texto vacío", "texto;centro\n;Obra\n", csvimport.Options{}, "línea 2"},
		{"plazo inválido", "texto;plazo\nA;mañana\n", csvimport.Options{}, "plazo"},
		{"codificación", "texto\nA\n", csvimport.Options{Encoding: "ebcdic"}, "no soportada"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := csvimport.Parse(strings.NewReader(tt.in), tt.opts)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
