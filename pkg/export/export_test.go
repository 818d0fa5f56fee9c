package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scheduleDataset() Dataset {
	return Dataset{
		Headers: []string{"Día", "Horario", "Materia"},
		Rows: []map[string]string{
			{"Día": "Lunes", "Horario": "18:30 - 19:10", "Materia": "Comunicación"},
			{"Día": "Viernes", "Horario": "19:10 - 19:50", "Materia": "Inglés II, con coma"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(scheduleDataset())
	require.NoError(t, err)
	assert.Equal(t, "Día,Horario,Materia\nLunes,18:30 - 19:10,Comunicación\nViernes,19:10 - 19:50,\"Inglés II, con coma\"\n", string(out))
}

func TestCSVExporterSeparatorAndBOM(t *testing.T) {
	out, err := NewCSVExporter(WithSeparator(';'), WithBOM()).Render(scheduleDataset())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, utf8BOM))
	assert.Equal(t, "Día;Horario;Materia\nLunes;18:30 - 19:10;Comunicación\nViernes;19:10 - 19:50;Inglés II, con coma\n", string(out[len(utf8BOM):]))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRenderSections(t *testing.T) {
	data := scheduleDataset()
	out, err := NewLandscapePDFExporter().RenderSections("Horarios", []Section{
		{Heading: "Turno mañana", Data: Dataset{Headers: data.Headers}},
		{Heading: "Turno tarde/noche", Data: data},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestPDFExporterRequiresHeaders(t *testing.T) {
	_, err := NewPDFExporter().RenderSections("empty", []Section{{Heading: "x"}})
	assert.Error(t, err)
}
