package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() Document {
	return Document{
		Title: "2025年度 授業日数",
		Sections: []Dataset{
			{Headers: []string{"term", "月", "total"}, Rows: [][]string{{"前期", "15", "15"}, {"Unclassified"}}},
			{Title: "vacations", Headers: []string{"vacation", "days"}, Rows: [][]string{{"夏休み", "40"}}},
		},
	}
}

func TestCSVExporterRendersSections(t *testing.T) {
	data, err := NewCSVExporter(false).Render(sampleDocument())
	require.NoError(t, err)

	assert.Equal(t, "term,月,total\n前期,15,15\nUnclassified,,\n\nvacation,days\n夏休み,40\n", string(data))
}

func TestCSVExporterBOM(t *testing.T) {
	data, err := NewCSVExporter(true).Render(sampleDocument())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, utf8BOM))
}

func TestExportersRejectInvalidDocuments(t *testing.T) {
	_, err := NewCSVExporter(false).Render(Document{})
	assert.Error(t, err)

	_, err = NewPDFExporter("").Render(Document{Sections: []Dataset{{Headers: []string{"a"}, Rows: [][]string{{"1", "2"}}}}})
	assert.Error(t, err)
}

func TestPDFExporterRendersCoreFont(t *testing.T) {
	data, err := NewPDFExporter("").Render(sampleDocument())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestPDFExporterMissingFont(t *testing.T) {
	_, err := NewPDFExporter("/nonexistent/font.ttf").Render(sampleDocument())
	assert.Error(t, err)
}
