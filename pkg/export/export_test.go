package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)
	assert.Equal(t, "application/pdf", f.ContentType())
	assert.Equal(t, "students.pdf", f.Filename("students.csv"))

	_, err = ParseFormat("xlsx")
	assert.Error(t, err)
}

func TestCSVRenderKeepsColumnOrder(t *testing.T) {
	ds := Dataset{Headers: []string{"Name", "CGPA"}}
	ds.AddRow("Alice, A", "8.5")
	ds.AddRow("Bob")

	out, err := NewCSVExporter().Render(ds)
	require.NoError(t, err)
	assert.Equal(t, "Name,CGPA\n\"Alice, A\",8.5\nBob,\n", string(out))
}

func TestRenderRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
	_, err = NewPDFExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFRender(t *testing.T) {
	ds := Dataset{Title: "Students", Headers: []string{"Name", "Branch"}}
	for i := 0; i < 60; i++ {
		ds.AddRow("Student", "CSE")
	}
	out, err := NewPDFExporter().Render(ds)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
