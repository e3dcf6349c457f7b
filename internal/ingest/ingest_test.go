package ingest

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDocx(t *testing.T, body string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)

	_, err = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body + `</w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	return buf.Bytes()
}

func TestParseFile_Text(t *testing.T) {
	doc, err := ParseFile("Sentencia 99-2024.md", "", []byte("# Sentencia\n\nEl   quejoso es\tJuan."))
	require.NoError(t, err)

	assert.Equal(t, "Sentencia 99-2024", doc.Title)
	assert.Equal(t, "# Sentencia El quejoso es Juan....", doc.Summary)
	assert.Equal(t, "# Sentencia\n\nEl   quejoso es\tJuan.", doc.Content)
}

func TestParseFile_ContentTypeOnly(t *testing.T) {
	doc, err := ParseFile("notas", "text/plain; charset=utf-8", []byte("contenido"))
	require.NoError(t, err)
	assert.Equal(t, "notas", doc.Title)
}

func TestParseFile_Docx(t *testing.T) {
	data := buildDocx(t, `<w:p><w:r><w:t>PRIMERO.</w:t></w:r><w:r><w:tab/><w:t xml:space="preserve"> Se concede </w:t></w:r></w:p><w:p><w:r><w:t>el amparo.</w:t><w:br/><w:t>Fin</w:t></w:r></w:p>`)

	doc, err := ParseFile("resolucion.docx", "", data)
	require.NoError(t, err)

	assert.Equal(t, "resolucion", doc.Title)
	assert.NotContains(t, doc.Content, "<w:")
	assert.Contains(t, doc.Content, "PRIMERO.")
	assert.Contains(t, doc.Content, "Se concede")
	assert.Contains(t, doc.Content, "el amparo.")
	assert.Contains(t, doc.Content, "Fin")

	first := strings.Index(doc.Content, "PRIMERO.")
	second := strings.Index(doc.Content, "el amparo.")
	require.Less(t, first, second)
	assert.Contains(t, doc.Content[first:second], "\n", "paragraphs stay on separate lines")
}

func TestParseFile_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		data    []byte
		wantErr error
	}{
		{"pdf", "fallo.pdf", []byte("%PDF-1.4"), ErrUnsupportedFormat},
		{"empty text", "vacio.txt", []byte(" \n\t "), ErrEmptyContent},
		{"corrupt docx", "roto.docx", []byte("not a zip"), ErrEmptyContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFile(tt.file, "", tt.data)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr))
			assert.True(t, strings.HasPrefix(err.Error(), "Error en '"+tt.file+"': "), err.Error())
		})
	}
}

func TestParseFile_EmptyDocx(t *testing.T) {
	_, err := ParseFile("vacio.docx", "", buildDocx(t, `<w:p></w:p>`))
	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestParseBatch(t *testing.T) {
	files := []File{
		{Name: "vacio.txt", Data: []byte("")},
		{Name: "contrato.md", Data: []byte("Contrato de arrendamiento.")},
		{Name: "fallo.pdf", Data: []byte("%PDF")},
		{Name: "laudo.txt", Data: []byte("Laudo laboral.")},
	}

	result := ParseBatch(context.Background(), files, 2)

	assert.Equal(t, 2, result.Added)
	require.Len(t, result.Documents, 2)
	assert.Equal(t, "contrato", result.Documents[0].Title)
	assert.Equal(t, "laudo", result.Documents[1].Title)

	assert.Equal(t, []string{
		"Error en 'vacio.txt': Archivo vacío o ilegible.",
		"Error en 'fallo.pdf': Formato no soportado.",
	}, result.Errors)
}

func TestParseBatch_EmptyTextAndValidMarkdown(t *testing.T) {
	result := ParseBatch(context.Background(), []File{
		{Name: "vacio.txt", ContentType: "text/plain"},
		{Name: "valido.md", Data: []byte("Texto válido")},
	}, 0)

	assert.Equal(t, 1, result.Added)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "vacio.txt")
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "a.b", Title("a.b.txt"))
	assert.Equal(t, "sin-extension", Title("sin-extension"))
	assert.Equal(t, "punto.", Title("punto."))
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "corto...", Summary("  corto  "))

	long := strings.Repeat("á", 200)
	assert.Equal(t, strings.Repeat("á", 120)+"...", Summary(long))
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("a.TXT", ""))
	assert.True(t, Supported("a.docx", ""))
	assert.True(t, Supported("a", mimeDocx))
	assert.False(t, Supported("a.pdf", "application/pdf"))
}
