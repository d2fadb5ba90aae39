package converter

import (
	"bytes"
	"context"
	"esign-backend/models"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/require"
)

func samplePDF(t *testing.T, pages int) []byte {
	t.Helper()
	pdf := fpdf.New("P", "mm", "A4", "")
	for n := 0; n < pages; n++ {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "", 12)
		pdf.Cell(40, 10, "signed")
	}
	buf := new(bytes.Buffer)
	require.NoError(t, pdf.Output(buf))
	return buf.Bytes()
}

func fakeBinary(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script converter stub")
	}
	path := filepath.Join(t.TempDir(), "soffice")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestToPDF(t *testing.T) {
	fixture := filepath.Join(t.TempDir(), "fixture.pdf")
	require.NoError(t, os.WriteFile(fixture, samplePDF(t, 2), 0o644))

	t.Run("успешная конвертация", func(t *testing.T) {
		binary := fakeBinary(t, `while [ $# -gt 0 ]; do
  case "$1" in
    --outdir) shift; OUT="$1";;
  esac
  shift
done
cp "`+fixture+`" "$OUT/source.pdf"
`)
		conv := NewInstance(binary, 10*time.Second, 1)
		pdf, err := conv.ToPDF(context.Background(), []byte("docx"), ".docx")
		require.NoError(t, err)
		pages, err := PageCount(pdf)
		require.NoError(t, err)
		require.Equal(t, 2, pages)
	})

	t.Run("ошибка движка", func(t *testing.T) {
		binary := fakeBinary(t, "echo 'source file could not be loaded' >&2\nexit 3\n")
		conv := NewInstance(binary, 10*time.Second, 1)
		_, err := conv.ToPDF(context.Background(), []byte("docx"), ".docx")
		require.Error(t, err)
		require.True(t, models.IsKind(err, models.ErrConversionFailed))
		require.Contains(t, err.Error(), "source file could not be loaded")
	})

	t.Run("нет результата", func(t *testing.T) {
		binary := fakeBinary(t, "exit 0\n")
		conv := NewInstance(binary, 10*time.Second, 1)
		_, err := conv.ToPDF(context.Background(), []byte("docx"), ".docx")
		require.True(t, models.IsKind(err, models.ErrConversionFailed))
	})

	t.Run("превышено время", func(t *testing.T) {
		binary := fakeBinary(t, "exec sleep 5\n")
		conv := NewInstance(binary, 200*time.Millisecond, 1)
		_, err := conv.ToPDF(context.Background(), []byte("docx"), ".docx")
		require.True(t, models.IsKind(err, models.ErrConversionFailed))
	})
}
