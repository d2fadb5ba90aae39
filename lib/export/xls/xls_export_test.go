package xlsexport

import (
	"bytes"
	"esign-backend/models"
	dbmodels "esign-backend/models/db"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportDocuments(t *testing.T) {
	signed := time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC)
	first := models.DocumentData{}
	first.Set("fio", models.StringValue("Иванов И.И."))
	first.Set("sum", models.NumberValue(1500))
	first.Set("comment", models.StringValue("не выгружается"))
	second := models.DocumentData{}
	second.Set("fio", models.StringValue("Петров П.П."))

	rec := dbmodels.Request{
		TemplateVariables: dbmodels.TemplateVariables{
			{Name: "fio", ShowOnExcel: true},
			{Name: "sum", ShowOnExcel: true},
			{Name: "comment"},
			{Name: "%Signature", ShowOnExcel: true},
		},
		Data: dbmodels.Documents{
			{ID: "d1", Data: first, SignStatus: models.DocSignStatusSigned, SignedDate: &signed},
			{ID: "d2", Data: second, SignStatus: models.DocSignStatusRejected, RejectionReason: "дубль"},
		},
	}
	buf, err := impl{}.ExportDocuments(rec)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	expected := map[string]string{
		"A1": "fio", "B1": "sum", "C1": "Статус", "D1": "Дата подписания", "E1": "Причина отклонения",
		"A2": "Иванов И.И.", "B2": "1500", "C2": "Подписан", "D2": "04.03.2025 10:30", "E2": "",
		"A3": "Петров П.П.", "B3": "", "C3": "Отклонен", "D3": "", "E3": "дубль",
	}
	for cell, value := range expected {
		actual, err := f.GetCellValue(sheetName, cell)
		require.NoError(t, err)
		require.Equal(t, value, actual, cell)
	}
}

func TestImportDocuments(t *testing.T) {
	variables := []models.TemplateVariable{
		{Name: "fio", Required: true},
		{Name: "sum"},
		{Name: "Court"},
	}
	build := func(t *testing.T, rows [][]interface{}) []byte {
		f := excelize.NewFile()
		defer f.Close()
		for idx, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, idx+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
		}
		buf, err := f.WriteToBuffer()
		require.NoError(t, err)
		return buf.Bytes()
	}

	t.Run("строки таблицы", func(t *testing.T) {
		body := build(t, [][]interface{}{
			{"fio", "unknown", "sum", "Court"},
			{"Иванов И.И.", "x", 100, "Суд"},
			{"", "", "", ""},
			{"Петров П.П."},
		})
		list, err := impl{}.ImportDocuments(body, variables)
		require.NoError(t, err)
		require.Len(t, list, 2)
		require.Equal(t, []string{"fio", "sum"}, list[0].Keys())
		require.Equal(t, map[string]string{"fio": "Иванов И.И.", "sum": "100"}, list[0].ToMap())
		require.Equal(t, map[string]string{"fio": "Петров П.П.", "sum": ""}, list[1].ToMap())
	})

	t.Run("заголовок без меток", func(t *testing.T) {
		body := build(t, [][]interface{}{{"a", "b"}, {"1", "2"}})
		_, err := impl{}.ImportDocuments(body, variables)
		require.True(t, models.IsKind(err, models.ErrValidation), err)
	})

	t.Run("не xlsx", func(t *testing.T) {
		_, err := impl{}.ImportDocuments([]byte("fio;sum"), variables)
		require.True(t, models.IsKind(err, models.ErrValidation), err)
	})
}
