package xlsexport

import (
	"bytes"
	"esign-backend/models"
	dbmodels "esign-backend/models/db"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type Provider interface {
	// ExportDocuments таблица данных документов, колонки - метки с признаком showOnExcel
	ExportDocuments(rec dbmodels.Request) (*bytes.Buffer, error)
	// ImportDocuments строки таблицы в данные документов, первая строка - имена меток
	ImportDocuments(body []byte, variables []models.TemplateVariable) ([]models.DocumentData, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

const sheetName = "Документы"

var statusHeaders = []string{"Статус", "Дата подписания", "Причина отклонения"}

func (i impl) ExportDocuments(rec dbmodels.Request) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	sheet := "Sheet1"
	columns := exportColumns(rec.TemplateVariables)
	headers := append(append([]string{}, columns...), statusHeaders...)
	row, err := writeHeader(f, sheet, 0, headers)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
	}
	if len(rec.Data) != 0 {
		if err = writeDocumentData(f, sheet, rec.Data, columns, row, len(headers)); err != nil {
			return nil, errors.Wrap(err, "ошибка формирования таблицы с данными в xlsx")
		}
	}
	if err = f.SetSheetName(sheet, sheetName); err != nil {
		return nil, errors.Wrap(err, "ошибка переименования листа")
	}
	return f.WriteToBuffer()
}

// exportColumns метки для выгрузки, если ни одна не отмечена - все заполняемые пользователем
func exportColumns(variables dbmodels.TemplateVariables) []string {
	result := make([]string, 0)
	for _, variable := range variables {
		if variable.ShowOnExcel && !models.IsServiceTag(variable.Name) {
			result = append(result, variable.Name)
		}
	}
	if len(result) != 0 {
		return result
	}
	for _, variable := range variables {
		if !models.IsServiceTag(variable.Name) {
			result = append(result, variable.Name)
		}
	}
	return result
}

func writeDocumentData(f *excelize.File, sheet string, docs dbmodels.Documents, columns []string, row, width int) error {
	if err := applyDataCellStyle(f, sheet, 1, row+1, width, row+len(docs)); err != nil {
		return err
	}
	for _, doc := range docs {
		row++
		col := 0
		for _, name := range columns {
			col++
			value, ok := doc.Data.Get(name)
			if !ok || value.IsNull() {
				continue
			}
			if err := writeColumn(f, sheet, col, row, value.String()); err != nil {
				return err
			}
		}

		// "Статус"
		col++
		if err := writeColumn(f, sheet, col, row, doc.SignStatus.ToHuman()); err != nil {
			return err
		}

		// "Дата подписания"
		col++
		if doc.SignedDate != nil {
			if err := writeColumn(f, sheet, col, row, doc.SignedDate.Format("02.01.2006 15:04")); err != nil {
				return err
			}
		}

		// "Причина отклонения"
		col++
		if err := writeColumn(f, sheet, col, row, doc.RejectionReason); err != nil {
			return err
		}
	}
	return nil
}

func (i impl) ImportDocuments(body []byte, variables []models.TemplateVariable) ([]models.DocumentData, error) {
	f, err := excelize.OpenReader(bytes.NewReader(body))
	if err != nil {
		return nil, models.Validation("файл не является таблицей xlsx")
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, models.Validation("в файле нет листов")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrap(err, "ошибка чтения листа")
	}
	if len(rows) == 0 {
		return nil, models.Validation("в файле нет строки заголовка")
	}

	known := map[string]bool{"name": true}
	for _, variable := range variables {
		if !models.IsServiceTag(variable.Name) {
			known[variable.Name] = true
		}
	}
	header := make([]string, len(rows[0]))
	matched := 0
	for idx, cell := range rows[0] {
		name := strings.TrimSpace(cell)
		if known[name] {
			header[idx] = name
			matched++
		}
	}
	if matched == 0 {
		return nil, models.Validation("заголовок таблицы не содержит меток шаблона")
	}

	result := make([]models.DocumentData, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}
		data := models.DocumentData{}
		for idx, name := range header {
			if name == "" {
				continue
			}
			value := ""
			if idx < len(row) {
				value = strings.TrimSpace(row[idx])
			}
			data.Set(name, models.StringValue(value))
		}
		result = append(result, data)
	}
	return result, nil
}
