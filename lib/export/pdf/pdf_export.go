package pdfexport

import (
	"bytes"
	"esign-backend/models"
	dbmodels "esign-backend/models/db"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const fontName = "GoRegular"

// ProtocolData протокол подписания заявки, QRCodes - qr коды подписанных документов по id документа
type ProtocolData struct {
	Request  dbmodels.Request
	Officer  string
	Court    string
	QRCodes  map[string][]byte
	Printed  time.Time
	FontDir  string // каталог с Arial.ttf, если пусто - встроенный шрифт
	FontFile string
}

func GenerateProtocol(data ProtocolData) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("GenerateProtocol panic recover: %v", r)
		}
	}()
	pdf := fpdf.New("P", "mm", "A4", data.FontDir)
	setFonts(pdf, data)
	if pdf.Error() != nil {
		return nil, pdf.Error()
	}
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont(fontName, "B", 14)
	pdf.MultiCell(0, 7, fmt.Sprintf("Протокол подписания: %s", data.Request.TemplateName), "", "C", false)
	pdf.Ln(2)

	pdf.SetFont(fontName, "", 10)
	_, lineHt := pdf.GetFontSize()
	lineHt += 2
	header := []string{
		fmt.Sprintf("Заявка: %s", data.Request.ID),
		fmt.Sprintf("Статус: %s", data.Request.SignStatus.ToHuman()),
		fmt.Sprintf("Суд: %s", data.Court),
		fmt.Sprintf("Подписант: %s", data.Officer),
		fmt.Sprintf("Сформирован: %s", data.Printed.Format("02.01.2006 15:04")),
	}
	for _, line := range header {
		pdf.CellFormat(0, lineHt, line, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	for idx, doc := range data.Request.Data {
		if err = writeDocument(pdf, idx+1, doc, data.QRCodes[doc.ID], lineHt); err != nil {
			return nil, err
		}
	}

	buf := new(bytes.Buffer)
	if err = pdf.Output(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setFonts(pdf *fpdf.Fpdf, data ProtocolData) {
	if data.FontDir != "" && data.FontFile != "" {
		pdf.AddUTF8Font(fontName, "", data.FontFile)
		pdf.AddUTF8Font(fontName, "B", data.FontFile)
		return
	}
	pdf.AddUTF8FontFromBytes(fontName, "", goregular.TTF)
	pdf.AddUTF8FontFromBytes(fontName, "B", gobold.TTF)
}

const qrSize = 25.0

func writeDocument(pdf *fpdf.Fpdf, num int, doc dbmodels.Document, qr []byte, lineHt float64) error {
	_, pageHt := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	if pdf.GetY()+qrSize+lineHt > pageHt-bottom-15 {
		pdf.AddPage()
	}
	top := pdf.GetY()
	left, _, _, _ := pdf.GetMargins()

	pdf.SetFont(fontName, "B", 10)
	pdf.CellFormat(0, lineHt, fmt.Sprintf("%d. %s", num, doc.Name()), "", 1, "L", false, 0, "")
	pdf.SetFont(fontName, "", 10)
	lines := []string{fmt.Sprintf("Статус: %s", doc.SignStatus.ToHuman())}
	switch doc.SignStatus {
	case models.DocSignStatusSigned:
		if doc.SignedDate != nil {
			lines = append(lines, fmt.Sprintf("Дата подписания: %s", doc.SignedDate.Format("02.01.2006 15:04")))
		}
		if doc.PageCount > 0 {
			lines = append(lines, fmt.Sprintf("Страниц: %d", doc.PageCount))
		}
		if doc.SignedHash != "" {
			lines = append(lines, fmt.Sprintf("BLAKE3: %s", doc.SignedHash))
		}
	case models.DocSignStatusRejected:
		lines = append(lines, fmt.Sprintf("Причина отклонения: %s", doc.RejectionReason))
	default:
		if doc.SignError != "" {
			lines = append(lines, fmt.Sprintf("Ошибка: %s", doc.SignError))
		}
	}
	textWidth := 0.0
	if len(qr) != 0 {
		pageWd, _ := pdf.GetPageSize()
		_, _, right, _ := pdf.GetMargins()
		textWidth = pageWd - left - right - qrSize - 5
	}
	for _, line := range lines {
		pdf.MultiCell(textWidth, lineHt, line, "", "L", false)
	}
	if len(qr) != 0 {
		file := &models.File{FileName: doc.ID + ".png", Body: qr}
		if err := putImg(pdf, file); err != nil {
			return err
		}
		pageWd, _ := pdf.GetPageSize()
		_, _, right, _ := pdf.GetMargins()
		pdf.Image(file.FileName, pageWd-right-qrSize, top, qrSize, 0, false, "", 0, "")
		if pdf.GetY() < top+qrSize {
			pdf.SetY(top + qrSize)
		}
	}
	pdf.Ln(3)
	return pdf.Error()
}

func putImg(pdf *fpdf.Fpdf, fileData *models.File) (err error) {
	if fileData == nil {
		return nil
	}
	options := fpdf.ImageOptions{
		ReadDpi: false,
	}
	options.ImageType, err = GetImgType(fileData.FileName)
	if err != nil {
		return err
	}
	pdf.RegisterImageOptionsReader(fileData.FileName, options, bytes.NewReader(fileData.Body))
	return pdf.Error()
}

func GetImgType(fileName string) (string, error) {
	pos := strings.LastIndex(fileName, ".")
	if pos < 0 {
		return "", errors.Errorf("не удалось получить расширение файла: %s", fileName)
	}
	return fileName[pos+1:], nil
}
