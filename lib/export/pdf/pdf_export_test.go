package pdfexport

import (
	"esign-backend/lib/converter"
	"esign-backend/models"
	dbmodels "esign-backend/models/db"
	"fmt"
	"testing"
	"time"

	"github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/require"
)

func TestGenerateProtocol(t *testing.T) {
	signed := time.Now()
	docs := dbmodels.Documents{}
	qrs := map[string][]byte{}
	for idx := 0; idx < 12; idx++ {
		id := fmt.Sprintf("d%d", idx)
		data := models.DocumentData{}
		data.Set("name", models.StringValue("Постановление № "+id))
		doc := dbmodels.Document{ID: id, Data: data, SignStatus: models.DocSignStatusSigned, SignedDate: &signed,
			SignedHash: "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262", PageCount: 2}
		if idx%4 == 3 {
			doc.SignStatus = models.DocSignStatusRejected
			doc.RejectionReason = "ошибка в реквизитах"
		} else {
			png, err := qrcode.Encode("https://sign.example.org/document/"+id, qrcode.Medium, 128)
			require.NoError(t, err)
			qrs[id] = png
		}
		docs = append(docs, doc)
	}

	pdf, err := GenerateProtocol(ProtocolData{
		Request: dbmodels.Request{
			BaseModel:    dbmodels.BaseModel{ID: "r1"},
			TemplateName: "Постановления за март",
			SignStatus:   models.SignStatusSigned,
			Data:         docs,
		},
		Officer: "Судья Иванова",
		Court:   "Районный суд",
		QRCodes: qrs,
		Printed: time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, converter.Validate(pdf))
	pages, err := converter.PageCount(pdf)
	require.NoError(t, err)
	require.Greater(t, pages, 1)
}

func TestGetImgType(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		want     string
		wantErr  bool
	}{
		{name: "png", fileName: "qr.png", want: "png"},
		{name: "несколько точек", fileName: "a.b.jpg", want: "jpg"},
		{name: "без расширения", fileName: "qr", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GetImgType(tt.fileName)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
