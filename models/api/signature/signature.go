package signatureapimodels

import (
	dbmodels "esign-backend/models/db"
	"time"
)

type SignatureView struct {
	ID        string    `json:"id"`
	FileName  string    `json:"fileName"`
	CreatedAt time.Time `json:"createdAt"`
}

func SignatureConvert(rec dbmodels.Signature) SignatureView {
	return SignatureView{
		ID:        rec.ID,
		FileName:  rec.FileName,
		CreatedAt: rec.CreatedAt,
	}
}
