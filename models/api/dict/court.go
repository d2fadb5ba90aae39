package dictapimodels

import (
	dbmodels "esign-backend/models/db"

	"github.com/pkg/errors"
)

type CourtData struct {
	Name string `json:"name"`
}

type CourtView struct {
	CourtData
	ID string `json:"id"`
}

func (c CourtData) Validate() error {
	if c.Name == "" {
		return errors.New("не указано название суда")
	}
	return nil
}

func CourtConvert(rec dbmodels.Court) CourtView {
	return CourtView{
		CourtData: CourtData{
			Name: rec.Name,
		},
		ID: rec.ID,
	}
}
