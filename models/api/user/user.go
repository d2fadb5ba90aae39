package userapimodels

import (
	"esign-backend/models"
	dbmodels "esign-backend/models/db"
	"net/mail"
	"strings"

	"github.com/pkg/errors"
)

type UserData struct {
	Name    string          `json:"name"`
	Email   string          `json:"email"`
	Role    models.UserRole `json:"role"`
	CourtID string          `json:"courtId"`
}

func (u UserData) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return errors.New("не указано имя пользователя")
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return errors.New("некорректный email")
	}
	if !u.Role.IsValid() {
		return errors.Errorf("неизвестная роль %q", u.Role)
	}
	if u.Role.IsOfficer() && u.CourtID == "" {
		return errors.New("для подписанта необходимо указать суд")
	}
	return nil
}

type UserView struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Status  string `json:"status"`
	CourtID string `json:"courtId,omitempty"`
}

func UserConvert(rec dbmodels.User) UserView {
	result := UserView{
		ID:     rec.ID,
		Name:   rec.Name,
		Email:  rec.Email,
		Role:   string(rec.Role),
		Status: string(rec.Status),
	}
	if rec.CourtID != nil {
		result.CourtID = *rec.CourtID
	}
	return result
}
