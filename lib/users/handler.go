package users

import (
	"esign-backend/db"
	courtstore "esign-backend/lib/dicts/court/store"
	userstore "esign-backend/lib/users/store"
	authutils "esign-backend/lib/utils/auth-utils"
	initchecker "esign-backend/lib/utils/init-checker"
	"esign-backend/models"
	userapimodels "esign-backend/models/api/user"
	dbmodels "esign-backend/models/db"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Create(data userapimodels.UserData) (id string, err error)
	List(role models.UserRole) ([]userapimodels.UserView, error)
	SetStatus(id string, status models.UserStatus) error
	// Token выпускает токен доступа для активного пользователя
	Token(email string) (string, error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(userstore.NewInstance(db.DB), courtstore.NewInstance(db.DB), authutils.GetToken)
}

// TokenIssuer подпись токена, подменяется в тестах
type TokenIssuer func(userID, name string, role models.UserRole, courtID string) (string, error)

func NewInstance(store userstore.Provider, courts courtstore.Provider, issuer TokenIssuer) Provider {
	initchecker.CheckInit(
		"store", store,
		"courts", courts,
		"issuer", issuer,
	)
	return impl{
		store:  store,
		courts: courts,
		issuer: issuer,
	}
}

type impl struct {
	store  userstore.Provider
	courts courtstore.Provider
	issuer TokenIssuer
}

func (i impl) Create(data userapimodels.UserData) (id string, err error) {
	data.Name = strings.TrimSpace(data.Name)
	data.Email = strings.ToLower(strings.TrimSpace(data.Email))
	if err = data.Validate(); err != nil {
		return "", models.Validation("%s", err.Error())
	}
	existed, err := i.store.FindByEmail(data.Email)
	if err != nil {
		return "", errors.Wrap(err, "ошибка поиска пользователя")
	}
	if existed != nil {
		return "", models.Validation("пользователь с email %s уже существует", data.Email)
	}
	rec := dbmodels.User{
		Name:   data.Name,
		Email:  data.Email,
		Role:   data.Role,
		Status: models.UserStatusActive,
	}
	if data.CourtID != "" {
		court, err := i.courts.GetByID(data.CourtID)
		if err != nil {
			return "", errors.Wrap(err, "ошибка получения суда")
		}
		if court == nil {
			return "", models.NotFound("суд не найден")
		}
		rec.CourtID = &court.ID
	}
	id, err = i.store.Create(rec)
	if err != nil {
		return "", errors.Wrap(err, "ошибка добавления пользователя")
	}
	log.WithField("user_id", id).WithField("role", data.Role).Info("пользователь добавлен")
	return id, nil
}

func (i impl) List(role models.UserRole) ([]userapimodels.UserView, error) {
	list, err := i.store.List(role)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения списка пользователей")
	}
	result := make([]userapimodels.UserView, 0, len(list))
	for _, rec := range list {
		result = append(result, userapimodels.UserConvert(rec))
	}
	return result, nil
}

func (i impl) SetStatus(id string, status models.UserStatus) error {
	if status != models.UserStatusActive && status != models.UserStatusDisabled {
		return models.Validation("неизвестный статус %q", status)
	}
	rec, err := i.store.GetByID(id)
	if err != nil {
		return errors.Wrap(err, "ошибка получения пользователя")
	}
	if rec == nil {
		return models.NotFound("пользователь не найден")
	}
	return i.store.Update(id, map[string]interface{}{"status": status})
}

func (i impl) Token(email string) (string, error) {
	rec, err := i.store.FindByEmail(email)
	if err != nil {
		return "", errors.Wrap(err, "ошибка поиска пользователя")
	}
	if rec == nil {
		return "", models.NotFound("пользователь не найден")
	}
	if rec.Status != models.UserStatusActive {
		return "", models.PreconditionFailed("пользователь отключен")
	}
	courtID := ""
	if rec.CourtID != nil {
		courtID = *rec.CourtID
	}
	return i.issuer(rec.ID, rec.Name, rec.Role, courtID)
}
