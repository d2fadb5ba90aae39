package users

import (
	"esign-backend/models"
	userapimodels "esign-backend/models/api/user"
	dbmodels "esign-backend/models/db"
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	list []dbmodels.User
}

func (f *fakeUsers) Create(rec dbmodels.User) (string, error) {
	rec.ID = fmt.Sprintf("user-%d", len(f.list)+1)
	f.list = append(f.list, rec)
	return rec.ID, nil
}

func (f *fakeUsers) GetByID(id string) (*dbmodels.User, error) {
	for _, rec := range f.list {
		if rec.ID == id {
			return &rec, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) FindByEmail(email string) (*dbmodels.User, error) {
	for _, rec := range f.list {
		if rec.Email == email {
			return &rec, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) List(role models.UserRole) ([]dbmodels.User, error) {
	result := make([]dbmodels.User, 0)
	for _, rec := range f.list {
		if role == "" || rec.Role == role {
			result = append(result, rec)
		}
	}
	return result, nil
}

func (f *fakeUsers) Update(id string, updMap map[string]interface{}) error {
	for idx, rec := range f.list {
		if rec.ID != id {
			continue
		}
		if status, ok := updMap["status"].(models.UserStatus); ok {
			f.list[idx].Status = status
		}
		return nil
	}
	return errors.New("запись не найдена")
}

type fakeCourts struct{}

func (fakeCourts) List(string) ([]dbmodels.Court, error) {
	return nil, nil
}

func (fakeCourts) Create(dbmodels.Court) (string, error) {
	return "", nil
}

func (fakeCourts) GetByID(id string) (*dbmodels.Court, error) {
	if id != "court-1" {
		return nil, nil
	}
	rec := dbmodels.Court{Name: "Районный суд"}
	rec.ID = id
	return &rec, nil
}

func TestUsersHandler(t *testing.T) {
	store := &fakeUsers{}
	issued := ""
	handler := NewInstance(store, fakeCourts{}, func(userID, name string, role models.UserRole, courtID string) (string, error) {
		issued = fmt.Sprintf("%s|%s|%s", userID, role, courtID)
		return "token", nil
	})

	t.Run("добавление", func(t *testing.T) {
		tests := []struct {
			name     string
			data     userapimodels.UserData
			wantKind models.ErrorKind
		}{
			{name: "исполнитель", data: userapimodels.UserData{Name: "Иванов", Email: "Reader@Example.org ", Role: models.UserRoleReader}},
			{name: "подписант", data: userapimodels.UserData{Name: "Петров", Email: "officer@example.org", Role: models.UserRoleOfficer, CourtID: "court-1"}},
			{name: "повтор email", data: userapimodels.UserData{Name: "Иванов", Email: "reader@example.org", Role: models.UserRoleReader}, wantKind: models.ErrValidation},
			{name: "подписант без суда", data: userapimodels.UserData{Name: "Сидоров", Email: "o2@example.org", Role: models.UserRoleOfficer}, wantKind: models.ErrValidation},
			{name: "неизвестный суд", data: userapimodels.UserData{Name: "Сидоров", Email: "o3@example.org", Role: models.UserRoleOfficer, CourtID: "court-2"}, wantKind: models.ErrNotFound},
			{name: "неизвестная роль", data: userapimodels.UserData{Name: "Сидоров", Email: "o4@example.org", Role: "boss"}, wantKind: models.ErrValidation},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := handler.Create(tt.data)
				if tt.wantKind == "" {
					require.NoError(t, err)
					return
				}
				require.True(t, models.IsKind(err, tt.wantKind), err)
			})
		}
	})
	t.Run("список по роли", func(t *testing.T) {
		list, err := handler.List(models.UserRoleOfficer)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, "court-1", list[0].CourtID)
	})
	t.Run("токен", func(t *testing.T) {
		token, err := handler.Token("officer@example.org")
		require.NoError(t, err)
		require.Equal(t, "token", token)
		require.Equal(t, "user-2|officer|court-1", issued)

		require.NoError(t, handler.SetStatus("user-2", models.UserStatusDisabled))
		_, err = handler.Token("officer@example.org")
		require.True(t, models.IsKind(err, models.ErrPreconditionFailed))

		_, err = handler.Token("nobody@example.org")
		require.True(t, models.IsKind(err, models.ErrNotFound))
	})
}
