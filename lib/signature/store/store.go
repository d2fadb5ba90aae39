package signaturestore

import (
	dbmodels "esign-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.Signature) (id string, err error)
	GetByID(id string) (*dbmodels.Signature, error)
	// GetByIDAndUser подпись, принадлежащая пользователю
	GetByIDAndUser(id, userID string) (*dbmodels.Signature, error)
	List(userID string) ([]dbmodels.Signature, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Signature) (id string, err error) {
	if err = i.db.Save(&rec).Error; err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Signature, error) {
	rec := dbmodels.Signature{}
	err := i.db.Where("id = ?", id).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetByIDAndUser(id, userID string) (*dbmodels.Signature, error) {
	rec := dbmodels.Signature{}
	err := i.db.
		Where("id = ?", id).
		Where("user_id = ?", userID).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) List(userID string) (list []dbmodels.Signature, err error) {
	err = i.db.
		Model(dbmodels.Signature{}).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
