package courtstore

import (
	dbmodels "esign-backend/models/db"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	List(name string) ([]dbmodels.Court, error)
	Create(rec dbmodels.Court) (id string, err error)
	GetByID(id string) (*dbmodels.Court, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) List(name string) ([]dbmodels.Court, error) {
	var result []dbmodels.Court
	tx := i.db.Model(dbmodels.Court{})
	if name != "" {
		tx = tx.Where("LOWER(name) like ?", "%"+strings.ToLower(name)+"%")
	}
	err := tx.Order("name").Find(&result).Error
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения списка судов")
	}
	return result, nil
}

func (i impl) Create(rec dbmodels.Court) (id string, err error) {
	var rowCount int64
	err = i.db.Model(dbmodels.Court{}).
		Where("LOWER(name) = ?", strings.ToLower(rec.Name)).
		Count(&rowCount).
		Error
	if err != nil {
		return "", err
	}
	if rowCount > 0 {
		return "", errors.New("суд уже существует")
	}
	if err = i.db.Save(&rec).Error; err != nil {
		return "", errors.Wrap(err, "ошибка добавления суда")
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Court, error) {
	rec := dbmodels.Court{}
	err := i.db.Where("id = ?", id).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}
