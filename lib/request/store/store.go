package requeststore

import (
	"encoding/json"
	"esign-backend/models"
	dbmodels "esign-backend/models/db"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Guard условие на текущее состояние записи для условного обновления
type Guard struct {
	Statuses   []models.SignStatus // допустимые текущие статусы
	Version    *int
	CreatedBy  string
	AssignedTo string
}

type Filter struct {
	CreatedBy  string
	AssignedTo string
	Search     string // подстрока в названии
	Limit      int    // 0 - без ограничения
	Offset     int
}

type Provider interface {
	Create(rec dbmodels.Request) (id string, err error)
	GetByID(id string) (*dbmodels.Request, error)
	GetByDocumentID(docID string) (*dbmodels.Request, error)
	// List возвращает страницу и общее количество записей по фильтру
	List(filter Filter) ([]dbmodels.Request, int64, error)
	// ConditionalUpdate обновляет запись только если она удовлетворяет guard, version увеличивается
	ConditionalUpdate(id string, guard Guard, updMap map[string]interface{}) (bool, error)
	ListStuck(status models.SignStatus, updatedBefore time.Time) ([]dbmodels.Request, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Request) (id string, err error) {
	if rec.Status == "" {
		rec.Status = models.RecordStatusActive
	}
	if rec.SignStatus == "" {
		rec.SignStatus = models.SignStatusUnsigned
	}
	err = i.db.Create(&rec).Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Request, error) {
	rec := dbmodels.Request{}
	err := i.db.
		Where("id = ?", id).
		Where("status = ?", models.RecordStatusActive).
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

func (i impl) GetByDocumentID(docID string) (*dbmodels.Request, error) {
	filter, err := json.Marshal([]map[string]string{{"id": docID}})
	if err != nil {
		return nil, err
	}
	rec := dbmodels.Request{}
	err = i.db.
		Where("data @> ?::jsonb", string(filter)).
		Where("status = ?", models.RecordStatusActive).
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

func (i impl) List(filter Filter) (list []dbmodels.Request, rowCount int64, err error) {
	tx := i.db.
		Model(dbmodels.Request{}).
		Where("status = ?", models.RecordStatusActive)
	if filter.CreatedBy != "" {
		tx = tx.Where("created_by = ?", filter.CreatedBy)
	}
	if filter.AssignedTo != "" {
		tx = tx.Where("assigned_to = ?", filter.AssignedTo)
	}
	if filter.Search != "" {
		tx = tx.Where("LOWER(template_name) like ?", "%"+strings.ToLower(filter.Search)+"%")
	}
	if err = tx.Count(&rowCount).Error; err != nil {
		return nil, 0, err
	}
	if filter.Limit > 0 {
		tx = tx.Limit(filter.Limit).Offset(filter.Offset)
	}
	err = tx.Order("created_at desc").Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, rowCount, nil
}

func (i impl) ConditionalUpdate(id string, guard Guard, updMap map[string]interface{}) (bool, error) {
	upd := make(map[string]interface{}, len(updMap)+2)
	for k, v := range updMap {
		upd[k] = v
	}
	upd["version"] = gorm.Expr("version + 1")
	upd["updated_at"] = time.Now()

	tx := i.db.
		Model(&dbmodels.Request{}).
		Where("id = ?", id).
		Where("status = ?", models.RecordStatusActive)
	if len(guard.Statuses) > 0 {
		tx = tx.Where("sign_status IN ?", guard.Statuses)
	}
	if guard.Version != nil {
		tx = tx.Where("version = ?", *guard.Version)
	}
	if guard.CreatedBy != "" {
		tx = tx.Where("created_by = ?", guard.CreatedBy)
	}
	if guard.AssignedTo != "" {
		tx = tx.Where("assigned_to = ?", guard.AssignedTo)
	}
	tx = tx.Updates(upd)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (i impl) ListStuck(status models.SignStatus, updatedBefore time.Time) (list []dbmodels.Request, err error) {
	err = i.db.
		Model(dbmodels.Request{}).
		Where("status = ?", models.RecordStatusActive).
		Where("sign_status = ?", status).
		Where("updated_at < ?", updatedBefore).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
