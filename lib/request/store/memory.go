package requeststore

import (
	"esign-backend/models"
	dbmodels "esign-backend/models/db"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Memory хранилище заявок в памяти процесса, используется в тестах
type Memory struct {
	mu      sync.Mutex
	records map[string]dbmodels.Request
	// FailUpdate ошибка, которую вернет следующий ConditionalUpdate
	FailUpdate error
}

func NewMemory() *Memory {
	return &Memory{records: map[string]dbmodels.Request{}}
}

func (m *Memory) Create(rec dbmodels.Request) (id string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Status == "" {
		rec.Status = models.RecordStatusActive
	}
	if rec.SignStatus == "" {
		rec.SignStatus = models.SignStatusUnsigned
	}
	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	rec.Data = rec.Data.Clone()
	m.records[rec.ID] = rec
	return rec.ID, nil
}

func (m *Memory) GetByID(id string) (*dbmodels.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok || rec.Status != models.RecordStatusActive {
		return nil, nil
	}
	rec.Data = rec.Data.Clone()
	return &rec, nil
}

func (m *Memory) GetByDocumentID(docID string) (*dbmodels.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.records {
		if rec.Status != models.RecordStatusActive {
			continue
		}
		if idx, _ := rec.FindDocument(docID); idx >= 0 {
			rec.Data = rec.Data.Clone()
			return &rec, nil
		}
	}
	return nil, nil
}

func (m *Memory) List(filter Filter) ([]dbmodels.Request, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := make([]dbmodels.Request, 0)
	for _, rec := range m.records {
		if rec.Status != models.RecordStatusActive {
			continue
		}
		if filter.CreatedBy != "" && rec.CreatedBy != filter.CreatedBy {
			continue
		}
		if filter.AssignedTo != "" && !rec.IsAssignedTo(filter.AssignedTo) {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(rec.TemplateName), strings.ToLower(filter.Search)) {
			continue
		}
		rec.Data = rec.Data.Clone()
		list = append(list, rec)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	rowCount := int64(len(list))
	if filter.Limit > 0 {
		if filter.Offset >= len(list) {
			return []dbmodels.Request{}, rowCount, nil
		}
		end := filter.Offset + filter.Limit
		if end > len(list) {
			end = len(list)
		}
		list = list[filter.Offset:end]
	}
	return list, rowCount, nil
}

func (m *Memory) ConditionalUpdate(id string, guard Guard, updMap map[string]interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailUpdate != nil {
		err := m.FailUpdate
		m.FailUpdate = nil
		return false, err
	}
	rec, ok := m.records[id]
	if !ok || rec.Status != models.RecordStatusActive {
		return false, nil
	}
	if len(guard.Statuses) > 0 && !containsStatus(guard.Statuses, rec.SignStatus) {
		return false, nil
	}
	if guard.Version != nil && rec.Version != *guard.Version {
		return false, nil
	}
	if guard.CreatedBy != "" && rec.CreatedBy != guard.CreatedBy {
		return false, nil
	}
	if guard.AssignedTo != "" && !rec.IsAssignedTo(guard.AssignedTo) {
		return false, nil
	}
	for key, value := range updMap {
		if err := applyField(&rec, key, value); err != nil {
			return false, err
		}
	}
	rec.Version++
	rec.UpdatedAt = time.Now()
	m.records[id] = rec
	return true, nil
}

func (m *Memory) ListStuck(status models.SignStatus, updatedBefore time.Time) ([]dbmodels.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := make([]dbmodels.Request, 0)
	for _, rec := range m.records {
		if rec.Status == models.RecordStatusActive && rec.SignStatus == status && rec.UpdatedAt.Before(updatedBefore) {
			list = append(list, rec)
		}
	}
	return list, nil
}

// SetUpdatedAt сдвигает время изменения записи
func (m *Memory) SetUpdatedAt(id string, updatedAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := m.records[id]
	rec.UpdatedAt = updatedAt
	m.records[id] = rec
}

func containsStatus(list []models.SignStatus, status models.SignStatus) bool {
	for _, s := range list {
		if s == status {
			return true
		}
	}
	return false
}

func applyField(rec *dbmodels.Request, key string, value interface{}) error {
	var ok bool
	switch key {
	case "sign_status":
		rec.SignStatus, ok = value.(models.SignStatus)
	case "status":
		rec.Status, ok = value.(models.RecordStatus)
	case "updated_by":
		rec.UpdatedBy, ok = value.(string)
	case "rejection_reason":
		rec.RejectionReason, ok = value.(string)
	case "template_name":
		rec.TemplateName, ok = value.(string)
	case "description":
		rec.Description, ok = value.(string)
	case "url":
		rec.Url, ok = value.(string)
	case "assigned_to":
		rec.AssignedTo, ok = optionalString(value)
	case "delegated_to":
		rec.DelegatedTo, ok = optionalString(value)
	case "template_variables":
		var vars dbmodels.TemplateVariables
		vars, ok = value.(dbmodels.TemplateVariables)
		rec.TemplateVariables = vars
	case "data":
		var docs dbmodels.Documents
		docs, ok = value.(dbmodels.Documents)
		rec.Data = docs.Clone()
	default:
		return errors.Errorf("неизвестное поле %s", key)
	}
	if !ok {
		return errors.Errorf("некорректный тип поля %s: %T", key, value)
	}
	return nil
}

func optionalString(value interface{}) (*string, bool) {
	switch v := value.(type) {
	case nil:
		return nil, true
	case string:
		return &v, true
	case *string:
		return v, true
	}
	return nil, false
}
