package dbmodels

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

type BaseModel struct {
	ID        string    `gorm:"primaryKey;default:uuid_generate_v4()" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// jsonValue значение для колонки jsonb, nil пишется как пустой массив
func jsonValue(value any, empty string) (driver.Value, error) {
	if value == nil {
		return empty, nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка сериализации jsonb")
	}
	return string(data), nil
}

func scanJSON(value any, out any) error {
	switch data := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(data, out)
	case string:
		return json.Unmarshal([]byte(data), out)
	}
	return errors.Errorf("неподдерживаемый тип jsonb: %T", value)
}
