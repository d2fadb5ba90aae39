package dbmodels

// Signature изображение подписи пользователя
type Signature struct {
	BaseModel
	UserID      string `gorm:"type:varchar(36);index"`
	Url         string `gorm:"type:varchar(512)"` // ключ в хранилище
	FileName    string `gorm:"type:varchar(255)"`
	ContentType string `gorm:"type:varchar(64)"`
}
