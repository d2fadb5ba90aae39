package dbmodels

type Court struct {
	BaseModel
	Name string `gorm:"type:varchar(255);uniqueIndex"`
}
