package dbmodels

import "esign-backend/models"

type User struct {
	BaseModel
	Name    string            `gorm:"type:varchar(255)"`
	Email   string            `gorm:"type:varchar(255);uniqueIndex"`
	Role    models.UserRole   `gorm:"type:varchar(16)"`
	Status  models.UserStatus `gorm:"type:varchar(16)"`
	CourtID *string           `gorm:"type:varchar(36)"`
}

func (u User) IsActiveOfficer() bool {
	return u.Role == models.UserRoleOfficer && u.Status == models.UserStatusActive
}
