package models

type UserRole string

const (
	UserRoleReader  UserRole = "reader"  // автор заявок
	UserRoleOfficer UserRole = "officer" // подписант
	UserRoleAdmin   UserRole = "admin"
)

var roleHumanName = map[UserRole]string{
	UserRoleReader:  "Исполнитель",
	UserRoleOfficer: "Подписант",
	UserRoleAdmin:   "Администратор",
}

func (r UserRole) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return string(r)

}

func (r UserRole) IsValid() bool {
	_, ok := roleHumanName[r]
	return ok
}

func (r UserRole) IsOfficer() bool {
	return r == UserRoleOfficer
}

const SystemUser = "Система"

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusDisabled UserStatus = "disabled"
)

var userStatusHumanName = map[UserStatus]string{
	UserStatusActive:   "Активен",
	UserStatusDisabled: "Отключен",
}

func (r UserStatus) ToHuman() string {
	if human, exist := userStatusHumanName[r]; exist {
		return human
	}
	return string(r)
}

// Actor пользователь, выполняющий операцию
type Actor struct {
	UserID  string
	Role    UserRole
	CourtID string
}
