package dictapimodels

import "esign-backend/models"

func GetRoles() []RoleView {
	return []RoleView{
		GetRole(models.UserRoleReader),
		GetRole(models.UserRoleOfficer),
		GetRole(models.UserRoleAdmin),
	}
}

func GetRole(role models.UserRole) RoleView {
	return RoleView{
		Code: string(role),
		Name: role.ToHuman(),
	}
}

type RoleView struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
