package rbac

import (
	"esign-backend/models"
)

var (
	AllRoles        = []models.UserRole{models.UserRoleReader, models.UserRoleOfficer, models.UserRoleAdmin}
	ReaderAdminSet  = []models.UserRole{models.UserRoleReader, models.UserRoleAdmin}
	OfficerRoleSet  = []models.UserRole{models.UserRoleOfficer}
	AdminRoleSet    = []models.UserRole{models.UserRoleAdmin}
	OfficerAdminSet = []models.UserRole{models.UserRoleOfficer, models.UserRoleAdmin}
)

// права проверяются по роли, доступ к конкретной заявке проверяет обработчик
func (i *impl) initRules() {
	i.profile()
	i.requests()
	i.documents()
	i.signing()
	i.signatures()
	i.users()
	i.dicts()
}

func (i *impl) mustRegister(module models.Module, permission models.Permission, roles []models.UserRole, swaggerPattern string, handler models.RbacFunc) {
	if err := i.RegisterRule(module, permission, roles, swaggerPattern, handler); err != nil {
		panic(err.Error())
	}
}

func (i *impl) profile() {
	i.mustRegister(models.UsersModule, models.ViewPermission, AllRoles, "/api/v1/me/permissions [get]", AllowFunc())
}

func (i *impl) requests() {
	// VIEW
	i.mustRegister(models.RequestModule, models.ViewPermission, AllRoles, "/api/v1/requests [get]", nil)
	i.mustRegister(models.RequestModule, models.ViewPermission, AllRoles, "/api/v1/requests/{id} [get]", nil)
	i.mustRegister(models.RequestModule, models.ViewPermission, AllRoles, "/api/v1/requests/{id}/template_preview [get]", nil)
	i.mustRegister(models.RequestModule, models.ViewPermission, AllRoles, "/api/v1/requests/{id}/protocol [get]", nil)
	// CREATE/EDIT
	i.mustRegister(models.RequestModule, models.CreatePermission, ReaderAdminSet, "/api/v1/requests [post]", nil)
	i.mustRegister(models.RequestModule, models.CreatePermission, ReaderAdminSet, "/api/v1/requests/{id}/clone [post]", nil)
	i.mustRegister(models.RequestModule, models.EditPermission, ReaderAdminSet, "/api/v1/requests/{id} [delete]", nil)
	// FLOW
	i.mustRegister(models.RequestModule, models.FlowPermission, ReaderAdminSet, "/api/v1/requests/{id}/send [put]", nil)
	i.mustRegister(models.RequestModule, models.FlowPermission, OfficerRoleSet, "/api/v1/requests/{id}/reject [put]", nil)
	i.mustRegister(models.RequestModule, models.FlowPermission, OfficerRoleSet, "/api/v1/requests/{id}/delegate [put]", nil)
}

func (i *impl) documents() {
	// VIEW
	i.mustRegister(models.DocumentModule, models.ViewPermission, AllRoles, "/api/v1/requests/{id}/documents/export [get]", nil)
	i.mustRegister(models.DocumentModule, models.ViewPermission, AllRoles, "/api/v1/requests/{id}/documents/{docId}/preview [get]", nil)
	i.mustRegister(models.DocumentModule, models.ViewPermission, AllRoles, "/api/v1/requests/{id}/documents/{docId}/signed [get]", nil)
	// EDIT
	i.mustRegister(models.DocumentModule, models.EditPermission, ReaderAdminSet, "/api/v1/requests/{id}/documents [post]", nil)
	i.mustRegister(models.DocumentModule, models.EditPermission, ReaderAdminSet, "/api/v1/requests/{id}/documents/import [post]", nil)
	i.mustRegister(models.DocumentModule, models.EditPermission, ReaderAdminSet, "/api/v1/requests/{id}/documents/{docId} [delete]", nil)
	// FLOW
	i.mustRegister(models.DocumentModule, models.FlowPermission, OfficerRoleSet, "/api/v1/requests/{id}/documents/{docId}/reject [put]", nil)
}

func (i *impl) signing() {
	i.mustRegister(models.SigningModule, models.SignPermission, OfficerRoleSet, "/api/v1/requests/{id}/sign [post]", nil)
	i.mustRegister(models.SigningModule, models.ViewPermission, AllRoles, "/api/v1/jobs/{id} [get]", nil)
	i.mustRegister(models.SigningModule, models.ManagePermission, AdminRoleSet, "/api/v1/jobs/{id} [delete]", nil)
}

func (i *impl) signatures() {
	i.mustRegister(models.SignatureModule, models.ViewPermission, OfficerAdminSet, "/api/v1/signatures [get]", nil)
	i.mustRegister(models.SignatureModule, models.ViewPermission, OfficerAdminSet, "/api/v1/signatures/{id}/image [get]", nil)
	i.mustRegister(models.SignatureModule, models.CreatePermission, OfficerRoleSet, "/api/v1/signatures [post]", nil)
}

func (i *impl) users() {
	i.mustRegister(models.UsersModule, models.ViewPermission, AllRoles, "/api/v1/users [get]", nil)
	i.mustRegister(models.UsersModule, models.ManagePermission, AdminRoleSet, "/api/v1/users [post]", nil)
	i.mustRegister(models.UsersModule, models.ManagePermission, AdminRoleSet, "/api/v1/users/{id}/status [put]", nil)
}

func (i *impl) dicts() {
	i.mustRegister(models.DictModule, models.ViewPermission, AllRoles, "/api/v1/dict/court [get]", nil)
	i.mustRegister(models.DictModule, models.ViewPermission, AllRoles, "/api/v1/dict/court/{id} [get]", nil)
	i.mustRegister(models.DictModule, models.ManagePermission, AdminRoleSet, "/api/v1/dict/court [post]", nil)
	i.mustRegister(models.DictModule, models.ViewPermission, AllRoles, "/api/v1/dict/role [get]", nil)
}
