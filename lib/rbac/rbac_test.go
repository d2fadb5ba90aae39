package rbac

import (
	"esign-backend/models"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRbac(t *testing.T) {
	t.Run(`pathToRegex check`, func(t *testing.T) {
		path, method, err := parseSwaggerPattern("/api/v1/requests/{id}/documents/{docId}/reject [put]")
		require.Nil(t, err)
		require.Equal(t, "PUT", method)
		r1 := pathToRegex(path)

		require.True(t, r1.MatchString("/api/v1/requests/123-321/documents/qwe-ewr/reject"))
		require.False(t, r1.MatchString("/api/v1/requests/123-321/reject"))
	})
	t.Run(`ошибки шаблона`, func(t *testing.T) {
		_, _, err := parseSwaggerPattern("/api/v1/requests")
		require.Error(t, err)
		_, _, err = parseSwaggerPattern("/api/v1/requests [head]")
		require.Error(t, err)
	})
	t.Run(`normalizePath`, func(t *testing.T) {
		require.Equal(t, "/", normalizePath(""))
		require.Equal(t, "/api/v1/requests", normalizePath("api//v1/requests/"))
	})
	t.Run(`повторная регистрация`, func(t *testing.T) {
		provider := NewInstance()
		err := provider.RegisterRule(models.RequestModule, models.ViewPermission, AllRoles, "/api/v1/requests [get]", nil)
		require.Error(t, err)
	})

	provider := NewInstance()
	tests := []struct {
		name       string
		method     string
		path       string
		role       models.UserRole
		found      bool
		allow      bool
		permission models.Permission
	}{
		{name: "исполнитель создает заявку", method: "post", path: "/api/v1/requests", role: models.UserRoleReader, found: true, allow: true, permission: models.CreatePermission},
		{name: "подписант не создает заявку", method: "POST", path: "/api/v1/requests/", role: models.UserRoleOfficer, found: true, allow: false, permission: models.CreatePermission},
		{name: "подписант подписывает", method: "POST", path: "/api/v1/requests/1-2/sign", role: models.UserRoleOfficer, found: true, allow: true, permission: models.SignPermission},
		{name: "администратор не подписывает", method: "POST", path: "/api/v1/requests/1-2/sign", role: models.UserRoleAdmin, found: true, allow: false, permission: models.SignPermission},
		{name: "отклонение документа", method: "PUT", path: "/api/v1/requests/1/documents/2/reject", role: models.UserRoleOfficer, found: true, allow: true, permission: models.FlowPermission},
		{name: "отмена задачи только администратор", method: "DELETE", path: "/api/v1/jobs/1", role: models.UserRoleReader, found: true, allow: false, permission: models.ManagePermission},
		{name: "права доступны всем", method: "GET", path: "/api/v1/me/permissions", role: "", found: true, allow: true, permission: models.ViewPermission},
		{name: "нет правила", method: "GET", path: "/api/v1/unknown", role: models.UserRoleReader, found: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, found := provider.Match(tt.method, tt.path)
			require.Equal(t, tt.found, found)
			if !found {
				return
			}
			require.Equal(t, tt.allow, rule.Allow("user-1", tt.role, tt.path))
			require.Equal(t, tt.permission, rule.Permission)
		})
	}

	t.Run("права по роли", func(t *testing.T) {
		permissions := provider.GetPermissions(models.UserRoleOfficer)
		require.Contains(t, permissions[models.SigningModule], models.SignPermission)
		require.NotContains(t, permissions[models.RequestModule], models.CreatePermission)
	})
}
