package rbac

import (
	"esign-backend/models"
	"regexp"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

type Provider interface {
	// Match правило для метода и пути запроса
	Match(method, path string) (Rule, bool)
	RegisterRule(module models.Module, permission models.Permission, roles []models.UserRole, swaggerPattern string, handler models.RbacFunc) error
	GetPermissions(role models.UserRole) map[models.Module][]models.Permission
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance()
}

func NewInstance() Provider {
	i := &impl{
		exact:       map[string]Rule{},
		patterns:    map[string][]Rule{},
		permissions: map[models.UserRole]map[models.Module][]models.Permission{},
	}
	i.initRules()
	return i
}

// Rule правило доступа к операции api
type Rule struct {
	Module     models.Module
	Permission models.Permission
	Method     string
	Path       string
	pattern    *regexp.Regexp
	check      models.RbacFunc
}

func (r Rule) Allow(userID string, role models.UserRole, path string) bool {
	return r.check(userID, role, path)
}

var allowedMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH"}

var paramRegex = regexp.MustCompile(`\{[^}]+?\}`)

type impl struct {
	exact       map[string]Rule   // ключ "METHOD path"
	patterns    map[string][]Rule // по методу, в порядке регистрации
	permissions map[models.UserRole]map[models.Module][]models.Permission
}

func (i *impl) Match(method, path string) (Rule, bool) {
	method = strings.ToUpper(method)
	path = normalizePath(path)
	if rule, ok := i.exact[method+" "+path]; ok {
		return rule, true
	}
	for _, rule := range i.patterns[method] {
		if rule.pattern.MatchString(path) {
			return rule, true
		}
	}
	return Rule{}, false
}

func (i *impl) RegisterRule(module models.Module, permission models.Permission, roles []models.UserRole, swaggerPattern string, handler models.RbacFunc) error {
	path, method, err := parseSwaggerPattern(swaggerPattern)
	if err != nil {
		return err
	}
	if handler == nil {
		handler = AllowByRoleFunc(roles)
	}
	rule := Rule{
		Module:     module,
		Permission: permission,
		Method:     method,
		Path:       path,
		check:      handler,
	}
	if strings.Contains(path, "{") {
		rule.pattern = pathToRegex(path)
		i.patterns[method] = append(i.patterns[method], rule)
	} else {
		key := method + " " + path
		if _, exists := i.exact[key]; exists {
			return errors.Errorf("правило для %s уже зарегистрировано", key)
		}
		i.exact[key] = rule
	}

	// права для фронта
	for _, role := range roles {
		if _, ok := i.permissions[role]; !ok {
			i.permissions[role] = map[models.Module][]models.Permission{}
		}
		if !slices.Contains(i.permissions[role][module], permission) {
			i.permissions[role][module] = append(i.permissions[role][module], permission)
		}
	}
	return nil
}

func (i *impl) GetPermissions(role models.UserRole) map[models.Module][]models.Permission {
	return i.permissions[role]
}

func pathToRegex(path string) *regexp.Regexp {
	pattern := regexp.QuoteMeta(path)
	pattern = strings.ReplaceAll(pattern, `\{`, "{")
	pattern = strings.ReplaceAll(pattern, `\}`, "}")
	pattern = paramRegex.ReplaceAllString(pattern, `([^/]+)`)
	return regexp.MustCompile("^" + pattern + "$")
}

func AllowFunc() models.RbacFunc {
	return func(userID string, role models.UserRole, uri string) bool {
		return true
	}
}

func AllowByRoleFunc(accessRoles []models.UserRole) models.RbacFunc {
	allowMap := map[models.UserRole]bool{}
	for _, role := range accessRoles {
		allowMap[role] = true
	}
	return func(userID string, role models.UserRole, uri string) bool {
		return allowMap[role]
	}
}

// парсит строку в формате "/api/v1/requests/{id} [get]"
func parseSwaggerPattern(pattern string) (path string, method string, err error) {
	pattern = strings.TrimSpace(pattern)
	bracketStart := strings.LastIndex(pattern, "[")
	bracketEnd := strings.LastIndex(pattern, "]")
	if bracketStart == -1 || bracketEnd < bracketStart {
		return "", "", errors.Errorf("не указан метод в шаблоне (%v)", pattern)
	}
	method = strings.ToUpper(strings.TrimSpace(pattern[bracketStart+1 : bracketEnd]))
	if !slices.Contains(allowedMethods, method) {
		return "", "", errors.Errorf("неизвестный метод %s в шаблоне (%v)", method, pattern)
	}
	return normalizePath(pattern[:bracketStart]), method, nil
}

func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		path = path[:len(path)-1]
	}
	return path
}
