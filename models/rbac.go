package models

type RbacFunc func(userID string, role UserRole, path string) bool

type Module string

const (
	RequestModule   Module = "REQUEST"
	DocumentModule  Module = "DOCUMENT"
	SigningModule   Module = "SIGNING"
	SignatureModule Module = "SIGNATURE"
	UsersModule     Module = "USERS"
	DictModule      Module = "DICT"
)

type Permission string

const (
	CreatePermission Permission = "CREATE"
	EditPermission   Permission = "EDIT"
	ViewPermission   Permission = "VIEW"
	ManagePermission Permission = "MANAGE"
	FlowPermission   Permission = "FLOW"
	SignPermission   Permission = "SIGN"
)
