package permissions

import "github.com/camden-git/congoaddressmapper/models"

// Permission keys checked by the HTTP layer. Reads are public and have no key.
const (
	AddressCreate  = "address.create"
	AddressEdit    = "address.edit"
	AddressVerify  = "address.verify"
	RegionManage   = "region.manage"
	BuildingCreate = "building.create"
	PhotoUpload    = "photo.upload"
	SurveyManage   = "survey.manage"
	AiJobCreate    = "aijob.create"
	AdminSeed      = "admin.seed"
)

// PermissionDefinition describes a single, specific permission
type PermissionDefinition struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	AdminOnly   bool   `json:"adminOnly"`
}

// PermissionGroupDefinition groups related permissions
type PermissionGroupDefinition struct {
	Key         string                 `json:"key"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Permissions []PermissionDefinition `json:"permissions"`
}

// DefinedPermissionGroups holds all statically defined permission groups and their permissions
var DefinedPermissionGroups = []PermissionGroupDefinition{
	{
		Key:         "address",
		Name:        "Address Registry",
		Description: "Recording and maintaining addresses.",
		Permissions: []PermissionDefinition{
			{Key: AddressCreate, Name: "Create Address", Description: "Record a new address."},
			{Key: AddressEdit, Name: "Edit Address", Description: "Change address fields; every change is written to the change log."},
			{Key: AddressVerify, Name: "Verify Address", Description: "Mark an address as verified."},
		},
	},
	{
		Key:         "field",
		Name:        "Field Work",
		Description: "Survey sessions and the material collected during them.",
		Permissions: []PermissionDefinition{
			{Key: SurveyManage, Name: "Run Survey Sessions", Description: "Start, pause, resume and end survey sessions."},
			{Key: PhotoUpload, Name: "Upload Photos", Description: "Attach photos to addresses."},
			{Key: BuildingCreate, Name: "Record Buildings", Description: "Add building footprints to addresses."},
			{Key: AiJobCreate, Name: "Request AI Jobs", Description: "Queue building detection, address generation or change detection jobs."},
		},
	},
	{
		Key:         "region",
		Name:        "Regions",
		Description: "Administrative divisions addresses are mapped against.",
		Permissions: []PermissionDefinition{
			{Key: RegionManage, Name: "Manage Regions", Description: "Create provinces, communes and quartiers."},
		},
	},
	{
		Key:         "admin",
		Name:        "Administration",
		Description: "System maintenance.",
		Permissions: []PermissionDefinition{
			{Key: AdminSeed, Name: "Seed Database", Description: "Load the province list and sample addresses.", AdminOnly: true},
		},
	},
}

var (
	allPermissionKeysMap map[string]PermissionDefinition
	allPermissionKeys    []string
)

func init() {
	allPermissionKeysMap = make(map[string]PermissionDefinition)
	for _, group := range DefinedPermissionGroups {
		for _, perm := range group.Permissions {
			allPermissionKeysMap[perm.Key] = perm
			allPermissionKeys = append(allPermissionKeys, perm.Key)
		}
	}
}

// GetAllPermissionKeys returns a copy of every defined permission key
func GetAllPermissionKeys() []string {
	keys := make([]string, len(allPermissionKeys))
	copy(keys, allPermissionKeys)
	return keys
}

func IsValidPermissionKey(key string) bool {
	_, ok := allPermissionKeysMap[key]
	return ok
}

// RoleAllows reports whether role grants key. Admins hold every permission,
// users every permission not marked AdminOnly. Unknown keys and roles are denied.
func RoleAllows(role, key string) bool {
	def, ok := allPermissionKeysMap[key]
	if !ok {
		return false
	}
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleUser:
		return !def.AdminOnly
	default:
		return false
	}
}

// ForRole lists the permission keys granted to role.
func ForRole(role string) []string {
	var keys []string
	for _, key := range allPermissionKeys {
		if RoleAllows(role, key) {
			keys = append(keys, key)
		}
	}
	return keys
}
