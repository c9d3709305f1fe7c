package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/camden-git/congoaddressmapper/models"
)

func TestRoleAllows(t *testing.T) {
	assert.True(t, RoleAllows(models.RoleAdmin, AdminSeed))
	assert.True(t, RoleAllows(models.RoleAdmin, AddressVerify))

	assert.True(t, RoleAllows(models.RoleUser, AddressCreate))
	assert.True(t, RoleAllows(models.RoleUser, AddressVerify))
	assert.False(t, RoleAllows(models.RoleUser, AdminSeed))
	assert.True(t, RoleAllows(models.RoleUser, RegionManage))

	assert.False(t, RoleAllows("guest", AddressCreate))
	assert.False(t, RoleAllows(models.RoleAdmin, "album.create"))
}

func TestForRole(t *testing.T) {
	assert.ElementsMatch(t, GetAllPermissionKeys(), ForRole(models.RoleAdmin))
	assert.NotContains(t, ForRole(models.RoleUser), AdminSeed)
	assert.Empty(t, ForRole(""))
	assert.True(t, IsValidPermissionKey(PhotoUpload))
}
