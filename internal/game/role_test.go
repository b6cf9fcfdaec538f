package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleComplement(t *testing.T) {
	assert.Equal(t, RoleGroundWorker, RoleLineWorker.Complement())
	assert.Equal(t, RoleLineWorker, RoleGroundWorker.Complement())
	assert.Equal(t, RoleUnassigned, RoleUnassigned.Complement())
}

func TestRoleData(t *testing.T) {
	for _, role := range []Role{RoleLineWorker, RoleGroundWorker} {
		assert.NotEmpty(t, role.Title(), role.String())
		assert.NotEmpty(t, role.WarnPhrase(), role.String())
		assert.NotEmpty(t, role.ReactPhrase(), role.String())
		assert.NotEqual(t, role.WarnPhrase(), role.ReactPhrase(), role.String())
	}
	assert.Equal(t, "line", RoleLineWorker.String())
	assert.Equal(t, "ground", RoleGroundWorker.String())
	assert.Equal(t, "unassigned", RoleUnassigned.String())
}
