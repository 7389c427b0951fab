package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole("admin"))
	assert.Equal(t, RoleRider, ParseRole("rider"))
	assert.Equal(t, RoleUser, ParseRole("user"))
	assert.Equal(t, RoleUser, ParseRole(""))
	assert.Equal(t, RoleUser, ParseRole("superuser"))
}

func TestSession_SignedIn(t *testing.T) {
	assert.False(t, Session{Status: StatusUnauthenticated}.SignedIn())

	s := Session{
		Identity: &Identity{UID: "u1", Email: "a@b.c"},
		Role:     RoleUser,
		Status:   StatusError,
	}
	assert.True(t, s.SignedIn())
	assert.Equal(t, "a@b.c", s.Email())
	assert.Equal(t, "", Session{}.Email())
}

func TestRecordFor_LeastPrivilege(t *testing.T) {
	rec := RecordFor(Identity{UID: "u1", Email: "a@b.c", DisplayName: "A", PhotoURL: "p"})
	assert.Equal(t, RoleUser, rec.Role)
	assert.Equal(t, "u1", rec.UID)
	assert.Equal(t, "a@b.c", rec.Email)
}
