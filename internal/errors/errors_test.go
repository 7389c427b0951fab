package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	assert.Equal(t, "bad credentials", Unauthenticated("bad credentials").Error())

	wrapped := Wrap(stderrors.New("dial tcp: refused"), ErrCodeNetwork, "role lookup failed")
	assert.Equal(t, "role lookup failed: dial tcp: refused", wrapped.Error())
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := stderrors.New("boom")
	err := Wrapf(cause, ErrCodeNetwork, "call %s", "GET /users/role")

	assert.True(t, stderrors.Is(err, cause))
	assert.True(t, IsNetwork(err))
	assert.Equal(t, ErrCodeNetwork, GetCode(err))
}

func TestWrap_NilErr(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeNetwork, "x"))
	assert.Nil(t, Wrapf(nil, ErrCodeNetwork, "x"))
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		err  error
		pred func(error) bool
	}{
		{Unauthenticated("u"), IsUnauthenticated},
		{Forbidden("f"), IsForbidden},
		{Validation("v"), IsValidation},
		{Network("n"), IsNetwork},
		{NotFound("nf"), IsNotFound},
		{Conflict("c"), IsConflict},
		{Payment("p"), IsPayment},
	}
	for _, tt := range tests {
		assert.True(t, tt.pred(tt.err), "%v", tt.err)
		assert.False(t, tt.pred(stderrors.New("plain")))
	}
}

func TestPredicates_ThroughWrapping(t *testing.T) {
	inner := Forbidden("admins only")
	outer := fmt.Errorf("assign rider: %w", inner)

	assert.True(t, IsForbidden(outer))
	assert.False(t, IsUnauthenticated(outer))
}

func TestValidationField(t *testing.T) {
	err := ValidationField("weight", "weight is required for non-document parcels")
	assert.True(t, IsValidation(err))
	assert.Equal(t, "weight", GetField(err))
	assert.Equal(t, "", GetField(stderrors.New("plain")))
}
