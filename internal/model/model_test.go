package model

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSkillTypeValid(t *testing.T) {
	assert.True(t, SkillTypeTeach.Valid())
	assert.True(t, SkillTypeLearn.Valid())
	assert.False(t, SkillType("mentor").Valid())
	assert.False(t, SkillType("").Valid())
}

func TestSwapStatusTerminal(t *testing.T) {
	assert.False(t, SwapStatusPending.Terminal())
	assert.True(t, SwapStatusAccepted.Terminal())
	assert.True(t, SwapStatusRejected.Terminal())

	assert.False(t, SwapStatusPending.ValidTarget())
	assert.False(t, SwapStatus("cancelled").ValidTarget())
}

func TestOtherParty(t *testing.T) {
	sender := &User{ID: 1, Name: "alice"}
	receiver := &User{ID: 2, Name: "bob"}
	r := &SwapRequest{SenderID: 1, ReceiverID: 2, Sender: sender, Receiver: receiver}

	assert.Same(t, receiver, r.OtherParty(1))
	assert.Same(t, sender, r.OtherParty(2))
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		err    error
		kind   ErrorKind
		status int
	}{
		{NewValidationError("bad"), KindValidation, http.StatusBadRequest},
		{NewUnauthenticatedError("who"), KindUnauthenticated, http.StatusUnauthorized},
		{NewForbiddenError("no"), KindForbidden, http.StatusForbidden},
		{NewNotFoundError("user", 7), KindNotFound, http.StatusNotFound},
		{NewConflictError("dup"), KindConflict, http.StatusConflict},
		{NewInternalError(errors.New("boom")), KindInternal, http.StatusInternalServerError},
		{errors.New("plain"), KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.kind, KindOf(tt.err))
			assert.Equal(t, tt.status, KindOf(tt.err).HTTPStatus())
		})
	}
}

func TestAppErrorWrapping(t *testing.T) {
	cause := errors.New("disk full")
	wrapped := fmt.Errorf("create skill: %w", NewInternalError(cause))

	assert.True(t, IsKind(wrapped, KindInternal))
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, "user 9 not found", NewNotFoundError("user", 9).Error())
	assert.False(t, IsKind(nil, KindInternal))
}
