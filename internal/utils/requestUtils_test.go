package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"edudham/internal/xerrors"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{xerrors.ErrUnauthenticated, http.StatusUnauthorized},
		{xerrors.ErrExpiredToken, http.StatusUnauthorized},
		{xerrors.ErrInvalidToken, http.StatusUnauthorized},
		{xerrors.ErrForbidden, http.StatusForbidden},
		{xerrors.Forbiddenf("no university assigned"), http.StatusForbidden},
		{xerrors.ErrNotFound, http.StatusNotFound},
		{xerrors.NotFoundf("university x"), http.StatusNotFound},
		{xerrors.ErrConflict, http.StatusConflict},
		{xerrors.Conflictf("email already registered"), http.StatusConflict},
		{xerrors.ErrValidation, http.StatusBadRequest},
		{xerrors.Validationf("bad field"), http.StatusBadRequest},
		{errors.New("something broke"), http.StatusInternalServerError},
	}

	for _, c := range cases {
		assert.Equal(t, c.status, HTTPStatus(c.err), c.err.Error())
	}
}

func TestRespondWithAppErrorMasksInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithAppError(rec, errors.New("sensitive driver detail"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}

func TestRespondWithAppErrorKeepsClientMessages(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithAppError(rec, xerrors.Validationf("invalid OTP"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid OTP")
}
