package apperrors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	ErrBaseErr := New("base error")
	assert.Equal(t, "base error", ErrBaseErr.Error())
	assert.Equal(t, "msg", ErrBaseErr.New("msg").Error())
	assert.ErrorIs(t, ErrBaseErr, ErrBaseErr)

	ErrFirstLevel := ErrBaseErr.New("first level")
	assert.Equal(t, "first level", ErrFirstLevel.Error())
	assert.ErrorIs(t, ErrFirstLevel, ErrBaseErr)

	ErrAnotherErr := New("another error")
	ErrWrappedErr := ErrFirstLevel.Err(ErrAnotherErr)
	assert.Equal(t, "first level", ErrWrappedErr.Error())
	assert.ErrorIs(t, ErrWrappedErr, ErrBaseErr)
	assert.ErrorIs(t, ErrWrappedErr, ErrAnotherErr)

	err := errors.New("error")
	ErrWrappedErr = ErrFirstLevel.MsgErr("msg", err)
	assert.Equal(t, "msg", ErrWrappedErr.Error())
	assert.ErrorIs(t, ErrWrappedErr, ErrBaseErr)
	assert.ErrorIs(t, ErrWrappedErr, err)
}

func TestErrorStatusCode(t *testing.T) {
	ErrBase := New("base").SetStatusCode(http.StatusConflict)
	assert.Equal(t, http.StatusConflict, ErrBase.StatusCode())

	// derived errors inherit the status code unless overridden
	derived := ErrBase.New("derived")
	assert.Equal(t, http.StatusConflict, derived.StatusCode())
	assert.Equal(t, http.StatusNotFound, derived.SetStatusCode(http.StatusNotFound).StatusCode())
}

func TestErrorAll(t *testing.T) {
	base := New("merge failed")
	wrapped := base.New("upsert").Err(errors.New("constraint violation"))
	assert.Equal(t, "upsert: constraint violation", wrapped.ErrorAll())
}
