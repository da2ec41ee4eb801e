package dberror

import (
	"net/http"

	"github.com/MajorCrixus/AetherLink-sub001/internal/common/apperrors"
)

var (
	ErrDatabase      apperrors.Error = apperrors.New("db error").SetStatusCode(http.StatusInternalServerError)
	ErrAlreadyExists apperrors.Error = ErrDatabase.New("already exists").SetStatusCode(http.StatusConflict)
	ErrNotFound      apperrors.Error = ErrDatabase.New("not found").SetStatusCode(http.StatusNotFound)
	ErrInvalidInput  apperrors.Error = ErrDatabase.New("invalid input").SetStatusCode(http.StatusBadRequest)
	ErrConstraint    apperrors.Error = ErrDatabase.New("constraint violation").SetStatusCode(http.StatusConflict)
	ErrUnavailable   apperrors.Error = ErrDatabase.New("store unavailable").SetStatusCode(http.StatusServiceUnavailable)
)
