package upstream

import (
	"net/http"

	"github.com/MajorCrixus/AetherLink-sub001/internal/common/apperrors"
)

var (
	// ErrSourceUnavailable is returned after retries against an upstream are
	// exhausted, or the upstream cannot be reached at all.
	ErrSourceUnavailable apperrors.Error = apperrors.New("upstream source unavailable").SetStatusCode(http.StatusBadGateway)
	// ErrRequestRejected is returned for client-side failures (4xx other
	// than 429). These are never retried.
	ErrRequestRejected apperrors.Error = apperrors.New("upstream rejected request").SetStatusCode(http.StatusBadRequest)
	// ErrAuthFailed is returned when the upstream refuses our credentials.
	ErrAuthFailed apperrors.Error = ErrRequestRejected.New("upstream authentication failed").SetStatusCode(http.StatusUnauthorized)
)
