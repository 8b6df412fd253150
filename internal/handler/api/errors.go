package api

import (
	"errors"
	"net/http"

	"SignalDesk/internal/domain/models"
	xhttp "SignalDesk/pkg/http"
)

// toAppError maps domain sentinels to wire codes. Every top-level failure
// answers 500; the code tells the caller what went wrong.
func toAppError(err error) *xhttp.AppError {
	var appErr *xhttp.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	code := xhttp.CodeInternal
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		code = xhttp.CodeInvalidInput
	case errors.Is(err, models.ErrConfiguration):
		code = xhttp.CodeConfiguration
	case errors.Is(err, models.ErrUpstream):
		code = xhttp.CodeUpstream
	case errors.Is(err, models.ErrStorage):
		code = xhttp.CodeStorage
	}
	return xhttp.NewAppError(code, "", err.Error(), http.StatusInternalServerError).WithError(err)
}
