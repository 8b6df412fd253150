package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// JSON writes data as the bare response body.
func JSON(c echo.Context, statusCode int, data interface{}) error {
	return c.JSON(statusCode, data)
}

// SuccessResponse writes a 200 response.
func SuccessResponse(c echo.Context, data interface{}) error {
	return JSON(c, http.StatusOK, data)
}

// BlobResponse writes an already serialized JSON body.
func BlobResponse(c echo.Context, body []byte) error {
	return c.JSONBlob(http.StatusOK, body)
}

// ErrorResponse writes {error, code}. Errors that are not an *AppError become ERR_INTERNAL.
func ErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = InternalError(err.Error())
	}
	status := appErr.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return c.JSON(status, ErrorBody{Error: appErr.Message, Code: appErr.Code})
}
