package handler

import (
	"errors"
	"net/http"

	apperrors "github.com/jwalitptl/loyalty-admin-api/pkg/errors"
)

// HTTPStatus maps a service error onto its HTTP status. Unknown error
// types fall back to 500.
func HTTPStatus(err error) int {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode()
	}
	return http.StatusInternalServerError
}
