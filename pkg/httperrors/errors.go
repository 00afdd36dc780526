package httperrors

import (
	"errors"
	"net/http"

	"github.com/sir_venger/chunkgate/internal/models"
)

// Status сопоставляет ошибку конвейера с HTTP-статусом.
func Status(err error) int {
	switch {
	case errors.Is(err, models.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrRangeNotSatisfiable):
		return http.StatusRequestedRangeNotSatisfiable
	case errors.Is(err, models.ErrSizeResolution),
		errors.Is(err, models.ErrMalformedLocator),
		errors.Is(err, models.ErrUpstreamFetch):
		return http.StatusBadGateway
	case errors.Is(err, models.ErrNoGateway):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Message возвращает текст ошибки для клиента. Подробности (адреса шлюзов, сетевые ошибки)
// остаются в логах; для 400 текст собран только из данных запроса и отдаётся целиком.
func Message(err error) string {
	if errors.Is(err, models.ErrBadRequest) {
		return err.Error()
	}
	for _, known := range []error{
		models.ErrNotFound,
		models.ErrRangeNotSatisfiable,
		models.ErrSizeResolution,
		models.ErrMalformedLocator,
		models.ErrUpstreamFetch,
		models.ErrNoGateway,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return http.StatusText(http.StatusInternalServerError)
}

// Write отвечает клиенту коротким текстом ошибки с соответствующим статусом.
func Write(w http.ResponseWriter, err error) int {
	code := Status(err)
	http.Error(w, Message(err), code)
	return code
}
