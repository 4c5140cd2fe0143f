package handler

import (
	"errors"
	"net/http"

	"github.com/Lee-sungheon/Loopin/internal/model"
	"github.com/Lee-sungheon/Loopin/internal/service"
)

var (
	errNotAuthorized = errors.New("user is not authorized")
	errInvalidPostID = errors.New("invalid post ID")
	errInvalidPatch  = errors.New("patch must be a JSON object")
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrFieldNotAllowed),
		errors.Is(err, model.ErrUnknownCategory):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrLockTimeout):
		return http.StatusServiceUnavailable
	case errors.Is(err, service.ErrRemoteRead),
		errors.Is(err, service.ErrRemoteWrite):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
