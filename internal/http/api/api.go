package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hallister/belfry/internal/http/middleware"
	"github.com/hallister/belfry/internal/model"
)

type APIError struct {
	Code    int
	Message string
}

type HandlerFuncWithAuth func(ctx *gin.Context, user *model.User) (any, *APIError)
type HandlerFunc func(ctx *gin.Context) (any, *APIError)

// FromError maps the engine error taxonomy onto HTTP codes. Validation,
// not-found and conflict errors carry their description to the caller;
// anything else is an opaque 500.
func FromError(err error) *APIError {
	switch {
	case errors.Is(err, model.ErrValidation):
		return &APIError{Code: http.StatusBadRequest, Message: err.Error()}
	case errors.Is(err, model.ErrNotFound):
		return &APIError{Code: http.StatusNotFound, Message: "not found"}
	case errors.Is(err, model.ErrConflict):
		return &APIError{Code: http.StatusConflict, Message: "conflict"}
	default:
		return &APIError{Code: http.StatusInternalServerError, Message: "internal error"}
	}
}

func ResolveEndpointWithAuth(h HandlerFuncWithAuth) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := middleware.GetCurrentUser(ctx)
		if !ok {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		result, apiErr := h(ctx, user)
		if apiErr != nil {
			ctx.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
			return
		}

		ctx.JSON(http.StatusOK, result)
	}
}

func ResolveEndpoint(h HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, apiErr := h(ctx)
		if apiErr != nil {
			ctx.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
			return
		}

		ctx.JSON(http.StatusOK, result)
	}
}
