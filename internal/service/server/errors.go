package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/Agurato/filmdelegate/internal/model"
)

type fieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidFilm), errors.Is(err, model.ErrInvalidUser), errors.Is(err, model.ErrInvalidFilter):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrAuthentication):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, model.ErrFilmNotFound), errors.Is(err, model.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrOwnerAlreadyExists):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// abortWithError answers with the status code matching the error.
// Internal errors are logged and their message is not sent to the client.
func abortWithError(c *gin.Context, err error) {
	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		c.Error(err)
		log.Error().Err(err).Str("requestID", c.GetString(RequestIDKey)).Msg("Request failed")
		c.AbortWithStatusJSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// abortWithBindingError answers 400 to a request which body could not be bound or validated
func abortWithBindingError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields := make([]fieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fields = append(fields, fieldError{Field: fe.Namespace(), Rule: fe.Tag()})
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error":  "invalid request body",
		"fields": fields,
	})
}
