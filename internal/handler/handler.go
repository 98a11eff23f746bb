package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"randevu-api/internal/middleware"
	"randevu-api/internal/scheduling"
	"randevu-api/internal/store"
)

type Handler struct {
	store     *store.Store
	scheduler *scheduling.Scheduler
	secret    string
}

func New(st *store.Store, sch *scheduling.Scheduler, secret string) *Handler {
	return &Handler{store: st, scheduler: sch, secret: secret}
}

func uid(c *gin.Context) string {
	return c.GetString(middleware.UserIDKey)
}

func writeSchedulingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, scheduling.ErrInvalidParams),
		errors.Is(err, scheduling.ErrMissingData),
		errors.Is(err, scheduling.ErrPastDate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, scheduling.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, scheduling.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
