package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"randevu-api/internal/model"
)

type appointmentRequest struct {
	Title           string    `json:"title"`
	Notes           string    `json:"notes"`
	AppointmentDate time.Time `json:"appointmentDate"`
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req appointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	a, err := h.scheduler.Create(c.Request.Context(), uid(c), req.Title, req.Notes, req.AppointmentDate)
	if err != nil {
		writeSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	from := time.Now().AddDate(0, 0, -30)
	to := time.Now().AddDate(0, 2, 0)

	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'from' timestamp"})
			return
		}
		from = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'to' timestamp"})
			return
		}
		to = t
	}

	apts, err := h.scheduler.List(c.Request.Context(), uid(c), from, to)
	if err != nil {
		writeSchedulingError(c, err)
		return
	}
	if apts == nil {
		apts = []model.Appointment{}
	}
	c.JSON(http.StatusOK, gin.H{"appointments": apts})
}

func (h *Handler) GetAppointment(c *gin.Context) {
	a, err := h.scheduler.Get(c.Request.Context(), uid(c), c.Param("id"))
	if err != nil {
		writeSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	var req appointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	a, err := h.scheduler.Update(c.Request.Context(), uid(c), c.Param("id"), req.Title, req.Notes, req.AppointmentDate)
	if err != nil {
		writeSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	if err := h.scheduler.Delete(c.Request.Context(), uid(c), c.Param("id")); err != nil {
		writeSchedulingError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
