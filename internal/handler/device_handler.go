package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RegisterDevice stores the caller's current FCM device token. Appointments
// snapshot this token when they are created or edited.
func (h *Handler) RegisterDevice(c *gin.Context) {
	var req struct {
		FCMToken string `json:"fcmToken"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.FCMToken) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fcmToken required"})
		return
	}

	if err := h.store.SetDeviceToken(c.Request.Context(), uid(c), strings.TrimSpace(req.FCMToken)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.Status(http.StatusNoContent)
}
