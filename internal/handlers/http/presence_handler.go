package http

import (
	"errors"
	"net/http"

	"wavelink/internal/core/domain"
	"wavelink/internal/core/ports"
	"wavelink/pkg/validation"

	"github.com/gin-gonic/gin"
)

type PresenceHandler struct {
	presence ports.PresenceService
	lastSeen ports.LastSeenStore
}

func NewPresenceHandler(presence ports.PresenceService, lastSeen ports.LastSeenStore) *PresenceHandler {
	return &PresenceHandler{
		presence: presence,
		lastSeen: lastSeen,
	}
}

func (h *PresenceHandler) SetupRoutes(router *gin.Engine, auth gin.HandlerFunc) {
	api := router.Group("/api/v1/presence", auth)
	{
		api.GET("", h.OnlineUsers)
		api.GET("/:userId/last-seen", h.LastSeen)
	}
}

func (h *PresenceHandler) OnlineUsers(c *gin.Context) {
	users := h.presence.OnlineUsers()
	if users == nil {
		users = []domain.UserID{}
	}

	c.JSON(http.StatusOK, gin.H{
		"online_users": users,
		"count":        len(users),
	})
}

func (h *PresenceHandler) LastSeen(c *gin.Context) {
	userID := domain.UserID(c.Param("userId"))
	if err := validation.ValidateUserID(string(userID)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	at, err := h.lastSeen.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no last-seen record for user"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":   userID,
		"last_seen": at.UTC(),
	})
}
