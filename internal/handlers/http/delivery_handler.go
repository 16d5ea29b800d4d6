package http

import (
	"net/http"

	"wavelink/internal/core/domain"
	"wavelink/internal/core/ports"

	"github.com/gin-gonic/gin"
)

// DeliveryHandler is the inbound hook for the message-storage collaborator.
// The backend calls it after a message is written so the realtime tier can
// relay the message and push a delivered receipt.
type DeliveryHandler struct {
	delivery ports.DeliveryService
}

func NewDeliveryHandler(delivery ports.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{delivery: delivery}
}

func (h *DeliveryHandler) SetupRoutes(router *gin.Engine, auth gin.HandlerFunc) {
	api := router.Group("/api/v1/messages", auth)
	{
		api.POST("/persisted", h.MessagePersisted)
	}
}

type messagePersistedRequest struct {
	SenderID domain.UserID `json:"sender_id" binding:"required"`
	// Exactly one of ReceiverID and GroupID names the destination.
	ReceiverID domain.UserID    `json:"receiver_id"`
	GroupID    domain.GroupID   `json:"group_id"`
	MessageID  domain.MessageID `json:"message_id" binding:"required"`
	// Message is relayed verbatim to the destination's live connections.
	Message interface{} `json:"message"`
}

func (h *DeliveryHandler) MessagePersisted(c *gin.Context) {
	var req messagePersistedRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if (req.ReceiverID == "") == (req.GroupID == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "exactly one of receiver_id and group_id is required"})
		return
	}

	var err error
	if req.GroupID != "" {
		err = h.delivery.GroupMessagePersisted(c.Request.Context(), req.SenderID, req.GroupID, req.MessageID, req.Message)
	} else {
		err = h.delivery.MessagePersisted(c.Request.Context(), req.SenderID, req.ReceiverID, req.MessageID, req.Message)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status": "accepted",
	})
}
