package domain

type MessageID string

type MessageStatus string

const (
	StatusDelivered MessageStatus = "delivered"
	StatusSeen      MessageStatus = "seen"
)
