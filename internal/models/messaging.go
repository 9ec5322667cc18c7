// Package models defines the message envelopes shared by the messaging
// channels.
package models

// StatusType represents the delivery status of an outbound message.
type StatusType string

const (
	// StatusTypeSent indicates the message left the service.
	StatusTypeSent StatusType = "sent"
	// StatusTypeDelivered indicates the channel confirmed delivery.
	StatusTypeDelivered StatusType = "delivered"
	// StatusTypeRead indicates the recipient read the message.
	StatusTypeRead StatusType = "read"
	// StatusTypeFailed indicates delivery failed.
	StatusTypeFailed StatusType = "failed"
)

// IsValidStatusType checks if the given status type is supported.
func IsValidStatusType(s StatusType) bool {
	switch s {
	case StatusTypeSent, StatusTypeDelivered, StatusTypeRead, StatusTypeFailed:
		return true
	default:
		return false
	}
}

// Receipt is a delivery status event for an outbound message.
type Receipt struct {
	To     string     `json:"to"`
	Status StatusType `json:"status"`
	Time   int64      `json:"time"`
}

// Response is an inbound message from a customer.
type Response struct {
	From string `json:"from"`
	Body string `json:"body"`
	Time int64  `json:"time"`
}
