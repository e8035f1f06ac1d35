package model

import "time"

// Notification type tags used by the exchange workflow.
const (
	NotificationTypeExchangeRequest = "exchange_request"
	NotificationTypeExchangeUpdate  = "exchange_update"
)

// Notification represents a message delivered to a user as a side
// effect of the exchange workflow. RelatedID points at the exchange
// request that produced it, when there is one.
type Notification struct {
	ID        int64
	UserID    int64
	Title     string
	Message   string
	Type      string
	RelatedID int64
	IsRead    bool
	CreatedAt time.Time
}

// NotificationResponse represents a notification in API responses.
type NotificationResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	RelatedID int64     `json:"related_id,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// ToResponse converts a Notification to its API representation.
func (n *Notification) ToResponse() NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		UserID:    n.UserID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		RelatedID: n.RelatedID,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}
