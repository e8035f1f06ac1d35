package model

import "time"

// ExchangeStatus is the closed set of exchange request states.
type ExchangeStatus string

const (
	StatusPending   ExchangeStatus = "pending"
	StatusAccepted  ExchangeStatus = "accepted"
	StatusRejected  ExchangeStatus = "rejected"
	StatusCancelled ExchangeStatus = "cancelled"
	StatusCompleted ExchangeStatus = "completed"
)

// transitions maps each status to the statuses reachable from it.
// pending is the only state with a choice; accepted may optionally be
// closed out as completed.
var transitions = map[ExchangeStatus][]ExchangeStatus{
	StatusPending:  {StatusAccepted, StatusRejected, StatusCancelled},
	StatusAccepted: {StatusCompleted},
}

// KnownStatus reports whether s is a member of the status enumeration.
func KnownStatus(s ExchangeStatus) bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// CanTransition reports whether a request in state from may move to state to.
func CanTransition(from, to ExchangeStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ExchangeRequest represents a request by one user to learn a skill
// owned by another. SkillOwnerID is captured once at creation so the
// approval authority is frozen even if skill ownership were ever to
// change.
type ExchangeRequest struct {
	ID           int64
	SkillID      int64
	RequesterID  int64
	SkillOwnerID int64
	Message      string
	Status       ExchangeStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateExchangeRequest represents the body of a request-skill call.
type CreateExchangeRequest struct {
	SkillID int64  `json:"skill_id"`
	Message string `json:"message"`
}

// UpdateExchangeRequest carries the desired target status for a transition.
type UpdateExchangeRequest struct {
	Status string `json:"status"`
}

// ExchangeResponse represents an exchange request in API responses.
// SkillTitle is joined in for display; the ids are authoritative.
type ExchangeResponse struct {
	ID           int64          `json:"id"`
	SkillID      int64          `json:"skill_id"`
	SkillTitle   string         `json:"skill_title,omitempty"`
	RequesterID  int64          `json:"requester_id"`
	SkillOwnerID int64          `json:"skill_owner_id"`
	Message      string         `json:"message"`
	Status       ExchangeStatus `json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}
