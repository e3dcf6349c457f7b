package domain

import (
	"time"

	"github.com/google/uuid"
)

// MessageRole represents the sender of a turn
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// TurnStatus tracks where a turn is in its lifecycle
type TurnStatus string

const (
	// TurnPending only ever appears on the view overlay of an in-flight answer.
	TurnPending  TurnStatus = "pending"
	TurnResolved TurnStatus = "resolved"
	TurnFailed   TurnStatus = "failed"
)

// Turn is one message in the conversation. Stored turns are never mutated.
type Turn struct {
	ID        uuid.UUID   `json:"id"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Status    TurnStatus  `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

// NewTurn builds a turn stamped with a fresh ID and the current time
func NewTurn(role MessageRole, content string, status TurnStatus) Turn {
	return Turn{
		ID:        uuid.New(),
		Role:      role,
		Content:   content,
		Status:    status,
		CreatedAt: time.Now(),
	}
}
