package messagequeue

import "time"

// MutationEvent is the payload of every turnolink.<entity>.<op> message.
// It is published after the mutation has committed.
type MutationEvent struct {
	Entity     string    `json:"entity"`
	Op         string    `json:"op"`
	TenantID   string    `json:"tenant_id"`
	ID         string    `json:"id"`
	ActorID    string    `json:"actor_id,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
