// Package messagequeue defines the message queue port (interface).
package messagequeue

import "context"

// Handler processes a message received from the queue.
type Handler func(ctx context.Context, subject string, data []byte) error

// Queue is the port interface for publishing and subscribing to messages.
type Queue interface {
	// Publish sends a message to the given subject.
	Publish(ctx context.Context, subject string, data []byte) error

	// Subscribe registers a handler for messages on the given subject.
	// Every subscriber receives every message published after it subscribed.
	// The returned function cancels the subscription.
	Subscribe(ctx context.Context, subject string, handler Handler) (cancel func(), err error)

	// Drain gracefully drains all subscriptions before closing.
	Drain() error

	// Close shuts down the queue connection immediately.
	Close() error

	// IsConnected reports whether the queue is currently connected.
	IsConnected() bool
}

// Subject layout: turnolink.<entity>.<op>.
const (
	SubjectPrefix = "turnolink."
	SubjectAll    = "turnolink.>"

	SubjectTenantAll = "turnolink.tenant.>"
)

// Entities that emit mutation events.
const (
	EntityTenant      = "tenant"
	EntityCustomer    = "customer"
	EntityBooking     = "booking"
	EntitySchedule    = "schedule"
	EntityBlockedDate = "blocked_date"
	EntityMedia       = "media"
	EntityProduct     = "product"
)

// Mutation operations.
const (
	OpCreated = "created"
	OpUpdated = "updated"
	OpDeleted = "deleted"
)

// Subject returns the subject a mutation of entity is published on.
func Subject(entity, op string) string {
	return SubjectPrefix + entity + "." + op
}
