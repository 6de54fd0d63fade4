package event

import "errors"

var (
	// ErrNilHandler is returned when subscribing with a nil handler.
	ErrNilHandler = errors.New("event: nil handler")
	// ErrInvalidTopic is returned when subscribing to an empty topic.
	ErrInvalidTopic = errors.New("event: invalid topic")
	// ErrInvalidEvent is returned when publishing a value with no topic.
	ErrInvalidEvent = errors.New("event: event has no topic")
	// ErrSubscriptionNotFound is returned when unsubscribing an unknown
	// or already removed subscription.
	ErrSubscriptionNotFound = errors.New("event: subscription not found")
)
