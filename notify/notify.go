// Package notify delivers messages to the operator.
package notify

import (
	"context"
)

// Notifier delivers a message through one channel.
type Notifier interface {
	Send(ctx context.Context, message string) error
}

// NotifierFunc is an adapter to use an ordinary function as a Notifier.
type NotifierFunc func(ctx context.Context, message string) error

func (f NotifierFunc) Send(ctx context.Context, message string) error {
	return f(ctx, message)
}

type nop struct{}

// NewNop returns a Notifier that discards all messages.
func NewNop() Notifier {
	return &nop{}
}

func (n *nop) Send(ctx context.Context, message string) error {
	return nil
}
