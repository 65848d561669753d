package notify

import (
	"context"
	"sync"
)

// Kind distinguishes success toasts from error toasts.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notification is one user-facing toast.
type Notification struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Success builds a success notification.
func Success(msg string) Notification { return Notification{Kind: KindSuccess, Message: msg} }

// Error builds an error notification.
func Error(msg string) Notification { return Notification{Kind: KindError, Message: msg} }

// Notifier delivers notifications to the user.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification)

func (f NotifierFunc) Notify(ctx context.Context, n Notification) { f(ctx, n) }

// Discard drops every notification.
var Discard Notifier = NotifierFunc(func(context.Context, Notification) {})

// Multi fans a notification out to each non-nil notifier in order.
func Multi(notifiers ...Notifier) Notifier {
	return NotifierFunc(func(ctx context.Context, n Notification) {
		for _, target := range notifiers {
			if target != nil {
				target.Notify(ctx, n)
			}
		}
	})
}

// Collector keeps notifications in memory.
type Collector struct {
	mu    sync.Mutex
	items []Notification
}

func (c *Collector) Notify(_ context.Context, n Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, n)
}

// Items returns a copy of what has been collected.
func (c *Collector) Items() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Notification(nil), c.items...)
}

// Last returns the most recent notification.
func (c *Collector) Last() (Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.items) == 0 {
		return Notification{}, false
	}
	return c.items[len(c.items)-1], true
}
