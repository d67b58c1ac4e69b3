// Package notify broadcasts live activity snapshot events from the tracker
// to whoever subscribed for the current session.
package notify

import (
	"sync"
	"time"

	"github.com/goaltrack/goaltrack/internal/models"
)

// Handler receives one live snapshot event: the category the user just
// switched to and when. Handlers run on the publisher's goroutine and must
// not mutate rule or cache state; they log or forward only.
type Handler func(category models.Category, at time.Time)

// Notifier is a single-subscriber snapshot broadcaster. Publish may be
// called from any goroutine; Subscribe replaces the previous handler and
// Unsubscribe is a no-op when nothing is subscribed.
type Notifier struct {
	mu      sync.RWMutex
	handler Handler
}

// New creates a notifier with no subscriber.
func New() *Notifier {
	return &Notifier{}
}

// Subscribe installs the handler for subsequent events.
func (n *Notifier) Subscribe(handler Handler) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handler = handler
}

// Unsubscribe removes the current handler, if any.
func (n *Notifier) Unsubscribe() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handler = nil
}

// Subscribed reports whether a handler is currently installed.
func (n *Notifier) Subscribed() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.handler != nil
}

// Publish delivers one snapshot event to the subscriber, if any.
func (n *Notifier) Publish(category models.Category, at time.Time) {
	n.mu.RLock()
	handler := n.handler
	n.mu.RUnlock()
	if handler != nil {
		handler(category, at)
	}
}
