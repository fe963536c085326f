// Package events carries the "progress changed" signal to every open view.
package events

import "sync"

// Token identifies a subscription
type Token uint64

type subscriber struct {
	token   Token
	handler func()
}

// Bus is a synchronous publish/subscribe channel with a single topic and no
// payload. Handlers run in subscription order on the publishing goroutine.
// Nothing is replayed to late subscribers.
type Bus struct {
	mu   sync.Mutex
	next Token
	subs []subscriber
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers handler and returns the token that removes it.
func (b *Bus) Subscribe(handler func()) Token {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	b.subs = append(b.subs, subscriber{token: b.next, handler: handler})
	return b.next
}

// Unsubscribe removes a subscription. Unknown tokens are ignored.
func (b *Bus) Unsubscribe(token Token) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.token == token {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish calls every handler subscribed when Publish began. Handlers may
// subscribe or unsubscribe; the change applies from the next Publish.
func (b *Bus) Publish() {
	b.mu.Lock()
	handlers := make([]func(), len(b.subs))
	for i, s := range b.subs {
		handlers[i] = s.handler
	}
	b.mu.Unlock()

	for _, h := range handlers {
		h()
	}
}

// Len returns the number of live subscriptions.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
