package events

import (
	"log"
	"sync"
)

type Type string

const (
	PaymentReceived    Type = "payment.received"
	ChargeFailed       Type = "charge.failed"
	ChargeRefunded     Type = "charge.refunded"
	DisputeCreated     Type = "dispute.created"
	SubProviderInvited Type = "subprovider.invited"
)

// ChargeEvent carries the fields notification channels need. Emitters fill
// what they have; empty fields are skipped by the subscribers.
type ChargeEvent struct {
	ChargeID     string
	EnrollmentID string
	ServiceName  string
	Amount       string
	ClientName   string
	ClientEmail  string
	ClientPhone  string
	ProviderMail string
	Reason       string
}

type Event struct {
	Type    Type
	Payload ChargeEvent
}

var (
	mu       sync.RWMutex
	handlers []func(Event)
	ch       chan Event
	once     sync.Once
)

// Start launches the dispatch loop. Safe to call more than once.
func Start() {
	once.Do(func() {
		ch = make(chan Event, 128)
		go func() {
			for e := range ch {
				mu.RLock()
				subs := handlers
				mu.RUnlock()
				for _, fn := range subs {
					fn(e)
				}
			}
		}()
	})
}

// Subscribe registers a handler for every emitted event.
func Subscribe(fn func(Event)) {
	mu.Lock()
	handlers = append(handlers, fn)
	mu.Unlock()
}

// Emit queues an event for delivery off the request path. Events are dropped
// when the queue is full rather than blocking a write.
func Emit(e Event) {
	if ch == nil {
		return
	}
	select {
	case ch <- e:
	default:
		log.Printf("Warning: event queue full, dropping %s", e.Type)
	}
}
