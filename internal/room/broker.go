// Package room implements the per-room multicast groups used for
// real-time message fan-out. Rooms are pure in-memory live state: joining
// a room says nothing about chat membership, and leaving the last
// subscriber releases the room entirely.
package room

import (
	"log/slog"
	"sync"
)

// Subscriber is one live connection's membership in a room. Payloads are
// delivered on a bounded channel; a subscriber that stops draining it is
// cut off rather than allowed to stall the room.
type Subscriber struct {
	room string
	out  chan []byte
	once sync.Once
}

// Out is the subscriber's delivery channel. It is closed when the
// subscriber leaves or is disconnected for falling behind.
func (s *Subscriber) Out() <-chan []byte {
	return s.out
}

func (s *Subscriber) Room() string {
	return s.room
}

func (s *Subscriber) close() {
	s.once.Do(func() { close(s.out) })
}

type group struct {
	mu   sync.Mutex
	subs map[*Subscriber]struct{}
}

// Broker owns the room registry. The broker lock only guards the
// room-to-group map; deliveries serialize on the group's own mutex, so
// traffic in one room never blocks another.
type Broker struct {
	mu     sync.RWMutex
	groups map[string]*group
	buffer int
	log    *slog.Logger
}

func NewBroker(buffer int, log *slog.Logger) *Broker {
	if buffer < 1 {
		buffer = 1
	}
	return &Broker{
		groups: make(map[string]*group),
		buffer: buffer,
		log:    log,
	}
}

// Join adds a new subscriber to the room, creating the room on first join.
// The subscriber is inserted while the broker lock is still held: a
// concurrent Leave of the room's last member deletes the group from the
// registry, and adding to that group after the fact would strand the
// subscriber in an object no Publish can reach.
func (b *Broker) Join(roomID string) *Subscriber {
	sub := &Subscriber{room: roomID, out: make(chan []byte, b.buffer)}

	b.mu.Lock()
	g, ok := b.groups[roomID]
	if !ok {
		g = &group{subs: make(map[*Subscriber]struct{})}
		b.groups[roomID] = g
	}
	g.mu.Lock()
	g.subs[sub] = struct{}{}
	g.mu.Unlock()
	b.mu.Unlock()
	return sub
}

// Leave removes the subscriber and closes its channel. The room is
// released once its last subscriber is gone. Safe to call more than once.
func (b *Broker) Leave(sub *Subscriber) {
	b.mu.Lock()
	g, ok := b.groups[sub.room]
	if ok {
		g.mu.Lock()
		delete(g.subs, sub)
		if len(g.subs) == 0 {
			delete(b.groups, sub.room)
		}
		g.mu.Unlock()
	}
	b.mu.Unlock()
	sub.close()
}

// Publish delivers payload to every subscriber currently in the room and
// reports how many received it. Publishes to one room are totally ordered
// by the group mutex. A subscriber whose backlog is full is forcibly
// disconnected instead of blocking the publisher or its roommates.
func (b *Broker) Publish(roomID string, payload []byte) int {
	b.mu.RLock()
	g, ok := b.groups[roomID]
	b.mu.RUnlock()
	if !ok {
		return 0
	}

	var kicked []*Subscriber
	delivered := 0
	g.mu.Lock()
	for sub := range g.subs {
		select {
		case sub.out <- payload:
			delivered++
		default:
			kicked = append(kicked, sub)
		}
	}
	for _, sub := range kicked {
		delete(g.subs, sub)
		sub.close()
	}
	empty := len(g.subs) == 0
	g.mu.Unlock()

	if len(kicked) > 0 {
		b.log.Warn("dropped slow room subscribers", "room", roomID, "count", len(kicked))
	}
	if empty {
		b.release(roomID, g)
	}
	return delivered
}

// Subscribers reports the current size of a room, zero if it doesn't exist.
func (b *Broker) Subscribers(roomID string) int {
	b.mu.RLock()
	g, ok := b.groups[roomID]
	b.mu.RUnlock()
	if !ok {
		return 0
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.subs)
}

// Rooms reports how many rooms currently hold subscribers.
func (b *Broker) Rooms() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.groups)
}

func (b *Broker) release(roomID string, g *group) {
	b.mu.Lock()
	defer b.mu.Unlock()
	current, ok := b.groups[roomID]
	if !ok || current != g {
		return
	}
	g.mu.Lock()
	empty := len(g.subs) == 0
	g.mu.Unlock()
	if empty {
		delete(b.groups, roomID)
	}
}
