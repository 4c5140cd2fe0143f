package cache

import (
	"sync"

	"github.com/Lee-sungheon/Loopin/internal/model"
)

type EventType string

const (
	EventReplaced EventType = "replaced"
	EventInserted EventType = "inserted"
	EventUpdated  EventType = "updated"
	EventRemoved  EventType = "removed"
)

type Event struct {
	Category model.Category `json:"category"`
	Type     EventType      `json:"type"`
	// PostID is zero for EventReplaced.
	PostID int64 `json:"post_id"`
}

// List is the local, non-authoritative copy of one post table.
// Readers only ever receive clones, so callers cannot mutate cached rows through a reference.
type List[T model.Post] struct {
	mu          sync.RWMutex
	category    model.Category
	newestFirst bool
	items       []T

	subsMu  sync.Mutex
	subs    map[int]chan Event
	nextSub int
}

func NewList[T model.Post](newestFirst bool) *List[T] {
	return &List[T]{
		category:    model.KindOf[T](),
		newestFirst: newestFirst,
		items:       []T{},
		subs:        make(map[int]chan Event),
	}
}

func (l *List[T]) Category() model.Category {
	return l.category
}

func (l *List[T]) Replace(items []T) {
	cloned := make([]T, 0, len(items))
	for _, item := range items {
		cloned = append(cloned, own(item))
	}

	l.mu.Lock()
	l.items = cloned
	l.mu.Unlock()

	l.notify(Event{Type: EventReplaced})
}

func (l *List[T]) Snapshot() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]T, 0, len(l.items))
	for _, item := range l.items {
		out = append(out, own(item))
	}
	return out
}

func (l *List[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

func (l *List[T]) Get(id int64) (T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	i := l.indexOf(id)
	if i < 0 {
		var zero T
		return zero, false
	}

	return own(l.items[i]), true
}

// Insert places item at the head for newest-first lists and at the tail otherwise.
// An item with an id already present replaces it in place.
func (l *List[T]) Insert(item T) {
	item = own(item)

	l.mu.Lock()
	if i := l.indexOf(item.PostID()); i >= 0 {
		l.items[i] = item
		l.mu.Unlock()
		l.notify(Event{Type: EventUpdated, PostID: item.PostID()})
		return
	}

	if l.newestFirst {
		l.items = append([]T{item}, l.items...)
	} else {
		l.items = append(l.items, item)
	}
	l.mu.Unlock()

	l.notify(Event{Type: EventInserted, PostID: item.PostID()})
}

// Put overwrites the cached row with the same id. It reports false when no such row is cached.
func (l *List[T]) Put(item T) bool {
	item = own(item)

	l.mu.Lock()
	i := l.indexOf(item.PostID())
	if i < 0 {
		l.mu.Unlock()
		return false
	}
	l.items[i] = item
	l.mu.Unlock()

	l.notify(Event{Type: EventUpdated, PostID: item.PostID()})
	return true
}

func (l *List[T]) Remove(id int64) bool {
	l.mu.Lock()
	i := l.indexOf(id)
	if i < 0 {
		l.mu.Unlock()
		return false
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	l.mu.Unlock()

	l.notify(Event{Type: EventRemoved, PostID: id})
	return true
}

// Mutate applies fn to the cached row in place and returns a deep copy taken before the change.
// If fn fails the row is left as it was.
func (l *List[T]) Mutate(id int64, fn func(*T) error) (T, bool, error) {
	var zero T

	l.mu.Lock()
	i := l.indexOf(id)
	if i < 0 {
		l.mu.Unlock()
		return zero, false, nil
	}

	snapshot, err := Clone(l.items[i])
	if err != nil {
		l.mu.Unlock()
		return zero, true, err
	}

	working, err := Clone(l.items[i])
	if err != nil {
		l.mu.Unlock()
		return zero, true, err
	}
	if err := fn(&working); err != nil {
		l.mu.Unlock()
		return zero, true, err
	}
	l.items[i] = working
	l.mu.Unlock()

	l.notify(Event{Type: EventUpdated, PostID: id})
	return snapshot, true, nil
}

// Subscribe returns a channel of change events and a func that cancels the subscription.
// Events are dropped for subscribers whose buffer is full; they can resync from Snapshot.
func (l *List[T]) Subscribe(buffer int) (<-chan Event, func()) {
	ch := make(chan Event, buffer)

	l.subsMu.Lock()
	id := l.nextSub
	l.nextSub++
	l.subs[id] = ch
	l.subsMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			l.subsMu.Lock()
			delete(l.subs, id)
			l.subsMu.Unlock()
			close(ch)
		})
	}

	return ch, cancel
}

func (l *List[T]) notify(e Event) {
	e.Category = l.category

	l.subsMu.Lock()
	defer l.subsMu.Unlock()

	for _, ch := range l.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

func (l *List[T]) indexOf(id int64) int {
	for i, item := range l.items {
		if item.PostID() == id {
			return i
		}
	}
	return -1
}

// own clones item, falling back to the value itself if the copy fails.
func own[T any](item T) T {
	c, err := Clone(item)
	if err != nil {
		return item
	}
	return c
}
