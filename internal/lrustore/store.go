package lrustore

import (
	"container/list"
	"time"
)

// Store is a bounded ordered map from key to value with LRU eviction and
// optional lazy TTL expiry.
//
// The map gives O(1) key lookup and a doubly-linked list maintains recency
// ordering: front is most recently used, back is least recently used.
//
// Store performs no locking of its own. The owning cache serializes all
// access; this keeps the store trivially correct and lets the cache hold a
// single critical section across store and in-flight registry updates.
type Store struct {
	maxSize int
	ttl     time.Duration

	items map[string]*list.Element
	order *list.List
}

// entry is the value stored in the recency list nodes. The key lives here
// because eviction starts from list nodes, not from the map.
type entry struct {
	key      string
	value    any
	storedAt time.Time
}

// New constructs a store bounded to maxSize entries. A ttl of zero disables
// expiry. maxSize must be positive; the caller validates configuration.
func New(maxSize int, ttl time.Duration) *Store {
	return &Store{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*list.Element),
		order:   list.New(),
	}
}

// Get returns the value for key if present and fresh at the given time.
// A hit promotes the entry to most-recently-used. An entry whose age has
// reached the TTL is removed and reported absent; there is no background
// sweeper.
func (s *Store) Get(key string, now time.Time) (any, bool) {
	el, ok := s.items[key]
	if !ok {
		return nil, false
	}

	e := el.Value.(*entry)
	if s.ttl > 0 && now.Sub(e.storedAt) >= s.ttl {
		s.removeElement(el)
		return nil, false
	}

	s.order.MoveToFront(el)
	return e.value, true
}

// Put inserts or overwrites key at the most-recently-used position with a
// fresh timestamp. If the store now exceeds its capacity, the single
// least-recently-used entry is evicted; a write grows the store by at most
// one entry, so one eviction always restores the bound. Returns true when
// an eviction happened.
func (s *Store) Put(key string, value any, now time.Time) bool {
	if el, ok := s.items[key]; ok {
		e := el.Value.(*entry)
		e.value = value
		e.storedAt = now
		s.order.MoveToFront(el)
		return false
	}

	el := s.order.PushFront(&entry{key: key, value: value, storedAt: now})
	s.items[key] = el

	if len(s.items) > s.maxSize {
		if back := s.order.Back(); back != nil {
			s.removeElement(back)
			return true
		}
	}
	return false
}

// Remove deletes key if present and reports whether an entry was removed.
func (s *Store) Remove(key string) bool {
	el, ok := s.items[key]
	if !ok {
		return false
	}
	s.removeElement(el)
	return true
}

// Clear drops every entry.
func (s *Store) Clear() {
	s.items = make(map[string]*list.Element)
	s.order.Init()
}

// Len returns the number of resident entries, including entries that have
// expired but not yet been touched.
func (s *Store) Len() int {
	return len(s.items)
}

// Keys returns resident keys in MRU to LRU order. Debug helper.
func (s *Store) Keys() []string {
	out := make([]string, 0, s.order.Len())
	for el := s.order.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(*entry).key)
	}
	return out
}

func (s *Store) removeElement(el *list.Element) {
	e := el.Value.(*entry)
	delete(s.items, e.key)
	s.order.Remove(el)
}
