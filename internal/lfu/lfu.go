// Package lfu is a least frequently used cache. Ties between keys with the
// same frequency are broken by recency: the least recently used key goes
// first.
package lfu

import (
	"errors"
	"iter"
	"sync"

	"github.com/project/circulation/internal/linkedlist"
)

var ErrKeyNotFound = errors.New("key not found")

const DefaultCapacity = 5

type Cache[K comparable, V any] interface {
	// Get returns the value and bumps its frequency, or ErrKeyNotFound. O(1).
	Get(key K) (V, error)

	// Put inserts or updates the key, evicting the least frequently used key
	// when full. O(1).
	Put(key K, value V)

	// All iterates from the most to the least frequent key, most recent first
	// inside a frequency.
	All() iter.Seq2[K, V]

	// Purge drops every key.
	Purge()

	Size() int
	Capacity() int
	GetKeyFrequency(key K) (int, error)
}

type bucket[K comparable, V any] struct {
	entries   linkedlist.List[entry[K, V]]
	frequency int
}

func newBucket[K comparable, V any](frequency int) *bucket[K, V] {
	return &bucket[K, V]{
		entries:   linkedlist.New[entry[K, V]](),
		frequency: frequency,
	}
}

type entry[K comparable, V any] struct {
	key    K
	val    V
	bucket *linkedlist.Node[*bucket[K, V]]
}

// cache keeps buckets ordered from the highest frequency at the front to the
// lowest at the back. The back bucket always exists.
type cache[K comparable, V any] struct {
	buckets  linkedlist.List[*bucket[K, V]]
	index    map[K]*linkedlist.Node[entry[K, V]]
	capacity int
	size     int
}

// New builds a cache of the given capacity, DefaultCapacity when omitted.
func New[K comparable, V any](capacity ...int) *cache[K, V] {
	c := DefaultCapacity
	if len(capacity) > 0 {
		c = capacity[0]
		if c < 0 {
			panic("lfu: negative capacity")
		}
	}

	l := &cache[K, V]{capacity: c}
	l.Purge()
	return l
}

func (l *cache[K, V]) Purge() {
	l.buckets = linkedlist.New[*bucket[K, V]]()
	l.buckets.PushBack(newBucket[K, V](1))
	l.index = make(map[K]*linkedlist.Node[entry[K, V]], l.capacity)
	l.size = 0
}

func (l *cache[K, V]) touch(node *linkedlist.Node[entry[K, V]]) {
	home := node.Data.bucket
	current := home.Data.entries
	frequency := home.Data.frequency

	higher := home.Prev(l.buckets)
	switch {
	case higher != nil && higher.Data.frequency == frequency+1:
		higher.Data.entries.MoveToFront(node, current)
		node.Data.bucket = higher
	case current.Size() == 1:
		home.Data.frequency++
	default:
		b := newBucket[K, V](frequency + 1)
		b.entries.MoveToFront(node, current)
		node.Data.bucket = l.buckets.PushBefore(home, b)
	}

	if current.Size() == 0 {
		l.buckets.Remove(home)
	}
}

func (l *cache[K, V]) Get(key K) (V, error) {
	node, ok := l.index[key]
	if !ok {
		var zero V
		return zero, ErrKeyNotFound
	}
	l.touch(node)
	return node.Data.val, nil
}

func (l *cache[K, V]) Put(key K, value V) {
	if node, ok := l.index[key]; ok {
		node.Data.val = value
		l.touch(node)
		return
	}
	if l.capacity == 0 {
		return
	}

	lowest := l.buckets.Back().Data
	if l.size == l.capacity {
		delete(l.index, lowest.entries.PopBack().Data.key)
	} else {
		l.size++
	}

	if lowest.frequency > 1 {
		if lowest.entries.Size() > 0 {
			lowest = newBucket[K, V](1)
			l.buckets.PushBack(lowest)
		} else {
			lowest.frequency = 1
		}
	}

	l.index[key] = lowest.entries.PushFront(entry[K, V]{key: key, val: value, bucket: l.buckets.Back()})
}

func (l *cache[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for b := range l.buckets.All() {
			for e := range b.entries.All() {
				if !yield(e.key, e.val) {
					return
				}
			}
		}
	}
}

func (l *cache[K, V]) Size() int {
	return l.size
}

func (l *cache[K, V]) Capacity() int {
	return l.capacity
}

func (l *cache[K, V]) GetKeyFrequency(key K) (int, error) {
	node, ok := l.index[key]
	if !ok {
		return 0, ErrKeyNotFound
	}
	return node.Data.bucket.Data.frequency, nil
}

// Synced guards a Cache with a mutex. Get mutates frequencies, so reads take
// the write lock too.
type Synced[K comparable, V any] struct {
	mu    sync.Mutex
	cache Cache[K, V]
}

func NewSynced[K comparable, V any](capacity int) *Synced[K, V] {
	return &Synced[K, V]{cache: New[K, V](capacity)}
}

func (s *Synced[K, V]) Get(key K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.cache.Get(key)
	return v, err == nil
}

func (s *Synced[K, V]) Put(key K, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Put(key, value)
}

func (s *Synced[K, V]) Purge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Purge()
}

func (s *Synced[K, V]) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Size()
}
