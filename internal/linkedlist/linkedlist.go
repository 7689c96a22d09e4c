// Package linkedlist is a circular doubly linked list with a sentinel head.
// Nodes can be moved between lists without allocation, which the LFU cache
// relies on to bump an entry's frequency in O(1).
package linkedlist

import (
	"iter"
)

type List[T any] interface {
	PushBack(value T) *Node[T]
	PushFront(value T) *Node[T]

	// MoveToFront detaches node from owner and links it right after this
	// list's head. owner may be this list. node must belong to owner.
	MoveToFront(node *Node[T], owner List[T])

	// PushBefore inserts value in front of node, which must belong to this list.
	PushBefore(node *Node[T], value T) *Node[T]

	// Remove unlinks node, which must belong to this list.
	Remove(node *Node[T])

	// PopBack unlinks and returns the last node, nil when empty.
	PopBack() *Node[T]

	Size() int
	Front() *Node[T]
	Back() *Node[T]

	// All yields values from Front to Back.
	All() iter.Seq[T]
}

type Node[T any] struct {
	prev *Node[T]
	next *Node[T]
	Data T
}

func newNode[T any](data T) *Node[T] {
	n := &Node[T]{Data: data}
	n.prev, n.next = n, n
	return n
}

// Prev returns the neighbour closer to the front, nil for the first node.
func (n *Node[T]) Prev(owner List[T]) *Node[T] {
	if owner.Front() == n {
		return nil
	}
	return n.prev
}

// Next returns the neighbour closer to the back, nil for the last node.
func (n *Node[T]) Next(owner List[T]) *Node[T] {
	if owner.Back() == n {
		return nil
	}
	return n.next
}

func link[T any](left, right *Node[T]) {
	if left != nil {
		left.next = right
	}
	if right != nil {
		right.prev = left
	}
}

type list[T any] struct {
	head *Node[T]
	size int
}

func New[T any]() *list[T] {
	var zero T
	return &list[T]{head: newNode(zero)}
}

func (l *list[T]) PushBefore(node *Node[T], value T) *Node[T] {
	n := newNode(value)
	link(node.prev, n)
	link(n, node)
	l.size++
	return n
}

func (l *list[T]) PushBack(value T) *Node[T] {
	return l.PushBefore(l.head, value)
}

func (l *list[T]) PushFront(value T) *Node[T] {
	return l.PushBefore(l.head.next, value)
}

func (l *list[T]) MoveToFront(node *Node[T], owner List[T]) {
	first := l.head.next
	if first == node {
		return
	}

	owner.Remove(node)
	link(l.head, node)
	link(node, first)
	l.size++
}

func (l *list[T]) Remove(node *Node[T]) {
	link(node.prev, node.next)
	l.size--
}

func (l *list[T]) PopBack() *Node[T] {
	last := l.Back()
	if last == nil {
		return nil
	}
	l.Remove(last)
	return last
}

func (l *list[T]) Size() int {
	return l.size
}

func (l *list[T]) Front() *Node[T] {
	if l.size == 0 {
		return nil
	}
	return l.head.next
}

func (l *list[T]) Back() *Node[T] {
	if l.size == 0 {
		return nil
	}
	return l.head.prev
}

func (l *list[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		cur := l.head
		for range l.size {
			cur = cur.Next(l)
			if !yield(cur.Data) {
				return
			}
		}
	}
}
