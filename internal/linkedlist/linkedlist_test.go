package linkedlist

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestList(t *testing.T) {
	t.Parallel()

	l := New[int]()
	require.Nil(t, l.Front())
	require.Nil(t, l.PopBack())

	two := l.PushBack(2)
	l.PushFront(1)
	l.PushBack(3)
	require.Equal(t, []int{1, 2, 3}, slices.Collect(l.All()))

	other := New[int]()
	other.MoveToFront(two, l)
	require.Equal(t, []int{1, 3}, slices.Collect(l.All()))
	require.Equal(t, []int{2}, slices.Collect(other.All()))
	require.Nil(t, two.Prev(other))
	require.Nil(t, two.Next(other))

	require.Equal(t, 3, l.PopBack().Data)
	require.Equal(t, 1, l.Size())
}
