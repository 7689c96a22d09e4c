package workerpool

import (
	"context"
	"slices"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransform(t *testing.T) {
	t.Parallel()

	p := New[int, int]()
	out := p.Transform(context.Background(), 3, generator(context.Background(), []int{1, 2, 3, 4}),
		func(_ context.Context, v int) int { return v * v })

	got := make([]int, 0, 4)
	for v := range out {
		got = append(got, v)
	}
	slices.Sort(got)
	require.Equal(t, []int{1, 4, 9, 16}, got)
}

func TestMapKeepsOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		workers int
		values  []string
	}{
		{name: "empty", workers: 4, values: nil},
		{name: "single worker", workers: 1, values: []string{"a", "b", "c"}},
		{name: "more workers than values", workers: 8, values: []string{"x", "y"}},
		{name: "zero workers", workers: 0, values: []string{"a", "bb"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var calls atomic.Int32
			p := New[string, int]()
			got := p.Map(context.Background(), tt.workers, tt.values, func(_ context.Context, s string) int {
				calls.Add(1)
				return len(s)
			})

			want := make([]int, len(tt.values))
			for i, s := range tt.values {
				want[i] = len(s)
			}
			require.Equal(t, want, got)
			require.Equal(t, int32(len(tt.values)), calls.Load())
		})
	}
}

func TestMapCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New[int, int]()
	got := p.Map(ctx, 2, []int{1, 2, 3}, func(_ context.Context, v int) int { return v })
	require.Len(t, got, 3)
}

type shelf struct {
	id     string
	copies int
}

func TestMapStructsThroughInterface(t *testing.T) {
	t.Parallel()

	var p Pool[shelf, bool] = New[shelf, bool]()

	values := []shelf{{"a", 0}, {"b", 2}, {"c", 1}, {"d", 0}}
	got := p.Map(context.Background(), 3, values, func(_ context.Context, s shelf) bool {
		return s.copies > 0
	})
	require.Equal(t, []bool{false, true, true, false}, got)

	out := transform(context.Background(), 2, generator(context.Background(), values),
		func(_ context.Context, s shelf) string { return s.id })
	ids := make([]string, 0, len(values))
	for id := range out {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	require.Equal(t, []string{"a", "b", "c", "d"}, ids)
}
