package workerpool

import (
	"context"
	"sync"
)

// Transformer maps one element. It is called from several goroutines at once
// and must be safe for that.
type Transformer[T, R any] func(ctx context.Context, current T) R

type Pool[T, R any] interface {
	// Transform applies transformer to every value read from input using the
	// given number of workers. Output order is not defined. The output channel
	// closes once input is drained or ctx is done.
	Transform(ctx context.Context, workers int, input <-chan T, transformer Transformer[T, R]) <-chan R

	// Map is Transform over a slice. The result keeps the order of values;
	// slots not reached before ctx is done hold the zero value.
	Map(ctx context.Context, workers int, values []T, transformer Transformer[T, R]) []R
}

type poolImpl[T, R any] struct{}

func New[T, R any]() *poolImpl[T, R] {
	return &poolImpl[T, R]{}
}

// generator feeds values into a channel until they end or ctx is done.
func generator[T any](ctx context.Context, values []T) <-chan T {
	out := make(chan T)

	go func() {
		defer close(out)
		for _, v := range values {
			select {
			case <-ctx.Done():
				return
			case out <- v:
			}
		}
	}()

	return out
}

func (p *poolImpl[T, R]) Transform(
	ctx context.Context,
	workers int,
	input <-chan T,
	transformer Transformer[T, R],
) <-chan R {
	return transform(ctx, workers, input, transformer)
}

// transform is the worker loop behind Transform and Map.
func transform[T, R any](
	ctx context.Context,
	workers int,
	input <-chan T,
	transformer Transformer[T, R],
) <-chan R {
	out := make(chan R)
	wg := sync.WaitGroup{}

	for range max(workers, 1) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case v, ok := <-input:
					if !ok {
						return
					}

					select {
					case <-ctx.Done():
						return
					case out <- transformer(ctx, v):
					}
				}
			}
		}()
	}

	go func() {
		defer close(out)
		wg.Wait()
	}()

	return out
}

type indexed[T any] struct {
	pos   int
	value T
}

func (p *poolImpl[T, R]) Map(ctx context.Context, workers int, values []T, transformer Transformer[T, R]) []R {
	in := make([]indexed[T], len(values))
	for i, v := range values {
		in[i] = indexed[T]{pos: i, value: v}
	}

	out := transform(ctx, workers, generator(ctx, in), func(ctx context.Context, v indexed[T]) indexed[R] {
		return indexed[R]{pos: v.pos, value: transformer(ctx, v.value)}
	})

	result := make([]R, len(values))
	for r := range out {
		result[r.pos] = r.value
	}

	return result
}
