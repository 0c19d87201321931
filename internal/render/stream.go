package render

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// Stream runs the walk on a producer goroutine and hands each line to
// consume in order, without retaining earlier lines. Cancelling the
// context stops both sides; a consumer error propagates back and halts
// the traversal at the next emitted line.
func Stream(ctx context.Context, renderer *Renderer, consume EmitFunc) error {
	if ctx == nil {
		ctx = context.Background()
	}
	group, streamCtx := errgroup.WithContext(ctx)
	lines := make(chan string)

	group.Go(func() error {
		defer close(lines)
		return renderer.Walk(func(line string) error {
			select {
			case <-streamCtx.Done():
				return streamCtx.Err()
			case lines <- line:
				return nil
			}
		})
	})

	group.Go(func() error {
		for {
			select {
			case <-streamCtx.Done():
				return streamCtx.Err()
			case line, open := <-lines:
				if !open {
					return nil
				}
				if consumeError := consume(line); consumeError != nil {
					return consumeError
				}
			}
		}
	})

	if waitError := group.Wait(); waitError != nil && !errors.Is(waitError, context.Canceled) {
		return waitError
	}
	return nil
}
