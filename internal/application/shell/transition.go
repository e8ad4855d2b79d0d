package shell

import (
	"context"
	"sync"
)

// Transition tracks one navigation. Synchronous routes are done when
// Navigate returns; the weather route is done once its fetch settles.
type Transition struct {
	Path       string
	Generation uint64

	once sync.Once
	done chan struct{}
	err  error
}

func newTransition(path string, generation uint64) *Transition {
	return &Transition{
		Path:       path,
		Generation: generation,
		done:       make(chan struct{}),
	}
}

// Settled returns an already finished transition for a request that needed no
// navigation. It is not recorded in the history.
func Settled(path string) *Transition {
	return newTransition(path, 0).finish(nil)
}

func (t *Transition) finish(err error) *Transition {
	t.once.Do(func() {
		t.err = err
		close(t.done)
	})
	return t
}

// Done is closed when the navigation has settled.
func (t *Transition) Done() <-chan struct{} {
	return t.done
}

// Err reports why the navigation did not mount its screen. Only meaningful after Done.
func (t *Transition) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

// Wait blocks until the navigation settles or ctx ends.
func (t *Transition) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
