package storage

import (
	"context"
	"log/slog"
	"sync"
)

type subscription struct {
	cancel  context.CancelFunc
	release func() error
	once    sync.Once
	err     error
}

func (s *subscription) Close() error {
	s.once.Do(func() {
		s.cancel()
		if s.release != nil {
			s.err = s.release()
		}
	})
	return s.err
}

// startPump delivers a fresh snapshot up front and then once per burst of
// notifications. Queued notifications are coalesced since every delivery is
// a full snapshot.
func startPump[T any](
	ctx context.Context,
	path string,
	notify <-chan T,
	read func(ctx context.Context) (Snapshot, error),
	onChange func(Snapshot),
	release func() error,
) *subscription {
	ctx, cancel := context.WithCancel(ctx)
	sub := &subscription{cancel: cancel, release: release}

	deliver := func() {
		snap, err := read(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			slog.Error("subscription read failed", "path", path, "error", err)
			return
		}
		onChange(snap)
	}

	go func() {
		deliver()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-notify:
				if !ok {
					return
				}
				for len(notify) > 0 {
					<-notify
				}
				deliver()
			}
		}
	}()

	return sub
}
