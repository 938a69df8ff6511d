package lock

import (
	"context"
	"fmt"
	"sync"
)

// LocalLocker is an in-process Locker for single-instance deployments.
type LocalLocker struct {
	mu   sync.Mutex
	keys map[string]chan struct{}
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{keys: map[string]chan struct{}{}}
}

func (l *LocalLocker) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.keys[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.keys[key] = ch
	}
	return ch
}

func (l *LocalLocker) Obtain(ctx context.Context, key string) (Lease, error) {
	ch := l.slot(key)
	select {
	case ch <- struct{}{}:
		return &localLease{ch: ch}, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %s: %v", ErrNotObtained, key, ctx.Err())
	}
}

type localLease struct {
	once sync.Once
	ch   chan struct{}
}

func (l *localLease) Release(context.Context) error {
	l.once.Do(func() { <-l.ch })
	return nil
}
