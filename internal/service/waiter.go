package service

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultWaitTimeout is the longest a client waits for a change
const DefaultWaitTimeout = 25 * time.Second

// WaitRegistry manages long-polling clients waiting for game state changes
type WaitRegistry struct {
	mu       sync.Mutex
	timeout  time.Duration
	waiters  map[string][]*waitRequest // gameID → waiting clients
	shutdown chan struct{}
	closed   bool
	wg       sync.WaitGroup
}

// waitRequest is one parked client. notify is closed exactly once, by
// whichever release happens first.
type waitRequest struct {
	moveCount int
	notify    chan struct{}
	once      sync.Once
	timer     *time.Timer
}

func (r *waitRequest) fire() {
	r.once.Do(func() { close(r.notify) })
}

func NewWaitRegistry(timeout time.Duration) *WaitRegistry {
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}
	return &WaitRegistry{
		timeout:  timeout,
		waiters:  make(map[string][]*waitRequest),
		shutdown: make(chan struct{}),
	}
}

// RegisterWait parks a client that has seen moveCount moves. The returned
// channel is closed when the game changes, the wait times out, the game is
// deleted or the registry shuts down. Cancelling ctx releases the waiter.
func (w *WaitRegistry) RegisterWait(ctx context.Context, gameID string, moveCount int) <-chan struct{} {
	req := &waitRequest{
		moveCount: moveCount,
		notify:    make(chan struct{}),
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		req.fire()
		return req.notify
	}

	req.timer = time.AfterFunc(w.timeout, req.fire)
	w.waiters[gameID] = append(w.waiters[gameID], req)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		select {
		case <-ctx.Done():
			req.fire()
		case <-req.notify:
		case <-w.shutdown:
			req.fire()
		}
		req.timer.Stop()
		w.removeWaiter(gameID, req)
	}()

	return req.notify
}

// NotifyGame wakes every waiter whose known move count differs
func (w *WaitRegistry) NotifyGame(gameID string, currentMoveCount int) {
	w.mu.Lock()
	waitList := append([]*waitRequest(nil), w.waiters[gameID]...)
	w.mu.Unlock()

	for _, req := range waitList {
		if req.moveCount != currentMoveCount {
			req.fire()
		}
	}
}

// RemoveGame wakes and drops all waiters of a deleted game
func (w *WaitRegistry) RemoveGame(gameID string) {
	w.mu.Lock()
	waitList := w.waiters[gameID]
	delete(w.waiters, gameID)
	w.mu.Unlock()

	for _, req := range waitList {
		req.fire()
	}
}

// Waiting returns the number of parked clients on a game
func (w *WaitRegistry) Waiting(gameID string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.waiters[gameID])
}

// Shutdown releases every waiter and waits for their goroutines
func (w *WaitRegistry) Shutdown(timeout time.Duration) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.shutdown)
	}
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("wait registry shutdown timed out after %v", timeout)
	}
}

func (w *WaitRegistry) removeWaiter(gameID string, req *waitRequest) {
	w.mu.Lock()
	defer w.mu.Unlock()

	waitList := w.waiters[gameID]
	for i, waiter := range waitList {
		if waiter == req {
			w.waiters[gameID] = append(waitList[:i], waitList[i+1:]...)
			break
		}
	}

	if len(w.waiters[gameID]) == 0 {
		delete(w.waiters, gameID)
	}
}
