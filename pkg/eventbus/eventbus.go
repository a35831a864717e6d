package eventbus

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event is anything published on the bus.
type Event interface {
	Name() string
}

// Listener handles one event. Returned errors are logged, never propagated to the publisher.
type Listener func(ctx context.Context, event Event) error

type Bus struct {
	listeners map[string][]Listener
	mu        sync.RWMutex
	wg        sync.WaitGroup
	timeout   time.Duration
	logger    *zap.Logger
}

func New(logger *zap.Logger) *Bus {
	return &Bus{
		listeners: make(map[string][]Listener),
		timeout:   time.Minute,
		logger:    logger,
	}
}

func (b *Bus) Subscribe(eventName string, listener Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[eventName] = append(b.listeners[eventName], listener)
}

// Publish runs every subscriber of the event in its own goroutine.
func (b *Bus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	eventName := event.Name()
	for _, listener := range b.listeners[eventName] {
		b.wg.Add(1)
		go func(l Listener) {
			defer b.wg.Done()
			defer func() {
				if p := recover(); p != nil {
					b.logger.Error("event listener panicked", zap.String("event", eventName), zap.Any("panic", p))
				}
			}()

			// Detached from the request: the listener must outlive the response.
			listenerCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.timeout)
			defer cancel()

			if err := l(listenerCtx, event); err != nil {
				b.logger.Error("event listener failed",
					zap.String("event", eventName),
					zap.Error(err),
				)
			}
		}(listener)
	}
}

// Wait blocks until every in-flight listener has returned.
func (b *Bus) Wait() {
	b.wg.Wait()
}
