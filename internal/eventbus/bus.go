package eventbus

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

type AnalysisEventHandler func(ctx context.Context, event AnalysisEvent) error

// Bus 进程内事件总线，按事件类型分发，同步调用所有订阅者
type Bus struct {
	mutex       sync.RWMutex
	subscribers map[AnalysisEventType]map[uint64]AnalysisEventHandler
	counter     uint64
}

func NewBus() *Bus {
	return &Bus{
		subscribers: make(map[AnalysisEventType]map[uint64]AnalysisEventHandler),
	}
}

// Subscribe 注册订阅者，返回取消订阅函数
func (b *Bus) Subscribe(eventType AnalysisEventType, handler AnalysisEventHandler) func() {
	if handler == nil {
		return func() {}
	}
	id := atomic.AddUint64(&b.counter, 1)
	b.mutex.Lock()
	if b.subscribers[eventType] == nil {
		b.subscribers[eventType] = make(map[uint64]AnalysisEventHandler)
	}
	b.subscribers[eventType][id] = handler
	b.mutex.Unlock()
	return func() {
		b.mutex.Lock()
		handlers, ok := b.subscribers[eventType]
		if ok {
			delete(handlers, id)
			if len(handlers) == 0 {
				delete(b.subscribers, eventType)
			}
		}
		b.mutex.Unlock()
	}
}

// Publish 同步分发事件，所有订阅者错误合并返回
func (b *Bus) Publish(ctx context.Context, event AnalysisEvent) error {
	b.mutex.RLock()
	handlersMap := b.subscribers[event.Type]
	handlers := make([]AnalysisEventHandler, 0, len(handlersMap))
	for _, handler := range handlersMap {
		handlers = append(handlers, handler)
	}
	b.mutex.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
