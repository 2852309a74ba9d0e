package events

import (
	"sync"

	"tinybot/internal/logger"
)

// DefaultBuffer 是每个订阅者通道的默认缓存大小。
const DefaultBuffer = 32

var log = logger.Named("events")

// Bus 是动作事件的简单发布订阅，慢订阅者的事件会被丢弃。
type Bus struct {
	mu      sync.Mutex
	subs    []chan Event
	buffer  int
	closed  bool
	dropped int
}

// NewBus 创建总线；buffer <= 0 时使用 DefaultBuffer。
func NewBus(buffer int) *Bus {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Bus{buffer: buffer}
}

// Subscribe 返回事件通道，Close 时关闭。
func (b *Bus) Subscribe() <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}
	ch := make(chan Event, b.buffer)
	b.subs = append(b.subs, ch)
	return ch
}

// Publish never blocks.
func (b *Bus) Publish(evt Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- evt:
		default:
			b.dropped++
			log.WithField("type", evt.Type).Debug("dropped event for slow subscriber")
		}
	}
}

// Dropped 返回因订阅者过慢而丢弃的事件数。
func (b *Bus) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		close(ch)
	}
	b.closed = true
}
