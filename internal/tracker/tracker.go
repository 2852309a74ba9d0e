package tracker

import (
	"maps"
	"sync"

	"github.com/google/uuid"

	"tinybot/internal/message"
)

// Keys the snapshot always carries next to the slots. A slot with the same
// name is shadowed.
const (
	KeySenderID      = "sender_id"
	KeyLatestMessage = "latest_message"
	KeyIntent        = "intent"
	KeyTurns         = "turns"
)

// Tracker 保存单个会话的对话状态，可并发访问。
type Tracker struct {
	SenderID string

	mu     sync.RWMutex
	slots  map[string]any
	latest *message.Request
	turns  int
}

// New creates a tracker; an empty senderID gets a random one.
func New(senderID string) *Tracker {
	if senderID == "" {
		senderID = uuid.NewString()
	}
	return &Tracker{SenderID: senderID, slots: map[string]any{}}
}

func (t *Tracker) SetSlot(name string, value any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.slots[name] = value
}

func (t *Tracker) Slot(name string) (any, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.slots[name]
	return v, ok
}

// Slots returns a copy of the current slots.
func (t *Tracker) Slots() map[string]any {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return maps.Clone(t.slots)
}

// Update records req as the latest user message and fills slots from its
// entities.
func (t *Tracker) Update(req *message.Request) {
	if req == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.latest = req
	t.turns++
	for k, v := range req.Entities {
		t.slots[k] = v
	}
}

func (t *Tracker) Latest() *message.Request {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.latest
}

func (t *Tracker) Turns() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.turns
}

// Reset clears slots and history; the sender id is kept.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.slots = map[string]any{}
	t.latest = nil
	t.turns = 0
}

// AsMap flattens the state for template rendering.
func (t *Tracker) AsMap() map[string]any {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[string]any, len(t.slots)+4)
	maps.Copy(out, t.slots)
	out[KeySenderID] = t.SenderID
	out[KeyTurns] = t.turns
	out[KeyLatestMessage] = ""
	out[KeyIntent] = ""
	if t.latest != nil {
		out[KeyLatestMessage] = t.latest.Text
		out[KeyIntent] = t.latest.Intent
	}
	return out
}
