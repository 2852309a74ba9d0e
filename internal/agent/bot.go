package agent

import (
	"context"
	"sync"
	"time"

	"tinybot/internal/action"
	"tinybot/internal/events"
	"tinybot/internal/logger"
	"tinybot/internal/message"
	"tinybot/internal/tracker"
)

var log = logger.Named("agent")

var _ action.Agent = (*Bot)(nil)

// Bot 是动作的编排者：持有 Registry、会话 Tracker 与 before/after hooks。
type Bot struct {
	registry *action.Registry
	tracker  *tracker.Tracker
	bus      *events.Bus

	mu     sync.RWMutex
	before []action.Hook
	after  []action.Hook
}

// Option configures a Bot.
type Option func(*Bot)

// WithBus publishes action and reset events to bus.
func WithBus(bus *events.Bus) Option {
	return func(b *Bot) {
		b.bus = bus
	}
}

// New creates a bot over reg. A nil tracker gets a fresh one.
func New(reg *action.Registry, tr *tracker.Tracker, opts ...Option) *Bot {
	if tr == nil {
		tr = tracker.New("")
	}
	b := &Bot{registry: reg, tracker: tr}
	for _, opt := range opts {
		opt(b)
	}
	if b.bus != nil {
		b.BeforeAction(b.publishHook(events.TypeActionStarted))
		b.AfterAction(b.publishHook(events.TypeActionCompleted))
	}
	return b
}

func (b *Bot) Registry() *action.Registry { return b.registry }

func (b *Bot) Tracker() *tracker.Tracker { return b.tracker }

// BeforeAction appends a hook run before every action.
func (b *Bot) BeforeAction(h action.Hook) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.before = append(b.before, h)
}

// AfterAction appends a hook run after every action that succeeded.
func (b *Bot) AfterAction(h action.Hook) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.after = append(b.after, h)
}

// Hooks returns copies of the hook lists.
func (b *Bot) Hooks() action.Hooks {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return action.Hooks{
		Before: append([]action.Hook(nil), b.before...),
		After:  append([]action.Hook(nil), b.after...),
	}
}

// Reset clears the conversation held by the bot's tracker.
func (b *Bot) Reset() {
	b.tracker.Reset()
	log.WithField("sender_id", b.tracker.SenderID).Info("tracker reset")
	if b.bus != nil {
		b.bus.Publish(events.Event{
			Type:     events.TypeTrackerReset,
			SenderID: b.tracker.SenderID,
			Time:     time.Now(),
		})
	}
}

// ExecuteAction resolves name and invokes it. Lookup failures are returned
// before any hook runs.
func (b *Bot) ExecuteAction(ctx context.Context, name string, tr action.Tracker, req *message.Request) (*message.Response, error) {
	h, err := b.registry.Lookup(name)
	if err != nil {
		return nil, err
	}
	return action.Invoke(ctx, h, b, tr, req)
}

// Handle records req on the bot's tracker and runs names in order, collecting
// the responses. It stops after action_listen, since the bot then waits for
// the next input.
func (b *Bot) Handle(ctx context.Context, req *message.Request, names ...string) ([]*message.Response, error) {
	b.tracker.Update(req)

	var out []*message.Response
	for _, name := range names {
		resp, err := b.ExecuteAction(ctx, name, b.tracker, req)
		if err != nil {
			return out, err
		}
		if resp != nil {
			out = append(out, resp)
		}
		if name == action.ActionListen {
			break
		}
	}
	return out, nil
}

func (b *Bot) publishHook(typ events.Type) action.Hook {
	return func(h action.Handler, _ action.Tracker, req *message.Request) {
		evt := events.Event{
			Type:     typ,
			Action:   h.Name(),
			SenderID: b.tracker.SenderID,
			Time:     time.Now(),
		}
		if req != nil {
			evt.RequestID = req.ID
		}
		b.bus.Publish(evt)
	}
}
