package action

import (
	"context"
	"fmt"
	"time"

	"tinybot/internal/message"
)

// Tracker 提供模板渲染所需的会话状态快照。
type Tracker interface {
	AsMap() map[string]any
}

// Hook observes an invocation. Hooks run before and after every action and
// cannot change its response.
type Hook func(h Handler, tr Tracker, req *message.Request)

// Hooks holds the ordered hook lists of an agent.
type Hooks struct {
	Before []Hook
	After  []Hook
}

// Agent 是编排者在本层可见的最小接口。
type Agent interface {
	// Hooks returns the before/after hook lists, in insertion order.
	Hooks() Hooks
	// Reset clears conversational state.
	Reset()
	// ExecuteAction resolves name and invokes it. Unknown names fail with an
	// error matching ErrNotFound.
	ExecuteAction(ctx context.Context, name string, tr Tracker, req *message.Request) (*message.Response, error)
}

// Handler 定义一个可按名称调用的动作。
// Implementations embed Base, which carries the registered name.
type Handler interface {
	Name() string
	Execute(ctx context.Context, agent Agent, tr Tracker, req *message.Request) (Result, error)
	base() *Base
}

// Base is the abstract handler. Its Execute fails with ErrNotImplemented, so
// concrete handlers embed it and provide their own Execute.
type Base struct {
	name string
}

// Name returns the name the handler was registered under.
func (b *Base) Name() string { return b.name }

func (b *Base) Execute(context.Context, Agent, Tracker, *message.Request) (Result, error) {
	return None(), ErrNotImplemented
}

func (b *Base) String() string { return fmt.Sprintf("<action: %s>", b.name) }

func (b *Base) base() *Base { return b }

type resultKind int

const (
	resultNone resultKind = iota
	resultText
	resultFields
	resultResponse
)

// Result is what Execute produces: nothing, text, a field mapping, or a
// ready response.
type Result struct {
	kind   resultKind
	text   string
	fields map[string]any
	resp   *message.Response
}

func None() Result { return Result{} }

func Text(s string) Result { return Result{kind: resultText, text: s} }

func Fields(m map[string]any) Result { return Result{kind: resultFields, fields: m} }

// Reply passes an already built response through; a nil response is None.
func Reply(r *message.Response) Result {
	if r == nil {
		return None()
	}
	return Result{kind: resultResponse, resp: r}
}

// IsNone reports whether the result carries no response.
func (r Result) IsNone() bool { return r.kind == resultNone }

// Response normalizes the result.
func (r Result) Response() *message.Response {
	switch r.kind {
	case resultText:
		return message.NewResponse(r.text)
	case resultFields:
		return message.ResponseFromFields(r.fields)
	case resultResponse:
		return r.resp
	default:
		return nil
	}
}

// Invoke runs h with the agent's hooks around it: every before-hook, then
// Execute, then every after-hook, each in insertion order. An Execute error
// skips the after-hooks.
func Invoke(ctx context.Context, h Handler, agent Agent, tr Tracker, req *message.Request) (*message.Response, error) {
	var hooks Hooks
	if agent != nil {
		hooks = agent.Hooks()
	}

	start := time.Now()
	logActionCall(h, req)

	for _, fn := range hooks.Before {
		fn(h, tr, req)
	}

	res, err := h.Execute(ctx, agent, tr, req)
	if err != nil {
		logActionResult(h, req, nil, err, time.Since(start))
		return nil, fmt.Errorf("action %s: %w", h.Name(), err)
	}
	resp := res.Response()

	for _, fn := range hooks.After {
		fn(h, tr, req)
	}

	logActionResult(h, req, resp, nil, time.Since(start))
	return resp, nil
}
