package action

import (
	"context"

	"tinybot/internal/message"
)

// Func is the signature of behavior that can be registered without writing a
// handler type.
type Func func(ctx context.Context, agent Agent, tr Tracker, req *message.Request) (Result, error)

// FunctionHandler adapts a Func to Handler.
type FunctionHandler struct {
	Base
	fn Func
}

func NewFunction(fn Func) *FunctionHandler {
	return &FunctionHandler{fn: fn}
}

func (f *FunctionHandler) Execute(ctx context.Context, agent Agent, tr Tracker, req *message.Request) (Result, error) {
	return f.fn(ctx, agent, tr, req)
}
