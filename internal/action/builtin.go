package action

import (
	"context"
	"errors"

	"tinybot/internal/message"
)

// 生命周期动作名称，每个 Registry 都会自动注入。
const (
	ActionRestart = "action_restart"
	ActionListen  = "action_listen"

	// UtterRestart 是 Restart 在重置后尝试执行的动作。
	UtterRestart = "utter_restart"
)

func isReserved(name string) bool {
	return name == ActionRestart || name == ActionListen
}

// Restart resets the agent and then utters UtterRestart when it is registered.
type Restart struct {
	Base
}

func NewRestart() *Restart { return &Restart{} }

func (a *Restart) Execute(ctx context.Context, agent Agent, tr Tracker, req *message.Request) (Result, error) {
	if agent == nil {
		return None(), errors.New("restart requires an agent")
	}
	agent.Reset()
	resp, err := agent.ExecuteAction(ctx, UtterRestart, tr, req)
	if errors.Is(err, ErrNotFound) {
		return None(), nil
	}
	if err != nil {
		return None(), err
	}
	return Reply(resp), nil
}

// Listen waits for the next user input; it never responds.
type Listen struct {
	Base
}

func NewListen() *Listen { return &Listen{} }

func (a *Listen) Execute(context.Context, Agent, Tracker, *message.Request) (Result, error) {
	return None(), nil
}

// Kind names the handler variant, for listings and logs.
func Kind(h Handler) string {
	switch h.(type) {
	case *TemplateHandler:
		return "template"
	case *FunctionHandler:
		return "function"
	case *Restart:
		return "restart"
	case *Listen:
		return "listen"
	default:
		return "custom"
	}
}
