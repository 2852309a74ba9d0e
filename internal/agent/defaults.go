package agent

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"tinybot/internal/action"
	"tinybot/internal/message"
)

// Built-in function actions available to every bot built by the CLI.
const (
	ActionEcho  = "action_echo"
	ActionSlots = "action_slots"
)

type slotSource interface {
	Slots() map[string]any
}

// Default returns the built-in function declarations.
func Default() map[string]action.Declaration {
	return map[string]action.Declaration{
		ActionEcho:  action.Call(echo),
		ActionSlots: action.Call(slots),
	}
}

func echo(_ context.Context, _ action.Agent, _ action.Tracker, req *message.Request) (action.Result, error) {
	if req == nil || strings.TrimSpace(req.Text) == "" {
		return action.None(), nil
	}
	return action.Text(req.Text), nil
}

func slots(_ context.Context, _ action.Agent, tr action.Tracker, _ *message.Request) (action.Result, error) {
	src, ok := tr.(slotSource)
	if !ok {
		return action.None(), fmt.Errorf("tracker %T does not expose slots", tr)
	}
	current := src.Slots()
	keys := make([]string, 0, len(current))
	for k := range current {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, current[k]))
	}
	body := "no slots set"
	if len(parts) > 0 {
		body = "slots: " + strings.Join(parts, ", ")
	}
	return action.Fields(map[string]any{"body": body, "slots": current}), nil
}
