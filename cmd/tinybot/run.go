package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"tinybot/internal/message"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		domainPath string
		slots      []string
		text       string
		intent     string
	)
	cmd := &cobra.Command{
		Use:   "run ACTION...",
		Short: "Invoke actions in order and print their responses",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bot, err := a.buildBot(domainPath)
			if err != nil {
				return err
			}
			entities, err := parseAssignments(slots)
			if err != nil {
				return err
			}
			req := message.NewRequest(text)
			req.Intent = intent
			req.Entities = entities

			resps, err := bot.Handle(cmd.Context(), req, args...)
			printResponses(cmd.OutOrStdout(), resps)
			return err
		},
	}
	cmd.Flags().StringVar(&domainPath, "domain", "", "Domain file (default from config)")
	cmd.Flags().StringArrayVar(&slots, "slot", nil, "Set a slot (key=value), repeatable")
	cmd.Flags().StringVar(&text, "text", "", "Text of the user message")
	cmd.Flags().StringVar(&intent, "intent", "", "Intent of the user message")
	return cmd
}

func parseAssignments(raw []string) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(raw))
	for _, kv := range raw {
		key, val, ok := strings.Cut(kv, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment %q, want key=value", kv)
		}
		out[key] = strings.TrimSpace(val)
	}
	return out, nil
}

func printResponses(w io.Writer, resps []*message.Response) {
	for _, resp := range resps {
		fmt.Fprintln(w, botStyle.Render(resp.Body))
	}
}
