package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"tinybot/internal/action"
)

const previewWidth = 48

func newActionsCmd(a *app) *cobra.Command {
	var domainPath string
	cmd := &cobra.Command{
		Use:   "actions",
		Short: "List registered actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bot, err := a.buildBot(domainPath)
			if err != nil {
				return err
			}
			printActions(cmd.OutOrStdout(), bot.Registry())
			return nil
		},
	}
	cmd.Flags().StringVar(&domainPath, "domain", "", "Domain file (default from config)")
	return cmd
}

func printActions(w io.Writer, reg *action.Registry) {
	names := reg.Names()
	nameWidth := 0
	for _, name := range names {
		nameWidth = max(nameWidth, runewidth.StringWidth(name))
	}
	for _, name := range names {
		h, err := reg.Lookup(name)
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "%s  %s  %s\n",
			nameStyle.Render(runewidth.FillRight(name, nameWidth)),
			kindStyle.Render(runewidth.FillRight(action.Kind(h), len("function"))),
			runewidth.Truncate(preview(h), previewWidth, "…"),
		)
	}
}

func preview(h action.Handler) string {
	switch v := h.(type) {
	case *action.TemplateHandler:
		return strings.Join(v.Sources(), " | ")
	case *action.Restart:
		return "reset, then " + action.UtterRestart
	case *action.Listen:
		return "wait for input"
	default:
		return "-"
	}
}
