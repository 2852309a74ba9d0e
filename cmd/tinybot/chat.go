package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tinybot/internal/action"
	"tinybot/internal/message"
)

func newChatCmd(a *app) *cobra.Command {
	var domainPath string
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Read action names from stdin, one turn per line",
		Long: `Each line is "ACTION [text...] [key=value...]"; the assignments become
entities of the turn's request and the remaining words its text. Type "quit"
to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bot, err := a.buildBot(domainPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			scanner := bufio.NewScanner(cmd.InOrStdin())
			fmt.Fprint(out, hintStyle.Render("> "))
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "quit" || line == "exit" {
					break
				}
				if line != "" {
					name, req, err := parseTurn(line)
					if err != nil {
						fmt.Fprintln(out, errorStyle.Render(err.Error()))
					} else {
						resps, err := bot.Handle(cmd.Context(), req, name)
						printResponses(out, resps)
						if err != nil {
							printTurnError(cmd, err)
						}
					}
				}
				fmt.Fprint(out, hintStyle.Render("> "))
			}
			fmt.Fprintln(out)
			return scanner.Err()
		},
	}
	cmd.Flags().StringVar(&domainPath, "domain", "", "Domain file (default from config)")
	return cmd
}

// parseTurn 拆分一行输入：首词为动作名，key=value 为实体，其余单词组成请求文本。
func parseTurn(line string) (string, *message.Request, error) {
	fields := strings.Fields(line)
	var words, assignments []string
	for _, f := range fields[1:] {
		if strings.Contains(f, "=") {
			assignments = append(assignments, f)
		} else {
			words = append(words, f)
		}
	}
	entities, err := parseAssignments(assignments)
	if err != nil {
		return "", nil, err
	}
	req := message.NewRequest(strings.Join(words, " "))
	req.Entities = entities
	return fields[0], req, nil
}

func printTurnError(cmd *cobra.Command, err error) {
	if errors.Is(err, action.ErrNotFound) {
		fmt.Fprintln(cmd.OutOrStdout(), errorStyle.Render(err.Error()))
		return
	}
	log.WithField("error", err.Error()).Warn("turn failed")
	fmt.Fprintln(cmd.OutOrStdout(), errorStyle.Render("error: "+err.Error()))
}
