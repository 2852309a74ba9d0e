package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tinybot/internal/action"
)

const testDomain = `
name = "test"

[slots]
name = "guest"

[actions]
utter_greet = "Hello ${name}!"
utter_restart = ["bye"]
`

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("TINYBOT_DOMAIN", "")
	t.Setenv("TINYBOT_LOG_LEVEL", "")

	dir := t.TempDir()
	domainPath := filepath.Join(dir, "domain.toml")
	if err := os.WriteFile(domainPath, []byte(testDomain), 0o600); err != nil {
		t.Fatalf("write domain: %v", err)
	}
	base := []string{
		"--config", filepath.Join(dir, "config.toml"),
		"-c", "log_path=" + filepath.Join(dir, "logs", "tinybot.log"),
		"-c", "domain=" + domainPath,
	}

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(base, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestRun_RendersSlotsFromDomainAndFlags(t *testing.T) {
	out, err := runCLI(t, "", "run", "utter_greet")
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Hello guest!") {
		t.Fatalf("output = %q, want greeting with domain slot", out)
	}

	out, err = runCLI(t, "", "run", "utter_greet", "--slot", "name=Bob")
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Hello Bob!") {
		t.Fatalf("output = %q, want greeting with flag slot", out)
	}
}

func TestRun_RestartAndListen(t *testing.T) {
	out, err := runCLI(t, "", "run", "--text", "hi", "action_echo", action.ActionRestart, action.ActionListen, "utter_greet")
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || lines[0] != "hi" || lines[1] != "bye" {
		t.Fatalf("unexpected responses: %q", lines)
	}
}

func TestRun_UnknownAction(t *testing.T) {
	_, err := runCLI(t, "", "run", "utter_gret")
	if err == nil {
		t.Fatalf("expected not found error")
	}
	if !strings.Contains(err.Error(), "utter_greet") {
		t.Fatalf("expected suggestion in %q", err.Error())
	}
}

func TestRun_InvalidSlot(t *testing.T) {
	if _, err := runCLI(t, "", "run", "utter_greet", "--slot", "novalue"); err == nil {
		t.Fatalf("expected invalid assignment error")
	}
}

func TestActions_ListsBuiltinsAndDomain(t *testing.T) {
	out, err := runCLI(t, "", "actions")
	if err != nil {
		t.Fatalf("actions: %v\n%s", err, out)
	}
	for _, want := range []string{"action_listen", "action_restart", "action_echo", "action_slots", "utter_greet", "Hello ${name}!", "template"} {
		if !strings.Contains(out, want) {
			t.Fatalf("actions output missing %q:\n%s", want, out)
		}
	}
}

func TestChat_Turns(t *testing.T) {
	in := "utter_greet name=Ann\nutter_nope\naction_slots\nquit\nutter_greet\n"
	out, err := runCLI(t, in, "chat")
	if err != nil {
		t.Fatalf("chat: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Hello Ann!") {
		t.Fatalf("missing greeting:\n%s", out)
	}
	if !strings.Contains(out, "action utter_nope not found") {
		t.Fatalf("missing not-found line:\n%s", out)
	}
	if !strings.Contains(out, "slots: name=Ann") {
		t.Fatalf("missing slots line:\n%s", out)
	}
	if strings.Count(out, "Hello") != 1 {
		t.Fatalf("input after quit must be ignored:\n%s", out)
	}
}

func TestBuildBot_LogsDomainName(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "tinybot.log")
	out, err := runCLI(t, "", "actions", "-c", "log_path="+logPath)
	if err != nil {
		t.Fatalf("actions: %v\n%s", err, out)
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "registry ready") || !strings.Contains(string(data), "domain_name=test") {
		t.Fatalf("registry log missing domain name:\n%s", data)
	}
}

func TestChat_EchoUsesTurnText(t *testing.T) {
	out, err := runCLI(t, "action_echo hello there mood=ok\nquit\n", "chat")
	if err != nil {
		t.Fatalf("chat: %v\n%s", err, out)
	}
	if !strings.Contains(out, "hello there") {
		t.Fatalf("missing echoed text:\n%s", out)
	}
	if strings.Contains(out, "action_echo hello") || strings.Contains(out, "mood=ok") {
		t.Fatalf("echo must not include the action name or assignments:\n%s", out)
	}
}

func TestParseTurn(t *testing.T) {
	name, req, err := parseTurn("utter_greet  good morning name=Ann")
	if err != nil {
		t.Fatalf("parseTurn: %v", err)
	}
	if name != "utter_greet" || req.Text != "good morning" || req.Entities["name"] != "Ann" {
		t.Fatalf("parseTurn = %q %q %v", name, req.Text, req.Entities)
	}

	_, req, err = parseTurn("action_slots")
	if err != nil {
		t.Fatalf("parseTurn: %v", err)
	}
	if req.Text != "" || req.Entities != nil {
		t.Fatalf("bare action: text=%q entities=%v", req.Text, req.Entities)
	}

	if _, _, err := parseTurn("utter_greet =x"); err == nil {
		t.Fatalf("expected invalid assignment error")
	}
}

func TestParseAssignments(t *testing.T) {
	got, err := parseAssignments([]string{"a=1", " b = two "})
	if err != nil {
		t.Fatalf("parseAssignments: %v", err)
	}
	if got["a"] != "1" || got["b"] != "two" {
		t.Fatalf("parseAssignments = %v", got)
	}
	if _, err := parseAssignments([]string{"=x"}); err == nil {
		t.Fatalf("expected error for empty key")
	}
}
