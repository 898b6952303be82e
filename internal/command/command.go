// Package command parses free-text chat commands into an action and a list
// of validated target strings.
package command

import (
	"fmt"
	"strings"
)

// Action is the operation a parsed command requests.
type Action string

const (
	// ActionPlan requests a plan of the named or change-derived targets.
	ActionPlan Action = "plan"
	// ActionApply requests an apply of the named or change-derived targets.
	ActionApply Action = "apply"
	// ActionHelp requests the usage message and nothing else.
	ActionHelp Action = "help"
	// ActionError marks a recognized command with invalid content.
	ActionError Action = "error"
)

// ParsedCommand is the result of parsing a recognized command.
type ParsedCommand struct {
	Action  Action
	Targets []string
	// Message carries the usage text for help and the cause for error.
	Message string
}

// HelpMessage is the static usage text returned for the help action.
const HelpMessage = `Usage:
  <trigger> plan [target ...]    plan the named roots, or all change-affected roots
  <trigger> apply [target ...]   apply the named roots, or all change-affected roots
  <trigger> help                 show this message

Targets are workspace-relative root paths, for example "envs/prod/app1".`

// Parser recognizes chat commands that start with a trigger token.
type Parser struct {
	trigger string
}

// NewParser creates a Parser for the given trigger token.
func NewParser(trigger string) *Parser {
	return &Parser{trigger: trigger}
}

// Parse inspects raw chat-message text. It returns nil when the text is not
// a command at all (callers silently ignore that) and a ParsedCommand with
// ActionError when the text is a recognized command with invalid content,
// which callers report back to the operator.
func (p *Parser) Parse(body string) *ParsedCommand {
	line := firstLine(body)

	tokens, err := splitQuoted(line)
	if err != nil {
		// Only a recognized trigger earns an error report.
		if !strings.HasPrefix(line, p.trigger+" ") && line != p.trigger {
			return nil
		}
		return &ParsedCommand{Action: ActionError, Message: err.Error()}
	}

	if len(tokens) == 0 || tokens[0] != p.trigger {
		return nil
	}
	if len(tokens) < 2 {
		return nil
	}

	var action Action
	switch tokens[1] {
	case "plan":
		action = ActionPlan
	case "apply":
		action = ActionApply
	case "help":
		return &ParsedCommand{Action: ActionHelp, Message: HelpMessage}
	default:
		return nil
	}

	targets := tokens[2:]
	for _, target := range targets {
		if bad, ok := firstInvalidChar(target); ok {
			return &ParsedCommand{
				Action: ActionError,
				Message: fmt.Sprintf("invalid character %q in target %q: targets may contain only letters, digits, underscore, hyphen and forward slash",
					bad, target),
			}
		}
	}

	return &ParsedCommand{Action: action, Targets: targets}
}

// firstLine returns the first non-blank line of body, trimmed.
func firstLine(body string) string {
	for _, line := range strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}

// firstInvalidChar returns the first character of s outside the allowed
// class. Target strings become snapshot lookup keys and must stay within
// [A-Za-z0-9_/-].
func firstInvalidChar(s string) (rune, bool) {
	if s == "" {
		return 0, true
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-' || r == '/':
		default:
			return r, true
		}
	}
	return 0, false
}

// splitQuoted tokenizes a line into whitespace-delimited tokens, honoring
// double- and single-quoted spans.
func splitQuoted(line string) ([]string, error) {
	var tokens []string
	var current strings.Builder
	inToken := false
	var quote rune

	flush := func() {
		if inToken {
			tokens = append(tokens, current.String())
			current.Reset()
			inToken = false
		}
	}

	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inToken = true
		case r == ' ' || r == '\t':
			flush()
		default:
			current.WriteRune(r)
			inToken = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated %q quote in command", quote)
	}
	flush()

	return tokens, nil
}
