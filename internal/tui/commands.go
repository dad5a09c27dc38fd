package tui

import (
	"fmt"
	"strconv"
	"strings"
)

// Command represents a parsed slash command.
type Command struct {
	Name string
	Args []string
}

// ParseCommand parses a slash command string into a Command.
// Returns nil if the input is not a valid command.
func ParseCommand(input string) *Command {
	input = strings.TrimSpace(input)
	if input == "" || input[0] != '/' {
		return nil
	}

	parts := strings.Fields(input)
	return &Command{
		Name: parts[0],
		Args: parts[1:],
	}
}

// URLIndex parses a 1-based URL number as typed in "/open N" into an index
// into a list of n URLs.
func URLIndex(arg string, n int) (int, error) {
	i, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("not a URL number: %q", arg)
	}
	if i < 1 || i > n {
		return 0, fmt.Errorf("no URL #%d (have %d)", i, n)
	}
	return i - 1, nil
}
