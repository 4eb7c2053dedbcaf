package client

import (
	"strconv"
	"strings"
)

// Command is an immutable description of one request: a command name plus its
// ordered arguments. Building a Command does no I/O.
type Command struct {
	name string
	args []string
}

func NewCommand(name string, args ...string) *Command {
	return &Command{name: name, args: args}
}

func (c *Command) Name() string {
	return c.name
}

func (c *Command) Args() []string {
	return c.args
}

func (c *Command) String() string {
	if len(c.args) == 0 {
		return c.name
	}
	return c.name + " " + strings.Join(c.args, " ")
}

func formatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
