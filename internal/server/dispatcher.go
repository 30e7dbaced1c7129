package server

import (
	"context"
	"log/slog"
	"strings"
)

// CommandMarker prefixes every client-to-server command.
const CommandMarker = "/"

// Handler executes one command. args are the whitespace-split tokens after
// the command keyword, passed verbatim; each handler validates its own
// argument count and emits its own usage notice.
type Handler func(ctx context.Context, c *Client, args []string)

// Dispatcher resolves text lines against a static command table built once
// at process start.
type Dispatcher struct {
	handlers map[string]Handler
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher over an empty table.
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string]Handler),
		logger:   logger,
	}
}

// Register installs a handler under its keyword (without the marker).
// Registration happens once during wiring; the table is read-only
// afterwards.
func (d *Dispatcher) Register(name string, h Handler) {
	d.handlers[name] = h
}

// Dispatch parses one raw line and invokes the matching handler. Anything
// that does not resolve to a registered command gets the unrecognized
// notice and nothing else.
func (d *Dispatcher) Dispatch(ctx context.Context, line string, c *Client) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		c.Send("Unrecognized command.")
		return
	}

	keyword := tokens[0]
	if !strings.HasPrefix(keyword, CommandMarker) {
		d.logger.Debug("line without command marker", slog.String("user", c.DisplayName()))
		c.Send("Unrecognized command.")
		return
	}

	handler, ok := d.handlers[strings.TrimPrefix(keyword, CommandMarker)]
	if !ok {
		d.logger.Debug("unknown command",
			slog.String("command", keyword),
			slog.String("user", c.DisplayName()))
		c.Send("Unrecognized command.")
		return
	}

	handler(ctx, c, tokens[1:])
}
