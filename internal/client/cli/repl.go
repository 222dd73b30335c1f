package cli

import (
	"bufio"
	"context"
	"fmt"
	"sort"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// command is one REPL verb. run receives the arguments after the verb and is
// only called when at least minArgs were given.
type command struct {
	name    string
	aliases []string
	usage   string
	minArgs int
	run     func(ctx context.Context, args []string) error
}

func index(cmds []command) map[string]command {
	m := make(map[string]command, len(cmds))
	for _, c := range cmds {
		m[c.name] = c
		for _, al := range c.aliases {
			m[al] = c
		}
	}
	return m
}

func helpText(cmds []command) string {
	lines := make([]string, 0, len(cmds))
	for _, c := range cmds {
		lines = append(lines, "  "+c.usage)
	}
	sort.Strings(lines)
	return "Available commands:\n" + strings.Join(lines, "\n") + "\n  exit"
}

// runREPL reads a line from scanner, takes the first token as the command and
// dispatches it through cmds. Command errors are printed and the loop goes
// on; it ends on scanner EOF or "exit"/"quit".
func runREPL(ctx context.Context, cmds []command, statusFn func() string, scanner *bufio.Scanner) {
	byName := index(cmds)
	for {
		printlnFn(fmt.Sprintf("gn> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "help":
			printlnFn(helpText(cmds))
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		c, ok := byName[name]
		if !ok {
			printlnFn("Unknown command:", name)
			continue
		}
		if len(args) < c.minArgs {
			printlnFn("Usage:", c.usage)
			continue
		}
		if err := c.run(ctx, args); err != nil {
			printlnFn("error:", err)
		}
		if ctx.Err() != nil {
			return
		}
	}
}
