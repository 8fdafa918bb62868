// internal/console/serve.go
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Serve reads commands line by line from r until EOF or "exit".
// Output of each command is followed by a newline and a fresh prompt.
func (c *Console) Serve(r io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(r)

	fmt.Fprint(w, c.opts.Prompt)
	for sc.Scan() {
		line := sc.Text()
		if isExit(line) {
			return nil
		}
		if out := c.Exec(line); out != "" {
			fmt.Fprintln(w, out)
		}
		fmt.Fprint(w, c.opts.Prompt)
	}
	return sc.Err()
}

// Interactive runs the console on a terminal with line editing, history
// and tab completion of object names. When in is not a terminal it
// falls back to Serve. It returns when the session ends or ctx is done;
// a read still blocked at that point is abandoned and the terminal
// state is restored.
func (c *Console) Interactive(ctx context.Context, in io.Reader, out io.Writer) error {
	f, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return runUntil(ctx, func() error { return c.Serve(in, out) })
	}

	fd := int(f.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("console: raw mode: %w", err)
	}
	defer term.Restore(fd, oldState)

	t := term.NewTerminal(struct {
		io.Reader
		io.Writer
	}{in, out}, c.opts.Prompt)
	t.AutoCompleteCallback = c.complete

	return runUntil(ctx, func() error { return c.readTerminal(t) })
}

func (c *Console) readTerminal(t *term.Terminal) error {
	for {
		line, err := t.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("console: read: %w", err)
		}
		if isExit(line) {
			return nil
		}
		if o := c.Exec(line); o != "" {
			fmt.Fprintln(t, o)
		}
	}
}

// runUntil runs session in its own goroutine and returns its result, or
// nil as soon as ctx is done.
func runUntil(ctx context.Context, session func() error) error {
	done := make(chan error, 1)
	go func() { done <- session() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return nil
	}
}

func isExit(line string) bool {
	l := strings.TrimSpace(line)
	return l == "exit" || l == "quit"
}

// complete expands a unique object-name prefix after ls/get/set on Tab.
func (c *Console) complete(line string, pos int, key rune) (string, int, bool) {
	if key != '\t' || pos != len(line) {
		return "", 0, false
	}

	cmd, arg := nextToken(line)
	switch cmd {
	case "ls", "get", "set":
	default:
		return "", 0, false
	}
	if strings.ContainsAny(arg, " =.:/") {
		return "", 0, false
	}

	var match string
	for _, it := range c.dict.Items() {
		name := it.Object.Name()
		if !c.opts.Access.Visible(it.Object.Perm()) || len(name) < len(arg) {
			continue
		}
		if !strings.EqualFold(name[:len(arg)], arg) {
			continue
		}
		if match != "" {
			return "", 0, false
		}
		match = name
	}
	if match == "" {
		return "", 0, false
	}

	out := cmd + " " + match
	return out, len(out), true
}
