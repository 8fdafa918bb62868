// internal/console/console.go
package console

import (
	"strings"
	"sync"
	"unicode"

	"github.com/tamzrod/modbus-od/internal/format"
	"github.com/tamzrod/modbus-od/internal/od"
)

const DefaultPrompt = "> "

// Options tune a Console.
type Options struct {
	Access Access

	// Lock is held around every command. It guards the dictionary
	// against concurrent sync updates; nil means no locking.
	Lock sync.Locker

	// Status renders the status line. Nil prints a placeholder.
	// It runs with Lock held.
	Status func() string

	Prompt string
}

// Console executes text commands against a dictionary.
type Console struct {
	dict *od.Dictionary
	opts Options
}

func New(dict *od.Dictionary, opts Options) *Console {
	if opts.Prompt == "" {
		opts.Prompt = DefaultPrompt
	}
	return &Console{dict: dict, opts: opts}
}

func (c *Console) Prompt() string { return c.opts.Prompt }

// Exec runs one command line and returns its output without a
// trailing newline. An empty line yields "".
func (c *Console) Exec(line string) string {
	cmd, rest := nextToken(line)
	if cmd == "" {
		return ""
	}

	if l := c.opts.Lock; l != nil {
		l.Lock()
		defer l.Unlock()
	}

	switch cmd {
	case "ls":
		return c.list(rest)
	case "get":
		return c.get(rest)
	case "set":
		return c.set(rest)
	case "status":
		return c.status()
	case "help":
		return helpText
	}
	return "Unknown command: " + cmd
}

const helpText = `Commands:
  ls [object]                  list objects or describe one
  get <object>[.<item>]        print a value
  set <object>[.<item>] <val>  write a value (also <path>=<val>)
  status                       show sync status
  help                         this text`

// ---- commands ----

func (c *Console) list(name string) string {
	if name == "" {
		var sb strings.Builder
		sb.WriteString("\nObjects:\n")
		for _, it := range c.dict.Items() {
			if !c.opts.Access.Visible(it.Object.Perm()) {
				continue
			}
			sb.WriteString("  ")
			sb.WriteString(it.Object.Name())
			sb.WriteByte('\n')
		}
		return sb.String()
	}

	it, ok := c.find(name)
	if !ok {
		return "Object " + name + " not found"
	}
	return format.Describe(it.Object.Descriptor())
}

func (c *Console) get(path string) string {
	if path == "" {
		return "Usage: get <object>(.<item>)"
	}

	q, e := c.query(path)
	if e != od.OK {
		return e.String()
	}

	obj := q.Item.Object
	if q.Whole() {
		return q.Path() + ":" + format.Object(obj)
	}
	return q.Path() + ": " + format.Read(obj, q.Sub(), q.Type())
}

func (c *Console) set(args string) string {
	path, value := splitAssignment(args)
	if path == "" || value == "" {
		return "Usage: set <object>(.<item>) <value>"
	}

	q, e := c.query(path)
	if e != od.OK {
		return e.String()
	}

	obj := q.Item.Object
	if q.Whole() && obj.Class() != od.ClassVariable {
		return "Must select subobject to set"
	}
	if !c.opts.Access.Writable(q.Info.Base().Perm) {
		return od.ReadOnly.String()
	}

	buf := make([]byte, max(obj.Size(), 64))
	n, e := format.Parse(q.Type(), value, buf)
	if e != od.OK {
		return e.String()
	}
	return obj.Set(q.Sub(), buf[:n]).String()
}

func (c *Console) status() string {
	if c.opts.Status == nil {
		return "Status not implemented"
	}
	return c.opts.Status()
}

// ---- lookup ----

// find is Dictionary.Find restricted to what the session may see.
func (c *Console) find(name string) (*od.Item, bool) {
	it, ok := c.dict.Find(name)
	if !ok || !c.opts.Access.Visible(it.Object.Perm()) {
		return nil, false
	}
	return it, true
}

func (c *Console) query(path string) (od.Query, od.Error) {
	q := od.ParseQuery(path)
	if _, ok := c.find(q.ObjectName); !ok {
		return q, od.ObjectNotFound
	}
	return q, c.dict.Query(&q)
}

// ---- tokenizing ----

func nextToken(line string) (string, string) {
	line = strings.TrimSpace(line)
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i:])
}

// splitAssignment accepts "path value", "path=value" and "path = value".
func splitAssignment(args string) (string, string) {
	args = strings.TrimSpace(args)
	end := strings.IndexFunc(args, func(r rune) bool { return unicode.IsSpace(r) || r == '=' })
	if end < 0 {
		return args, ""
	}
	value := strings.TrimSpace(args[end:])
	value = strings.TrimSpace(strings.TrimPrefix(value, "="))
	return args[:end], value
}
