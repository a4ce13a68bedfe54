// Package registry describes the shell-like commands available to scripts.
//
// The parser consults a Registry to recognize a bare command name as a call,
// and the CLI uses it for completion. A Registry is safe for concurrent use.
package registry

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/go-homedir"
)

// ArgType is the type of a command argument.
type ArgType string

const (
	String  ArgType = "string"
	Number  ArgType = "number"
	Boolean ArgType = "boolean"
)

// ArgShape describes one argument of a command. Named arguments carry a
// default and are passed as `name=value`.
type ArgShape struct {
	Name        string  `toml:"name" json:"name"`
	Type        ArgType `toml:"type" json:"type"`
	Description string  `toml:"description" json:"description,omitempty"`
	Named       bool    `toml:"named" json:"named,omitempty"`
	Default     any     `toml:"default" json:"default,omitempty"`
}

// CommandShape describes a command.
type CommandShape struct {
	Command     string     `toml:"name" json:"command"`
	Description string     `toml:"description" json:"description,omitempty"`
	Execute     string     `toml:"execute" json:"execute,omitempty"`
	Args        []ArgShape `toml:"args" json:"args"`
}

// Positional returns the arguments passed by position.
func (c CommandShape) Positional() []ArgShape {
	var out []ArgShape
	for _, a := range c.Args {
		if !a.Named {
			out = append(out, a)
		}
	}
	return out
}

// Match is the result of a Lookup.
type Match struct {
	Exact   *CommandShape  `json:"exact,omitempty"`
	Partial []CommandShape `json:"partial"`
}

type file struct {
	Commands []CommandShape `toml:"command"`
}

// Registry is a table of commands ordered by name.
type Registry struct {
	mu       sync.RWMutex
	commands []CommandShape
}

// New returns a Registry holding the given commands.
func New(commands ...CommandShape) *Registry {
	r := &Registry{}
	r.Replace(commands)
	return r
}

//go:embed commands.toml
var defaultCommands string

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry of built-in commands. The returned value is
// shared; callers that want to modify it should Clone it first.
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := Parse(defaultCommands)
		if err != nil {
			panic(fmt.Sprintf("registry: invalid built-in commands: %v", err))
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

// Parse reads a registry from TOML text.
func Parse(text string) (*Registry, error) {
	var f file
	if _, err := toml.Decode(text, &f); err != nil {
		return nil, err
	}
	for i := range f.Commands {
		if err := normalize(&f.Commands[i]); err != nil {
			return nil, err
		}
	}
	return New(f.Commands...), nil
}

// LoadFile reads a registry from a TOML file. A leading `~` in path is
// expanded to the user's home directory.
func LoadFile(path string) (*Registry, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", expanded, err)
	}
	r, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", expanded, err)
	}
	return r, nil
}

func normalize(c *CommandShape) error {
	if c.Command == "" {
		return fmt.Errorf("command without a name")
	}
	for i := range c.Args {
		a := &c.Args[i]
		if a.Name == "" {
			return fmt.Errorf("command %q: argument %d has no name", c.Command, i)
		}
		switch a.Type {
		case String, Number, Boolean:
		case "":
			a.Type = String
		default:
			return fmt.Errorf("command %q: argument %q has unknown type %q", c.Command, a.Name, a.Type)
		}
		if a.Default != nil {
			a.Named = true
			if err := checkDefault(*a); err != nil {
				return fmt.Errorf("command %q: %w", c.Command, err)
			}
		}
	}
	return nil
}

func checkDefault(a ArgShape) error {
	ok := false
	switch a.Default.(type) {
	case string:
		ok = a.Type == String
	case int64, float64:
		ok = a.Type == Number
	case bool:
		ok = a.Type == Boolean
	}
	if !ok {
		return fmt.Errorf("argument %q: default %v is not a %s", a.Name, a.Default, a.Type)
	}
	return nil
}

// Replace swaps the registry's commands for the given ones.
func (r *Registry) Replace(commands []CommandShape) {
	sorted := make([]CommandShape, len(commands))
	copy(sorted, commands)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Command < sorted[j].Command
	})
	r.mu.Lock()
	r.commands = sorted
	r.mu.Unlock()
}

// Add registers a command, replacing any existing command of the same name.
func (r *Registry) Add(cmd CommandShape) {
	r.mu.RLock()
	commands := make([]CommandShape, 0, len(r.commands)+1)
	for _, c := range r.commands {
		if c.Command != cmd.Command {
			commands = append(commands, c)
		}
	}
	r.mu.RUnlock()
	r.Replace(append(commands, cmd))
}

// Clone returns an independent copy of the registry.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return New(r.commands...)
}

// Lookup returns the command named exactly prefix, if any, and every command
// whose name starts with prefix, in name order.
func (r *Registry) Lookup(prefix string) Match {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var m Match
	i := sort.Search(len(r.commands), func(i int) bool {
		return r.commands[i].Command >= prefix
	})
	for ; i < len(r.commands) && strings.HasPrefix(r.commands[i].Command, prefix); i++ {
		c := r.commands[i]
		if c.Command == prefix && m.Exact == nil {
			exact := c
			m.Exact = &exact
		}
		m.Partial = append(m.Partial, c)
	}
	return m
}

// Has reports whether a command is registered under name.
func (r *Registry) Has(name string) bool {
	return r.Lookup(name).Exact != nil
}

// Names returns the registered command names in order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.commands))
	for i, c := range r.commands {
		names[i] = c.Command
	}
	return names
}

// Len returns the number of registered commands.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}
