package env

import (
	"fmt"
	"slices"
)

// Kind is the kind of an environment entry. The numeric value is its rank in
// a sorted container.
type Kind int

const (
	KindSingle Kind = iota
	KindMulti
	KindScript
	KindCommand
)

func (k Kind) String() string {
	switch k {
	case KindSingle:
		return "single"
	case KindMulti:
		return "multi"
	case KindScript:
		return "script"
	case KindCommand:
		return "command"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Entry is one environment directive. Name is only set for Single and Multi
// entries. Value holds the variable value, the script path or the command text.
type Entry struct {
	Kind  Kind
	Name  string
	Value string
}

func (e Entry) String() string {
	switch e.Kind {
	case KindSingle, KindMulti:
		return fmt.Sprintf("%s %s=%s", e.Kind, e.Name, e.Value)
	}
	return fmt.Sprintf("%s %s", e.Kind, e.Value)
}

// Container is an append-only list of entries. It is owned by a single
// environment run and is not safe for concurrent use.
type Container struct {
	entries []Entry
}

func NewContainer() *Container {
	return &Container{}
}

// AddSingle assigns value to name.
func (c *Container) AddSingle(name, value string) {
	c.entries = append(c.entries, Entry{Kind: KindSingle, Name: name, Value: value})
}

// AddMulti prepends value to the path-like variable name.
func (c *Container) AddMulti(name, value string) {
	c.entries = append(c.entries, Entry{Kind: KindMulti, Name: name, Value: value})
}

// AddScript sources the script at path. An empty path is ignored.
func (c *Container) AddScript(path string) {
	if path == "" {
		return
	}
	c.entries = append(c.entries, Entry{Kind: KindScript, Value: path})
}

// AddCommand runs text as is.
func (c *Container) AddCommand(text string) {
	c.entries = append(c.entries, Entry{Kind: KindCommand, Value: text})
}

// Sort orders the entries by kind, keeping insertion order within a kind.
func (c *Container) Sort() {
	slices.SortStableFunc(c.entries, func(a, b Entry) int {
		return int(a.Kind) - int(b.Kind)
	})
}

// Entries returns a copy of the entries in their current order.
func (c *Container) Entries() []Entry {
	return slices.Clone(c.entries)
}

func (c *Container) Len() int {
	return len(c.entries)
}

// Variable is a user configured variable. Append variables become Multi
// entries, the others Single entries.
type Variable struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Append bool   `json:"append,omitempty"`
}

// AddVariable adds v as a Single or Multi entry.
func (c *Container) AddVariable(v Variable) {
	if v.Append {
		c.AddMulti(v.Name, v.Value)
		return
	}
	c.AddSingle(v.Name, v.Value)
}
