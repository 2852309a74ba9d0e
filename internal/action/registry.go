package action

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// maxSuggestions bounds the "did you mean" list of a NotFoundError.
const maxSuggestions = 3

// Registry is a frozen name → Handler table. It always contains
// ActionRestart and ActionListen. Lookups need no locking because the table
// is never written after NewRegistry returns.
type Registry struct {
	handlers map[string]Handler
	names    []string
}

type options struct {
	base *Registry
}

// Option configures NewRegistry.
type Option func(*options)

// WithBase makes the parent's actions visible in the new registry unless they
// are redeclared. Lifecycle actions are never inherited.
func WithBase(parent *Registry) Option {
	return func(o *options) {
		o.base = parent
	}
}

// NewRegistry coerces every declaration into a Handler, binds it to its name,
// adds the lifecycle actions and freezes the result. Any failure aborts the
// whole construction and no handler is renamed.
func NewRegistry(decls map[string]Declaration, opts ...Option) (*Registry, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	for _, name := range []string{ActionRestart, ActionListen} {
		if _, ok := decls[name]; ok {
			return nil, &DeclarationError{Name: name, Err: ErrReservedName}
		}
	}

	names := make([]string, 0, len(decls))
	for name := range decls {
		names = append(names, name)
	}
	sort.Strings(names)

	built := make(map[string]Handler, len(decls))
	owners := make(map[*Base]string, len(decls))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			return nil, &DeclarationError{Name: name, Err: errors.New("empty action name")}
		}
		h, err := decls[name].build()
		if err != nil {
			return nil, &DeclarationError{Name: name, Err: err}
		}
		b := h.base()
		if b.name != "" && b.name != name {
			return nil, &DeclarationError{Name: name, Err: fmt.Errorf("handler already bound to %q", b.name)}
		}
		if prev, ok := owners[b]; ok {
			return nil, &DeclarationError{Name: name, Err: fmt.Errorf("handler also declared as %q", prev)}
		}
		owners[b] = name
		built[name] = h
	}

	table := make(map[string]Handler, len(built)+2)
	if o.base != nil {
		for name, h := range o.base.handlers {
			if !isReserved(name) {
				table[name] = h
			}
		}
	}
	restart, listen := NewRestart(), NewListen()
	restart.name, listen.name = ActionRestart, ActionListen
	table[ActionRestart] = restart
	table[ActionListen] = listen
	for name, h := range built {
		h.base().name = name
		table[name] = h
	}

	reg := &Registry{handlers: table, names: make([]string, 0, len(table))}
	for name := range table {
		reg.names = append(reg.names, name)
	}
	sort.Strings(reg.names)

	registryLog().WithField("size", len(table)).Debug("registry built")
	return reg, nil
}

// MustRegistry is like NewRegistry but panics on error. It is meant for
// package-level registries built at startup.
func MustRegistry(decls map[string]Declaration, opts ...Option) *Registry {
	reg, err := NewRegistry(decls, opts...)
	if err != nil {
		panic(err)
	}
	return reg
}

// Lookup returns the handler bound to name, or a *NotFoundError.
func (r *Registry) Lookup(name string) (Handler, error) {
	if h, ok := r.Handler(name); ok {
		return h, nil
	}
	return nil, &NotFoundError{Name: name, Suggestions: r.suggest(name)}
}

// Handler 返回 name 对应的 handler。
func (r *Registry) Handler(name string) (Handler, bool) {
	if r == nil {
		return nil, false
	}
	h, ok := r.handlers[name]
	return h, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.names...)
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.handlers)
}

func (r *Registry) String() string {
	if r == nil {
		return "{}"
	}
	parts := make([]string, 0, len(r.names))
	for _, name := range r.names {
		parts = append(parts, fmt.Sprintf("%s: <action: %s>", name, r.handlers[name].Name()))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (r *Registry) suggest(name string) []string {
	if r == nil || strings.TrimSpace(name) == "" {
		return nil
	}
	matches := fuzzy.Find(name, r.names)
	out := make([]string, 0, maxSuggestions)
	for _, m := range matches {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, m.Str)
	}
	return out
}
