package domain

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"tinybot/internal/action"
)

// ErrDuplicateAction is returned by Merge when two sets declare one name.
var ErrDuplicateAction = errors.New("duplicate action declaration")

// Domain 描述一个 TOML 领域文件：
//
//	name = "pizza"
//
//	[slots]
//	name = "guest"
//
//	[actions]
//	utter_greet = "Hello ${name}!"
//	utter_restart = ["bye", "see you"]
type Domain struct {
	Name    string         `toml:"name"`
	Slots   map[string]any `toml:"slots"`
	Actions map[string]any `toml:"actions"`
	Source  string         `toml:"-"`
}

// Parse decodes a domain file. Unknown top-level keys are rejected.
func Parse(data []byte) (*Domain, error) {
	var d Domain
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&d); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("parse domain at line %d column %d: %w", row, col, err)
		}
		return nil, fmt.Errorf("parse domain: %w", err)
	}
	return &d, nil
}

// Load reads and parses the domain file at path.
func Load(path string) (*Domain, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	d.Source = path
	return d, nil
}

// Declarations wraps every action value with action.Raw; kinds are checked
// when the registry is built.
func (d *Domain) Declarations() map[string]action.Declaration {
	if d == nil {
		return nil
	}
	out := make(map[string]action.Declaration, len(d.Actions))
	for name, v := range d.Actions {
		out[name] = action.Raw(v)
	}
	return out
}

// Merge combines declaration sets, failing when a name appears twice.
func Merge(sets ...map[string]action.Declaration) (map[string]action.Declaration, error) {
	out := make(map[string]action.Declaration)
	for _, set := range sets {
		for name, decl := range set {
			if _, ok := out[name]; ok {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateAction, name)
			}
			out[name] = decl
		}
	}
	return out, nil
}
