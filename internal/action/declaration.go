package action

import (
	"context"
	"fmt"

	"tinybot/internal/message"
)

type declKind int

const (
	declUnknown declKind = iota
	declHandler
	declText
	declTexts
	declFunc
	declRaw
)

// Declaration describes how a name becomes a Handler. Build one with Use,
// Utter, UtterAny, Call or Raw; the zero value is not a valid declaration.
type Declaration struct {
	kind    declKind
	handler Handler
	texts   []string
	fn      Func
	raw     any
}

// Use registers an existing handler as-is.
func Use(h Handler) Declaration { return Declaration{kind: declHandler, handler: h} }

// Utter declares a single template.
func Utter(text string) Declaration { return Declaration{kind: declText, texts: []string{text}} }

// UtterAny declares a template chosen at random from texts on every call.
func UtterAny(texts ...string) Declaration {
	return Declaration{kind: declTexts, texts: append([]string(nil), texts...)}
}

// Call declares a function action.
func Call(fn Func) Declaration { return Declaration{kind: declFunc, fn: fn} }

// Raw declares an untyped value, such as one decoded from a domain file. It is
// coerced by the first matching rule: handler, text, text sequence, function.
func Raw(v any) Declaration { return Declaration{kind: declRaw, raw: v} }

func (d Declaration) build() (Handler, error) {
	switch d.kind {
	case declHandler:
		if d.handler == nil {
			return nil, fmt.Errorf("%w: nil handler", ErrUnrecognizedKind)
		}
		return d.handler, nil
	case declText, declTexts:
		return NewTemplate(d.texts...)
	case declFunc:
		if d.fn == nil {
			return nil, fmt.Errorf("%w: nil function", ErrUnrecognizedKind)
		}
		return NewFunction(d.fn), nil
	case declRaw:
		return coerce(d.raw)
	default:
		return nil, ErrUnrecognizedKind
	}
}

type coercionRule func(v any) (Handler, bool, error)

var coercionRules = []coercionRule{
	func(v any) (Handler, bool, error) {
		h, ok := v.(Handler)
		if !ok || h == nil {
			return nil, false, nil
		}
		return h, true, nil
	},
	func(v any) (Handler, bool, error) {
		s, ok := v.(string)
		if !ok {
			return nil, false, nil
		}
		h, err := NewTemplate(s)
		return h, true, err
	},
	func(v any) (Handler, bool, error) {
		texts, ok := textSequence(v)
		if !ok {
			return nil, false, nil
		}
		h, err := NewTemplate(texts...)
		return h, true, err
	},
	func(v any) (Handler, bool, error) {
		switch fn := v.(type) {
		case Func:
			if fn == nil {
				return nil, false, nil
			}
			return NewFunction(fn), true, nil
		case func(context.Context, Agent, Tracker, *message.Request) (Result, error):
			if fn == nil {
				return nil, false, nil
			}
			return NewFunction(fn), true, nil
		}
		return nil, false, nil
	},
}

func coerce(v any) (Handler, error) {
	for _, rule := range coercionRules {
		h, ok, err := rule(v)
		if err != nil {
			return nil, err
		}
		if ok {
			return h, nil
		}
	}
	return nil, fmt.Errorf("%w: %T", ErrUnrecognizedKind, v)
}

func textSequence(v any) ([]string, bool) {
	switch x := v.(type) {
	case []string:
		return x, true
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}
