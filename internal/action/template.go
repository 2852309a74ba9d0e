package action

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"tinybot/internal/message"
)

// TemplateHandler utters one of its templates, chosen uniformly at random,
// rendered against the tracker snapshot.
//
// Templates use HCL template syntax ("Hello ${name}!", "%{ if vip }...%{ endif }").
// Function calls are not available, so rendering cannot touch state.
type TemplateHandler struct {
	Base
	templates []compiledTemplate
}

type compiledTemplate struct {
	source string
	expr   hclsyntax.Expression
	roots  []string
}

// NewTemplate compiles every source once. At least one source is required.
func NewTemplate(sources ...string) (*TemplateHandler, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: template list is empty", ErrInvalidDeclaration)
	}
	compiled := make([]compiledTemplate, 0, len(sources))
	for i, src := range sources {
		expr, diags := hclsyntax.ParseTemplate([]byte(src), fmt.Sprintf("template[%d]", i), hcl.InitialPos)
		if diags.HasErrors() {
			return nil, fmt.Errorf("%w: template %d: %s", ErrInvalidDeclaration, i, diags.Error())
		}
		var roots []string
		for _, tr := range expr.Variables() {
			roots = append(roots, tr.RootName())
		}
		compiled = append(compiled, compiledTemplate{source: src, expr: expr, roots: roots})
	}
	return &TemplateHandler{templates: compiled}, nil
}

// Sources returns the template sources in declaration order.
func (t *TemplateHandler) Sources() []string {
	out := make([]string, len(t.templates))
	for i, tpl := range t.templates {
		out[i] = tpl.source
	}
	return out
}

func (t *TemplateHandler) Execute(_ context.Context, _ Agent, tr Tracker, _ *message.Request) (Result, error) {
	tpl := t.templates[rand.IntN(len(t.templates))]
	var snapshot map[string]any
	if tr != nil {
		snapshot = tr.AsMap()
	}
	text, err := tpl.render(snapshot)
	if err != nil {
		return None(), err
	}
	return Text(text), nil
}

func (c compiledTemplate) render(snapshot map[string]any) (string, error) {
	// only referenced roots are converted; undefined ones render empty
	vars := make(map[string]cty.Value, len(c.roots))
	for _, name := range c.roots {
		if v, ok := snapshot[name]; ok {
			vars[name] = toCty(v)
		} else {
			vars[name] = cty.StringVal("")
		}
	}

	val, diags := c.expr.Value(&hcl.EvalContext{Variables: vars})
	if diags.HasErrors() {
		return "", fmt.Errorf("render template: %s", diags.Error())
	}
	val, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	if val.IsNull() || !val.IsKnown() {
		return "", nil
	}
	return val.AsString(), nil
}

// floatVal 将浮点数转换为 cty 数值；NaN 与 ±Inf 不是合法的 cty.Number，按文本渲染。
func floatVal(f float64) cty.Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return cty.StringVal(fmt.Sprint(f))
	}
	return cty.NumberFloatVal(f)
}

func toCty(v any) cty.Value {
	switch x := v.(type) {
	case nil:
		return cty.StringVal("")
	case cty.Value:
		return x
	case string:
		return cty.StringVal(x)
	case bool:
		return cty.BoolVal(x)
	case int:
		return cty.NumberIntVal(int64(x))
	case int32:
		return cty.NumberIntVal(int64(x))
	case int64:
		return cty.NumberIntVal(x)
	case uint:
		return cty.NumberUIntVal(uint64(x))
	case uint64:
		return cty.NumberUIntVal(x)
	case float32:
		return floatVal(float64(x))
	case float64:
		return floatVal(x)
	case time.Time:
		return cty.StringVal(x.Format(time.RFC3339))
	case fmt.Stringer:
		return cty.StringVal(x.String())
	case []string:
		vals := make([]cty.Value, len(x))
		for i, s := range x {
			vals[i] = cty.StringVal(s)
		}
		return cty.TupleVal(vals)
	case []any:
		vals := make([]cty.Value, len(x))
		for i, e := range x {
			vals[i] = toCty(e)
		}
		return cty.TupleVal(vals)
	case map[string]string:
		attrs := make(map[string]cty.Value, len(x))
		for k, s := range x {
			attrs[k] = cty.StringVal(s)
		}
		return cty.ObjectVal(attrs)
	case map[string]any:
		attrs := make(map[string]cty.Value, len(x))
		for k, e := range x {
			attrs[k] = toCty(e)
		}
		return cty.ObjectVal(attrs)
	}

	if ty, err := gocty.ImpliedType(v); err == nil {
		if val, err := gocty.ToCtyValue(v, ty); err == nil {
			return val
		}
	}
	return cty.StringVal(fmt.Sprint(v))
}
