package tags

import (
	"fmt"
	"html"
	"html/template"
	"strings"
)

// Option is a single entry of a select element. Consecutive options sharing a
// non-empty Group are wrapped in an <optgroup>.
type Option struct {
	Value string
	Label string
	Group string
}

// Options builds select options whose labels equal their values.
func Options(values ...string) []Option {
	out := make([]Option, 0, len(values))
	for _, value := range values {
		out = append(out, Option{Value: value, Label: value})
	}
	return out
}

// Builder constructs the HTML primitives form renderers delegate to.
//
// Caller attributes override every attribute a builder derives, including
// type, name, value, id, action, enctype and checked. The form method is the
// one exception: it always goes through ResolveMethod. Implementations must
// follow this rule so swapping builders never changes the attribute values.
type Builder interface {
	Form(action string, multipart bool, attrs Attrs) (template.HTML, error)
	EndForm() (template.HTML, error)
	Text(name, value string, attrs Attrs) (template.HTML, error)
	File(name, value string, attrs Attrs) (template.HTML, error)
	Hidden(name, value string, attrs Attrs) (template.HTML, error)
	Password(name, value string, attrs Attrs) (template.HTML, error)
	Submit(name, value string, attrs Attrs) (template.HTML, error)
	Radio(name, value string, checked bool, label string, attrs Attrs) (template.HTML, error)
	Checkbox(name, value string, checked bool, label string, attrs Attrs) (template.HTML, error)
	Select(name string, selected []string, options []Option, attrs Attrs) (template.HTML, error)
	Textarea(name, content string, attrs Attrs) (template.HTML, error)
	Tag(name string, attrs Attrs, children ...any) (template.HTML, error)
}

// MethodOverrideField carries the real HTTP verb when a form is submitted with
// a method browsers cannot send.
const MethodOverrideField = "_method"

var voidElements = map[string]struct{}{
	"area": {}, "base": {}, "br": {}, "col": {}, "embed": {}, "hr": {},
	"img": {}, "input": {}, "link": {}, "meta": {}, "source": {}, "wbr": {},
}

// HTMLBuilder is the default Builder. It writes markup directly with escaped
// attribute values and XHTML-style void elements.
type HTMLBuilder struct{}

// NewBuilder returns the default builder.
func NewBuilder() *HTMLBuilder {
	return &HTMLBuilder{}
}

var _ Builder = (*HTMLBuilder)(nil)

// Form opens a form element. Methods other than GET/POST are sent as POST with
// a hidden _method input.
func (b *HTMLBuilder) Form(action string, multipart bool, attrs Attrs) (template.HTML, error) {
	method, override := ResolveMethod(attrs)
	base := map[string]string{
		"action": action,
	}
	if multipart {
		base["enctype"] = "multipart/form-data"
	}
	merged := Merge(base, attrs)
	merged["method"] = method

	out := "<form" + Render(merged) + ">"
	if override != "" {
		hidden, err := b.Hidden(MethodOverrideField, override, Attrs{})
		if err != nil {
			return "", err
		}
		out += string(hidden)
	}
	return template.HTML(out), nil
}

// ResolveMethod returns the method attribute for a form and, when the caller
// asked for a verb browsers cannot submit, the verb to carry in _method.
func ResolveMethod(attrs Attrs) (method, override string) {
	raw, _ := attrs.Get("method")
	verb := strings.ToUpper(strings.TrimSpace(raw))
	switch verb {
	case "", "POST":
		return "post", ""
	case "GET":
		return "get", ""
	default:
		return "post", verb
	}
}

func (b *HTMLBuilder) EndForm() (template.HTML, error) {
	return "</form>", nil
}

func (b *HTMLBuilder) Text(name, value string, attrs Attrs) (template.HTML, error) {
	return b.input("text", name, value, attrs), nil
}

func (b *HTMLBuilder) File(name, value string, attrs Attrs) (template.HTML, error) {
	return b.input("file", name, value, attrs), nil
}

func (b *HTMLBuilder) Hidden(name, value string, attrs Attrs) (template.HTML, error) {
	return b.input("hidden", name, value, attrs), nil
}

func (b *HTMLBuilder) Password(name, value string, attrs Attrs) (template.HTML, error) {
	return b.input("password", name, value, attrs), nil
}

func (b *HTMLBuilder) Submit(name, value string, attrs Attrs) (template.HTML, error) {
	return b.input("submit", name, value, attrs), nil
}

func (b *HTMLBuilder) Radio(name, value string, checked bool, label string, attrs Attrs) (template.HTML, error) {
	base := map[string]string{
		"type":  "radio",
		"name":  name,
		"value": value,
		"id":    RadioID(name, value),
	}
	if checked {
		base["checked"] = "checked"
	}
	return wrapLabel(voidTag("input", Merge(base, attrs)), label), nil
}

func (b *HTMLBuilder) Checkbox(name, value string, checked bool, label string, attrs Attrs) (template.HTML, error) {
	base := map[string]string{
		"type":  "checkbox",
		"name":  name,
		"value": value,
		"id":    SafeID(name),
	}
	if checked {
		base["checked"] = "checked"
	}
	return wrapLabel(voidTag("input", Merge(base, attrs)), label), nil
}

func (b *HTMLBuilder) Select(name string, selected []string, options []Option, attrs Attrs) (template.HTML, error) {
	base := map[string]string{
		"name": name,
		"id":   SafeID(name),
	}
	chosen := make(map[string]struct{}, len(selected))
	for _, value := range selected {
		chosen[value] = struct{}{}
	}

	var builder strings.Builder
	builder.WriteString("<select")
	builder.WriteString(Render(Merge(base, attrs)))
	builder.WriteString(">")

	group := ""
	for _, option := range options {
		if option.Group != group {
			if group != "" {
				builder.WriteString("</optgroup>")
			}
			group = option.Group
			if group != "" {
				builder.WriteString(`<optgroup label="`)
				builder.WriteString(html.EscapeString(group))
				builder.WriteString(`">`)
			}
		}
		optionAttrs := map[string]string{"value": option.Value}
		if _, ok := chosen[option.Value]; ok {
			optionAttrs["selected"] = "selected"
		}
		label := option.Label
		if label == "" {
			label = option.Value
		}
		builder.WriteString("<option")
		builder.WriteString(Render(optionAttrs))
		builder.WriteString(">")
		builder.WriteString(html.EscapeString(label))
		builder.WriteString("</option>")
	}
	if group != "" {
		builder.WriteString("</optgroup>")
	}
	builder.WriteString("</select>")
	return template.HTML(builder.String()), nil
}

func (b *HTMLBuilder) Textarea(name, content string, attrs Attrs) (template.HTML, error) {
	base := map[string]string{
		"name": name,
		"id":   SafeID(name),
	}
	return template.HTML("<textarea" + Render(Merge(base, attrs)) + ">" + html.EscapeString(content) + "</textarea>"), nil
}

// Tag builds an arbitrary element. template.HTML children are embedded as-is;
// every other child is converted with fmt.Sprint and escaped. Nil children are
// skipped.
func (b *HTMLBuilder) Tag(name string, attrs Attrs, children ...any) (template.HTML, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", fmt.Errorf("tags: element name is required")
	}
	if !ValidAttrName(name) {
		return "", fmt.Errorf("tags: invalid element name %q", name)
	}
	if _, void := voidElements[name]; void {
		if len(children) > 0 {
			return "", fmt.Errorf("tags: void element %q cannot have children", name)
		}
		return voidTag(name, attrs.Map()), nil
	}

	var builder strings.Builder
	builder.WriteString("<")
	builder.WriteString(name)
	builder.WriteString(Render(attrs.Map()))
	builder.WriteString(">")
	for _, child := range children {
		builder.WriteString(childMarkup(child))
	}
	builder.WriteString("</")
	builder.WriteString(name)
	builder.WriteString(">")
	return template.HTML(builder.String()), nil
}

func (b *HTMLBuilder) input(kind, name, value string, attrs Attrs) template.HTML {
	base := map[string]string{
		"type":  kind,
		"name":  name,
		"value": value,
		"id":    SafeID(name),
	}
	return voidTag("input", Merge(base, attrs))
}

// RadioID derives the id of a radio input from its group name and value.
func RadioID(name, value string) string {
	id := SafeID(name)
	if suffix := SafeID(value); suffix != "" {
		id += "_" + suffix
	}
	return id
}

func voidTag(name string, attrs map[string]string) template.HTML {
	return template.HTML("<" + name + Render(attrs) + " />")
}

func wrapLabel(input template.HTML, label string) template.HTML {
	if label == "" {
		return input
	}
	return template.HTML("<label>" + string(input) + " " + html.EscapeString(label) + "</label>")
}

func childMarkup(child any) string {
	switch v := child.(type) {
	case nil:
		return ""
	case template.HTML:
		return string(v)
	case string:
		return html.EscapeString(v)
	case fmt.Stringer:
		return html.EscapeString(v.String())
	default:
		return html.EscapeString(fmt.Sprint(v))
	}
}
