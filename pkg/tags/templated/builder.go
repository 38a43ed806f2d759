// Package templated provides a tags.Builder that renders every form primitive
// through a template engine, so markup can be changed per theme without code.
package templated

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strings"

	theme "github.com/goliatone/go-theme"

	rendertemplate "github.com/goliatone/go-simpleform/pkg/render/template"
	"github.com/goliatone/go-simpleform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-simpleform/pkg/tags"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// Partial keys, as used in theme manifests' template maps.
const (
	PartialForm     = "forms.form"
	PartialEndForm  = "forms.end_form"
	PartialText     = "forms.text"
	PartialFile     = "forms.file"
	PartialHidden   = "forms.hidden"
	PartialPassword = "forms.password"
	PartialSubmit   = "forms.submit"
	PartialRadio    = "forms.radio"
	PartialCheckbox = "forms.checkbox"
	PartialSelect   = "forms.select"
	PartialTextarea = "forms.textarea"
)

var defaultPartials = map[string]string{
	PartialForm:     "form",
	PartialEndForm:  "end_form",
	PartialText:     "input",
	PartialFile:     "input",
	PartialHidden:   "input",
	PartialPassword: "input",
	PartialSubmit:   "input",
	PartialRadio:    "choice",
	PartialCheckbox: "choice",
	PartialSelect:   "select",
	PartialTextarea: "textarea",
}

// DefaultPartials returns a copy of the built-in partial key to template name
// mapping. Themes use it as the fallback set when resolving partials.
func DefaultPartials() map[string]string {
	out := make(map[string]string, len(defaultPartials))
	for key, name := range defaultPartials {
		out[key] = name
	}
	return out
}

// DefaultTemplates returns the built-in templates, for callers composing their
// own engine filesystem.
func DefaultTemplates() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		panic(fmt.Sprintf("templated: embedded templates: %v", err))
	}
	return sub
}

// Option configures a Builder.
type Option func(*Builder)

// WithRenderer uses a custom template engine. It must be able to resolve every
// partial name the builder will request.
func WithRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(b *Builder) {
		b.renderer = renderer
	}
}

// WithPartials overrides template names per partial key.
func WithPartials(partials map[string]string) Option {
	return func(b *Builder) {
		for key, name := range partials {
			if name = strings.TrimSpace(name); name != "" {
				b.partials[strings.TrimSpace(key)] = name
			}
		}
	}
}

// WithTheme applies the partial overrides of a resolved theme.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(b *Builder) {
		if cfg != nil {
			WithPartials(cfg.Partials)(b)
		}
	}
}

// Builder renders primitives with templates. Select options are rendered flat;
// option groups are not supported by the default select template. Tag is
// delegated to the plain HTML builder.
type Builder struct {
	renderer rendertemplate.TemplateRenderer
	partials map[string]string
	fallback *tags.HTMLBuilder
}

var _ tags.Builder = (*Builder)(nil)

// New creates a Builder. Without WithRenderer, a pongo2 engine over the
// embedded templates is used.
func New(options ...Option) (*Builder, error) {
	b := &Builder{
		partials: DefaultPartials(),
		fallback: tags.NewBuilder(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(b)
		}
	}

	if b.renderer == nil {
		engine, err := gotemplate.New(gotemplate.WithFS(DefaultTemplates()))
		if err != nil {
			return nil, fmt.Errorf("templated: default engine: %w", err)
		}
		b.renderer = engine
	}
	return b, nil
}

func (b *Builder) Form(action string, multipart bool, attrs tags.Attrs) (template.HTML, error) {
	method, override := tags.ResolveMethod(attrs)
	enctype := ""
	if multipart {
		enctype = "multipart/form-data"
	}
	return b.render(PartialForm, map[string]any{
		"action":         callerValue(attrs, "action", action),
		"method":         method,
		"enctype":        callerValue(attrs, "enctype", enctype),
		"override":       override,
		"override_field": tags.MethodOverrideField,
		"attrs":          attrs.Without("method", "action", "enctype").Map(),
	})
}

func (b *Builder) EndForm() (template.HTML, error) {
	return b.render(PartialEndForm, nil)
}

func (b *Builder) Text(name, value string, attrs tags.Attrs) (template.HTML, error) {
	return b.input(PartialText, "text", name, value, attrs)
}

func (b *Builder) File(name, value string, attrs tags.Attrs) (template.HTML, error) {
	return b.input(PartialFile, "file", name, value, attrs)
}

func (b *Builder) Hidden(name, value string, attrs tags.Attrs) (template.HTML, error) {
	return b.input(PartialHidden, "hidden", name, value, attrs)
}

func (b *Builder) Password(name, value string, attrs tags.Attrs) (template.HTML, error) {
	return b.input(PartialPassword, "password", name, value, attrs)
}

func (b *Builder) Submit(name, value string, attrs tags.Attrs) (template.HTML, error) {
	return b.input(PartialSubmit, "submit", name, value, attrs)
}

func (b *Builder) Radio(name, value string, checked bool, label string, attrs tags.Attrs) (template.HTML, error) {
	return b.choice(PartialRadio, "radio", name, value, checked, label, tags.RadioID(name, value), attrs)
}

func (b *Builder) Checkbox(name, value string, checked bool, label string, attrs tags.Attrs) (template.HTML, error) {
	return b.choice(PartialCheckbox, "checkbox", name, value, checked, label, tags.SafeID(name), attrs)
}

func (b *Builder) Select(name string, selected []string, options []tags.Option, attrs tags.Attrs) (template.HTML, error) {
	chosen := make(map[string]struct{}, len(selected))
	for _, value := range selected {
		chosen[value] = struct{}{}
	}
	items := make([]map[string]any, 0, len(options))
	for _, option := range options {
		label := option.Label
		if label == "" {
			label = option.Value
		}
		_, isSelected := chosen[option.Value]
		items = append(items, map[string]any{
			"value":    option.Value,
			"label":    label,
			"group":    option.Group,
			"selected": isSelected,
		})
	}
	return b.render(PartialSelect, map[string]any{
		"name":    callerValue(attrs, "name", name),
		"options": items,
		"attrs":   controlAttrs(tags.SafeID(name), attrs, "name"),
	})
}

func (b *Builder) Textarea(name, content string, attrs tags.Attrs) (template.HTML, error) {
	return b.render(PartialTextarea, map[string]any{
		"name":    callerValue(attrs, "name", name),
		"content": content,
		"attrs":   controlAttrs(tags.SafeID(name), attrs, "name"),
	})
}

func (b *Builder) Tag(name string, attrs tags.Attrs, children ...any) (template.HTML, error) {
	return b.fallback.Tag(name, attrs, children...)
}

func (b *Builder) input(partial, kind, name, value string, attrs tags.Attrs) (template.HTML, error) {
	return b.render(partial, map[string]any{
		"type":  callerValue(attrs, "type", kind),
		"name":  callerValue(attrs, "name", name),
		"value": callerValue(attrs, "value", value),
		"attrs": controlAttrs(tags.SafeID(name), attrs, "type", "name", "value"),
	})
}

func (b *Builder) choice(partial, kind, name, value string, checked bool, label, id string, attrs tags.Attrs) (template.HTML, error) {
	return b.render(partial, map[string]any{
		"type":    callerValue(attrs, "type", kind),
		"name":    callerValue(attrs, "name", name),
		"value":   callerValue(attrs, "value", value),
		"checked": checked || attrs.Has("checked"),
		"label":   label,
		"attrs":   controlAttrs(id, attrs, "type", "name", "value", "checked"),
	})
}

func (b *Builder) render(partial string, data map[string]any) (template.HTML, error) {
	name, ok := b.partials[partial]
	if !ok {
		return "", fmt.Errorf("templated: no template for %q", partial)
	}
	out, err := b.renderer.RenderTemplate(name, data)
	if err != nil {
		return "", fmt.Errorf("templated: render %s: %w", partial, err)
	}
	return template.HTML(out), nil
}

// callerValue returns the caller's value for an attribute the template writes
// itself, or def when the caller did not set it.
func callerValue(attrs tags.Attrs, key, def string) string {
	if value, ok := attrs.Get(key); ok {
		return value
	}
	return def
}

// controlAttrs returns caller attributes plus the derived id, minus the keys
// the template writes itself.
func controlAttrs(id string, attrs tags.Attrs, reserved ...string) map[string]string {
	out := tags.Merge(map[string]string{"id": id}, attrs.Without(reserved...))
	if out["id"] == "" {
		delete(out, "id")
	}
	return out
}
